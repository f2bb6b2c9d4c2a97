package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"dietpix/models"
)

// AuthResponse is returned by signin and signup.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// SignUpRequest is the signup body. Blank optional fields are omitted.
type SignUpRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CPF         string `json:"cpf,omitempty"`
}

// MessageResponse is the body of fire-and-report endpoints.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WhoAmI validates token and returns the current user. The backend may wrap
// the user in {"user": ...} or return it bare.
func (c *Client) WhoAmI(ctx context.Context, token string) (*models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/auth/whoami", token, nil, &raw); err != nil {
		return nil, err
	}
	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "invalid whoami body"}
	}
	if u.ID == "" && u.Email == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "empty whoami body"}
	}
	return &u, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) (*MessageResponse, error) {
	var out MessageResponse
	body := map[string]string{"token": resetToken, "newPassword": newPassword}
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
