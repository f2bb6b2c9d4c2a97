package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dietpix/models"

	"go.uber.org/zap"
)

// DietPayload is the part of diet responses that carries content.
type DietPayload struct {
	DietID     string          `json:"dietId"`
	AIResponse json.RawMessage `json:"aiResponse,omitempty"`
	Preview    json.RawMessage `json:"preview,omitempty"`
}

// GenerateResponse is returned by /api/generatePrompt. Content may sit at the
// top level or under "data".
type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	DietPayload
	Data *DietPayload `json:"data,omitempty"`
}

// Payload returns the content wherever the backend put it.
func (r *GenerateResponse) Payload() DietPayload {
	if r.Data != nil && (r.Data.DietID != "" || len(r.Data.AIResponse) > 0 || len(r.Data.Preview) > 0) {
		return *r.Data
	}
	return r.DietPayload
}

// UserInfo identifies the buyer when checkout carries the full user data.
type UserInfo struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CPF         string `json:"cpf,omitempty"`
}

// CheckoutRequest carries either a dietId or the full user data, never both.
type CheckoutRequest struct {
	DietID   string              `json:"dietId,omitempty"`
	UserData *models.DietRequest `json:"userData,omitempty"`
	UserInfo *UserInfo           `json:"userInfo,omitempty"`
}

type CheckoutResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    *models.OrderData `json:"data"`
}

// PaymentStatusResponse is returned by /api/payment-status/:orderId.
type PaymentStatusResponse struct {
	Success    bool         `json:"success"`
	Paid       bool         `json:"paid"`
	Status     string       `json:"status"`
	Processing bool         `json:"processing,omitempty"`
	Message    string       `json:"message,omitempty"`
	Data       *DietPayload `json:"data,omitempty"`
}

// PaidDietResponse is returned by /api/user-paid-diet.
type PaidDietResponse struct {
	Success     bool         `json:"success"`
	HasPaidDiet bool         `json:"hasPaidDiet"`
	Data        *DietPayload `json:"data,omitempty"`
}

type RegenerateRequest struct {
	DietID   string `json:"dietId"`
	Feedback string `json:"feedback"`
}

type RegenerateResponse = GenerateResponse

// ErrCheckoutRejected is returned when the backend answers success=false.
var ErrCheckoutRejected = errors.New("checkout rejected")

func (c *Client) GenerateDiet(ctx context.Context, token string, req models.DietRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generatePrompt", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCheckout(ctx context.Context, token string, req CheckoutRequest) (*models.OrderData, error) {
	var out CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/checkout", token, req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil || out.Data.OrderID == "" {
		msg := out.Message
		if msg == "" {
			msg = "missing order data"
		}
		return nil, fmt.Errorf("%w: %s", ErrCheckoutRejected, msg)
	}
	return out.Data, nil
}

// PaymentStatus polls an order. "Not paid yet" answers may come with a 4xx
// status; any decodable body below 500 is returned as a response.
func (c *Client) PaymentStatus(ctx context.Context, token, orderID string) (*PaymentStatusResponse, error) {
	path := paymentStatusPath(orderID)
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Warn("payment status call failed", zap.String("orderID", orderID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	var out PaymentStatusResponse
	if err := json.Unmarshal(bytes.TrimSpace(data), &out); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &APIError{Status: resp.StatusCode, Message: out.Message}
	}
	return &out, nil
}

func (c *Client) UserPaidDiet(ctx context.Context, token string) (*PaidDietResponse, error) {
	var out PaidDietResponse
	if err := c.do(ctx, http.MethodGet, "/api/user-paid-diet", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DietHistory lists past diets. The list may be bare or under "data".
func (c *Client) DietHistory(ctx context.Context, token string) ([]models.DietHistoryEntry, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/diets/history", token, nil, &raw); err != nil {
		return nil, err
	}
	var list []models.DietHistoryEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Data []models.DietHistoryEntry `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decoding history: %v", ErrUnavailable, err)
	}
	return wrapped.Data, nil
}

func (c *Client) RegenerateDiet(ctx context.Context, token string, req RegenerateRequest) (*RegenerateResponse, error) {
	var out RegenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/regenerate-diet", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeAI turns an aiResponse field into a value the normalizer accepts:
// a JSON string becomes its text, anything else its decoded value.
func DecodeAI(raw json.RawMessage) (any, bool) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw), true
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, false
	}
	return v, true
}
