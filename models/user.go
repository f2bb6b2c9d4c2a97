package models

// User is the account returned by the backend auth endpoints.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CPF         string `json:"cpf,omitempty"`
}

// Session is the active sign-in of one client. The token is the only
// credential attached to backend calls.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CPF         string `json:"cpf,omitempty"`
	Token       string `json:"token"`
}

// NewSession builds a session from a user and token.
func NewSession(u User, token string) Session {
	return Session{
		UserID:      u.ID,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CPF:         u.CPF,
		Token:       token,
	}
}

// SignUpData is what the registration form collects.
type SignUpData struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	CPF         string `json:"cpf"`
}
