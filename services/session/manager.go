// Package session owns the sign-in state of one client.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"dietpix/database/store"
	"dietpix/models"
	"dietpix/services/backend"
	"dietpix/services/normalizer"
	"dietpix/utils"

	"go.uber.org/zap"
)

// Status is the lifecycle of a session manager.
type Status int

const (
	StatusUninitialized Status = iota
	StatusRestoring
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusRestoring:
		return "restoring"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "uninitialized"
}

// User-facing messages.
const (
	ConnectionErrorMessage = "Erro de conexão. Verifique sua internet e tente novamente."
	InvalidCredentials     = "E-mail ou senha inválidos."
	RegisterFailedMessage  = "Não foi possível criar sua conta."
	ForgotPasswordFailed   = "Não foi possível enviar o e-mail de redefinição."
	ForgotPasswordSent     = "Se o e-mail estiver cadastrado, você receberá as instruções de redefinição."
	ResetPasswordDone      = "Senha redefinida com sucesso. Faça login com sua nova senha."
	ResetPasswordFailed    = "Não foi possível redefinir a senha. O link pode ter expirado."
	LandingRoute           = "/"
)

// AuthAPI is the part of the backend the session manager needs.
type AuthAPI interface {
	SignIn(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	SignUp(ctx context.Context, req backend.SignUpRequest) (*backend.AuthResponse, error)
	WhoAmI(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (*backend.MessageResponse, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (*backend.MessageResponse, error)
	UserPaidDiet(ctx context.Context, token string) (*backend.PaidDietResponse, error)
}

// AuthResult is returned by Login and Register. Expected failures are
// reported here, not as Go errors.
type AuthResult struct {
	Error   bool         `json:"error"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// MessageResult is returned by the password recovery operations.
type MessageResult struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Manager holds the session of one client. The token lives in the client's
// durable state and is read from there on every call.
type Manager struct {
	state  *store.ClientState
	api    AuthAPI
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	status Status
}

func NewManager(state *store.ClientState, api AuthAPI, logger *zap.Logger) *Manager {
	return &Manager{
		state:  state,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Loading is true until Restore has resolved. Callers must not treat User as
// authoritative while it is true.
func (m *Manager) Loading() bool {
	s := m.Status()
	return s == StatusUninitialized || s == StatusRestoring
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// Token reads the session token from durable state.
func (m *Manager) Token(ctx context.Context) string {
	return m.state.Token(ctx)
}

// User returns the stored user when authenticated.
func (m *Manager) User(ctx context.Context) *models.User {
	if !m.Authenticated(ctx) {
		return nil
	}
	return m.state.User(ctx)
}

// Authenticated reports a resolved session whose token is still stored. A
// sign-out done through another tab clears the token and is honored here.
func (m *Manager) Authenticated(ctx context.Context) bool {
	return m.Status() == StatusAuthenticated && m.state.Token(ctx) != ""
}

// Session returns the active session, or nil.
func (m *Manager) Session(ctx context.Context) *models.Session {
	u := m.User(ctx)
	if u == nil {
		return nil
	}
	s := models.NewSession(*u, m.Token(ctx))
	return &s
}

// Restore resolves the stored session: it checks durable state and
// revalidates the token with the backend. Once resolved it returns
// immediately, unless a token appeared in storage since (a sign-in made
// through another instance).
func (m *Manager) Restore(ctx context.Context) Status {
	token := m.state.Token(ctx)

	m.mu.Lock()
	switch {
	case m.status == StatusAuthenticated && token == "":
		// Signed out through another instance.
		m.status = StatusAnonymous
		m.mu.Unlock()
		return StatusAnonymous
	case m.status == StatusAuthenticated, m.status == StatusAnonymous && token == "":
		s := m.status
		m.mu.Unlock()
		return s
	}
	m.status = StatusRestoring
	m.mu.Unlock()

	if token == "" {
		m.setStatus(StatusAnonymous)
		return StatusAnonymous
	}
	if utils.TokenExpired(token, m.now()) {
		m.logger.Info("stored session expired, signing out", tokenField(token))
		m.SignOut(ctx)
		return StatusAnonymous
	}

	user, err := m.api.WhoAmI(ctx, token)
	switch {
	case err == nil:
		if !subjectMatches(token, user) {
			m.logger.Warn("session user does not match token subject, signing out", tokenField(token), zap.String("userID", user.ID))
			m.SignOut(ctx)
			return StatusAnonymous
		}
		if err := m.state.SetUser(ctx, *user); err != nil {
			m.logger.Warn("failed to refresh session user", zap.Error(err))
		}
		m.setStatus(StatusAuthenticated)
	case backend.IsUnauthorized(err):
		m.logger.Info("stored session rejected by backend, signing out", tokenField(token))
		m.SignOut(ctx)
		return StatusAnonymous
	default:
		// Backend unreachable: the token is not known to be invalid, keep it.
		m.logger.Warn("could not revalidate session, keeping stored one", tokenField(token), zap.Error(err))
		stored := m.state.User(ctx)
		if stored == nil || !subjectMatches(token, stored) {
			m.SignOut(ctx)
			return StatusAnonymous
		}
		m.setStatus(StatusAuthenticated)
	}
	return m.Status()
}

// subjectMatches reports whether the token's subject, when it has one, is
// the given user. Opaque tokens and users without an id always match.
func subjectMatches(token string, user *models.User) bool {
	if user == nil || user.ID == "" {
		return true
	}
	sub, err := utils.ExtractIDFromToken(token)
	if err != nil {
		return true
	}
	return sub == user.ID
}

// tokenField identifies a token in logs without writing it out.
func tokenField(token string) zap.Field {
	return zap.String("token", utils.HashToken(token)[:12])
}

// Login authenticates against the backend and stores the session.
func (m *Manager) Login(ctx context.Context, email, password string) AuthResult {
	resp, err := m.api.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return m.failure(err, InvalidCredentials)
	}
	return m.establish(ctx, resp)
}

// Register creates an account and stores the session.
func (m *Manager) Register(ctx context.Context, data models.SignUpData) AuthResult {
	req := backend.SignUpRequest{
		Name:        strings.TrimSpace(data.Name),
		Email:       strings.TrimSpace(data.Email),
		Password:    data.Password,
		PhoneNumber: strings.TrimSpace(data.PhoneNumber),
		CPF:         strings.TrimSpace(data.CPF),
	}
	resp, err := m.api.SignUp(ctx, req)
	if err != nil {
		return m.failure(err, RegisterFailedMessage)
	}
	return m.establish(ctx, resp)
}

func (m *Manager) failure(err error, fallback string) AuthResult {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return AuthResult{Error: true, Message: msg}
	}
	m.logger.Warn("auth request failed", zap.Error(err))
	return AuthResult{Error: true, Message: ConnectionErrorMessage}
}

func (m *Manager) establish(ctx context.Context, resp *backend.AuthResponse) AuthResult {
	if resp == nil || resp.Token == "" {
		return AuthResult{Error: true, Message: InvalidCredentials}
	}
	if err := m.state.SetToken(ctx, resp.Token); err != nil {
		m.logger.Error("failed to persist session token", zap.Error(err))
		return AuthResult{Error: true, Message: ConnectionErrorMessage}
	}
	if err := m.state.SetUser(ctx, resp.User); err != nil {
		m.logger.Warn("failed to persist session user", zap.Error(err))
	}
	m.setStatus(StatusAuthenticated)
	m.syncPaidDiet(ctx, resp.Token)

	user := resp.User
	return AuthResult{User: &user, Token: resp.Token}
}

// syncPaidDiet stores an already purchased diet as the unlocked plan, which
// lets the flow skip straight to the full preview.
func (m *Manager) syncPaidDiet(ctx context.Context, token string) {
	resp, err := m.api.UserPaidDiet(ctx, token)
	if err != nil {
		m.logger.Debug("paid diet lookup failed", zap.Error(err))
		return
	}
	if resp == nil || !resp.HasPaidDiet || resp.Data == nil {
		return
	}
	v, ok := backend.DecodeAI(resp.Data.AIResponse)
	if !ok {
		return
	}
	plan := normalizer.ParseDietValue(v)
	if normalizer.IsErrorPlan(plan) {
		m.logger.Warn("paid diet content could not be parsed", zap.String("dietID", resp.Data.DietID))
		return
	}
	plan.DietID = resp.Data.DietID

	meta := m.state.Meta(ctx)
	meta.PaymentConfirmed = true
	meta.ModalOpen = false
	meta.PendingAction = ""
	if err := m.state.SetDietPlan(ctx, plan, true); err != nil {
		m.logger.Warn("failed to persist paid diet", zap.Error(err))
		return
	}
	if err := m.state.SetMeta(ctx, meta); err != nil {
		m.logger.Warn("failed to persist paid diet flag", zap.Error(err))
	}
	if err := m.state.SetStep(ctx, models.StepPreview); err != nil {
		m.logger.Warn("failed to persist step", zap.Error(err))
	}
}

// ForgotPassword asks the backend to send a reset email.
func (m *Manager) ForgotPassword(ctx context.Context, email string) MessageResult {
	resp, err := m.api.ForgotPassword(ctx, strings.TrimSpace(email))
	if err != nil {
		var apiErr *backend.APIError
		if !errors.As(err, &apiErr) {
			return MessageResult{Error: true, Message: ConnectionErrorMessage}
		}
		msg := apiErr.Message
		if msg == "" {
			msg = ForgotPasswordFailed
		}
		return MessageResult{Error: true, Message: msg}
	}
	msg := ForgotPasswordSent
	if resp != nil && resp.Message != "" {
		msg = resp.Message
	}
	return MessageResult{Message: msg}
}

// ResetPassword consumes a reset token.
func (m *Manager) ResetPassword(ctx context.Context, resetToken, newPassword string) MessageResult {
	resp, err := m.api.ResetPassword(ctx, resetToken, newPassword)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = ResetPasswordFailed
			}
			return MessageResult{Error: true, Message: msg}
		}
		return MessageResult{Error: true, Message: ConnectionErrorMessage}
	}
	msg := ResetPasswordDone
	if resp != nil && resp.Message != "" {
		msg = resp.Message
	}
	return MessageResult{Message: msg}
}

// SignOut clears the session and every piece of diet flow state so nothing
// personal leaks into the next session. It returns the route to navigate to.
func (m *Manager) SignOut(ctx context.Context) string {
	if token := m.state.Token(ctx); token != "" {
		m.logger.Info("signing out", tokenField(token))
	}
	if err := m.state.ClearSession(ctx); err != nil {
		m.logger.Warn("failed to clear session", zap.Error(err))
	}
	if err := m.state.ClearFlow(ctx); err != nil {
		m.logger.Warn("failed to clear flow state", zap.Error(err))
	}
	m.setStatus(StatusAnonymous)
	return LandingRoute
}
