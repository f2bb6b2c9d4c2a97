package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dietpix/database/store"
	"dietpix/models"
	"dietpix/services/backend"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
)

type recorder struct {
	signupBody map[string]any
	whoami     int
}

func newBackend(t *testing.T, rec *recorder, whoamiStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Credenciais inválidas"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"id": "u1", "name": "Ana", "email": body["email"]},
		})
	})
	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&rec.signupBody)
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-2",
			"user":  map[string]string{"id": "u2", "name": "Bia", "email": "bia@example.com"},
		})
	})
	mux.HandleFunc("/api/auth/whoami", func(w http.ResponseWriter, r *http.Request) {
		rec.whoami++
		if whoamiStatus != http.StatusOK {
			w.WriteHeader(whoamiStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "u1", "email": "ana@example.com"}})
	})
	mux.HandleFunc("/api/user-paid-diet", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"hasPaidDiet": true,
			"data": map[string]any{
				"dietId":     "paid-7",
				"aiResponse": `{"breakfast":{"main":["Ovos"]},"lunch":{"main":["Arroz"]},"dinner":{"main":["Sopa"]}}`,
			},
		})
	})
	mux.HandleFunc("/api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newManager(t *testing.T, url string) (*Manager, *store.ClientState) {
	t.Helper()
	state := store.NewClientState(store.NewMemoryStore(), "c1", zap.NewNop())
	api := backend.NewClient(url, 2*time.Second, zap.NewNop())
	return NewManager(state, api, zap.NewNop()), state
}

func TestLoginStoresSessionAndPaidDiet(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t, &recorder{}, http.StatusOK)
	m, state := newManager(t, srv.URL)

	res := m.Login(ctx, " ana@example.com ", "secret")
	if res.Error || res.Token != "tok-1" || res.User == nil {
		t.Fatalf("unexpected login result %+v", res)
	}
	if !m.Authenticated(ctx) || m.Loading() {
		t.Fatalf("expected authenticated, got %s", m.Status())
	}
	if state.Token(ctx) != "tok-1" {
		t.Fatal("token not persisted")
	}
	if u := m.User(ctx); u == nil || u.Email != "ana@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}

	plan := state.DietPlan(ctx)
	if plan == nil || plan.DietID != "paid-7" || !state.Meta(ctx).PaymentConfirmed {
		t.Fatalf("paid diet not synced: %+v", plan)
	}
	if state.Step(ctx) != models.StepPreview {
		t.Fatal("paid diet should land on preview")
	}
}

func TestLoginFailureReturnsBackendMessage(t *testing.T) {
	srv := newBackend(t, &recorder{}, http.StatusOK)
	m, _ := newManager(t, srv.URL)

	res := m.Login(context.Background(), "ana@example.com", "wrong")
	if !res.Error || res.Message != "Credenciais inválidas" {
		t.Fatalf("unexpected result %+v", res)
	}
	if m.Authenticated(context.Background()) {
		t.Fatal("failed login authenticated the session")
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := newBackend(t, &recorder{}, http.StatusOK)
	url := srv.URL
	srv.Close()
	m, _ := newManager(t, url)

	res := m.Login(context.Background(), "ana@example.com", "secret")
	if !res.Error || res.Message != ConnectionErrorMessage {
		t.Fatalf("expected connection error, got %+v", res)
	}
}

func TestRegisterOmitsBlankPhone(t *testing.T) {
	rec := &recorder{}
	srv := newBackend(t, rec, http.StatusOK)
	m, _ := newManager(t, srv.URL)

	res := m.Register(context.Background(), models.SignUpData{
		Name:        "Bia",
		Email:       "bia@example.com",
		Password:    "secret",
		PhoneNumber: "   ",
	})
	if res.Error {
		t.Fatalf("register failed: %s", res.Message)
	}
	if _, ok := rec.signupBody["phoneNumber"]; ok {
		t.Fatalf("blank phone was sent: %+v", rec.signupBody)
	}
}

func TestRestoreInvalidTokenSignsOut(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	srv := newBackend(t, rec, http.StatusUnauthorized)
	m, state := newManager(t, srv.URL)
	state.SetToken(ctx, "stale")
	state.SetUser(ctx, models.User{ID: "u1"})
	state.SetStep(ctx, models.StepLoading)

	if got := m.Restore(ctx); got != StatusAnonymous {
		t.Fatalf("expected anonymous, got %s", got)
	}
	if state.Token(ctx) != "" || state.Step(ctx) != models.StepForm {
		t.Fatal("invalid session left state behind")
	}
	if rec.whoami != 1 {
		t.Fatalf("expected one whoami, got %d", rec.whoami)
	}
}

func TestRestoreValidTokenRunsOnce(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	srv := newBackend(t, rec, http.StatusOK)
	m, state := newManager(t, srv.URL)
	state.SetToken(ctx, "tok-1")

	if got := m.Restore(ctx); got != StatusAuthenticated {
		t.Fatalf("expected authenticated, got %s", got)
	}
	m.Restore(ctx)
	if rec.whoami != 1 {
		t.Fatalf("restore revalidated %d times", rec.whoami)
	}
}

func TestRestoreKeepsSessionWhenBackendDown(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t, &recorder{}, http.StatusOK)
	url := srv.URL
	srv.Close()
	m, state := newManager(t, url)
	state.SetToken(ctx, "tok-1")
	state.SetUser(ctx, models.User{ID: "u1", Email: "ana@example.com"})

	if got := m.Restore(ctx); got != StatusAuthenticated {
		t.Fatalf("expected stored session to survive, got %s", got)
	}
}

func TestSignOutClearsFlow(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t, &recorder{}, http.StatusOK)
	m, state := newManager(t, srv.URL)
	m.Login(ctx, "ana@example.com", "secret")
	state.SetFormData(ctx, models.FormData{Weight: "70"})

	if route := m.SignOut(ctx); route != LandingRoute {
		t.Fatalf("unexpected route %q", route)
	}
	if m.Authenticated(ctx) || state.DietPlan(ctx) != nil || state.FormData(ctx).Weight != "" {
		t.Fatal("sign out left personal state behind")
	}
}

func TestForgotPasswordDefaultMessage(t *testing.T) {
	srv := newBackend(t, &recorder{}, http.StatusOK)
	m, _ := newManager(t, srv.URL)

	res := m.ForgotPassword(context.Background(), "ana@example.com")
	if res.Error || !strings.Contains(res.Message, "instruções") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestRestoreChecksTokenSubject(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t, &recorder{}, http.StatusOK)

	m, state := newManager(t, srv.URL)
	state.SetToken(ctx, signedToken(t, "u1"))
	if got := m.Restore(ctx); got != StatusAuthenticated {
		t.Fatalf("matching subject: expected authenticated, got %s", got)
	}

	m, state = newManager(t, srv.URL)
	state.SetToken(ctx, signedToken(t, "u9"))
	if got := m.Restore(ctx); got != StatusAnonymous {
		t.Fatalf("foreign subject: expected anonymous, got %s", got)
	}
	if state.Token(ctx) != "" {
		t.Fatal("mismatched session kept")
	}
}

func TestRestoreBackendDownRejectsForeignStoredUser(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t, &recorder{}, http.StatusOK)
	url := srv.URL
	srv.Close()
	m, state := newManager(t, url)
	state.SetToken(ctx, signedToken(t, "u9"))
	state.SetUser(ctx, models.User{ID: "u1", Email: "ana@example.com"})

	if got := m.Restore(ctx); got != StatusAnonymous {
		t.Fatalf("expected anonymous, got %s", got)
	}
}

func TestRestoreNoticesSignOutElsewhere(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t, &recorder{}, http.StatusOK)
	m, state := newManager(t, srv.URL)
	m.Login(ctx, "ana@example.com", "secret")
	if m.Status() != StatusAuthenticated {
		t.Fatalf("expected authenticated, got %s", m.Status())
	}

	state.ClearSession(ctx)
	if got := m.Restore(ctx); got != StatusAnonymous {
		t.Fatalf("expected anonymous, got %s", got)
	}
	if m.Status() != StatusAnonymous || m.Authenticated(ctx) {
		t.Fatal("status still reports a session")
	}
}
