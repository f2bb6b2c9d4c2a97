package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeForwarder struct {
	status int
	body   string
	err    error
	path   string
	auth   string
}

func (f *fakeForwarder) Forward(_ context.Context, path, authorization string) (int, string, []byte, error) {
	f.path, f.auth = path, authorization
	if f.err != nil {
		return 0, "", nil, f.err
	}
	return f.status, "application/json", []byte(f.body), nil
}

func proxyRouter(f *fakeForwarder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/payment-status/:orderId", NewProxyHandler(f).PaymentStatusProxyHandler)
	return r
}

func TestProxyRequiresAuthorization(t *testing.T) {
	f := &fakeForwarder{status: http.StatusOK}
	w := httptest.NewRecorder()
	proxyRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payment-status/ord-1", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if f.path != "" {
		t.Fatal("upstream called without authorization")
	}
}

func TestProxyPassesUpstreamThrough(t *testing.T) {
	f := &fakeForwarder{status: http.StatusPaymentRequired, body: `{"paid":false,"status":"pending"}`}
	req := httptest.NewRequest(http.MethodGet, "/api/payment-status/ord-1", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	proxyRouter(f).ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired || w.Body.String() != f.body {
		t.Fatalf("unexpected passthrough %d %s", w.Code, w.Body.String())
	}
	if f.path != "/api/payment-status/ord-1" || f.auth != "Bearer tok" {
		t.Fatalf("unexpected upstream call %q %q", f.path, f.auth)
	}
}

func TestProxyUpstreamFailure(t *testing.T) {
	f := &fakeForwarder{err: errors.New("connection refused")}
	req := httptest.NewRequest(http.MethodGet, "/api/payment-status/ord-1", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	proxyRouter(f).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); body == "" || strings.Contains(body, "connection refused") {
		t.Fatalf("failure detail leaked: %s", body)
	}
}
