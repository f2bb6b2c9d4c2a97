// Package store persists per-client state: the server-side stand-in for the
// browser storage the web client would otherwise keep.
package store

import (
	"context"
	"errors"
)

// Keys under which a client's state is kept.
const (
	KeySessionToken = "session_token"
	KeySessionUser  = "session_user"
	KeyDietPlan     = "diet_plan"
	KeyFormData     = "form_data"
	KeyFlowStep     = "flow_step"
	KeyOrderData    = "order_data"
	KeyFlowMeta     = "flow_meta"
)

// FlowKeys are removed when a flow restarts or the user signs out.
var FlowKeys = []string{KeyFormData, KeyFlowStep, KeyDietPlan, KeyOrderData, KeyFlowMeta}

// SessionKeys are removed on sign-out.
var SessionKeys = []string{KeySessionToken, KeySessionUser}

// ErrEmptyClientID is returned when a caller forgets to scope a call.
var ErrEmptyClientID = errors.New("store: empty client id")

// Store is a flat key/value namespace per client.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID string, keys ...string) error
	Ping(ctx context.Context) error
}
