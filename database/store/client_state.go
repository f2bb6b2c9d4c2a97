package store

import (
	"context"
	"encoding/json"
	"fmt"

	"dietpix/models"

	"go.uber.org/zap"
)

// schemaVersion is bumped whenever a persisted shape changes incompatibly.
// Values written under another version read back as absent.
const schemaVersion = 1

type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// ClientState gives typed access to one client's persisted state.
// Reads never fail: anything missing, unreadable or malformed comes back as
// the zero value and is logged.
type ClientState struct {
	store    Store
	clientID string
	logger   *zap.Logger
}

func NewClientState(s Store, clientID string, logger *zap.Logger) *ClientState {
	return &ClientState{store: s, clientID: clientID, logger: logger.With(zap.String("clientID", clientID))}
}

func load[T any](ctx context.Context, c *ClientState, key string) (T, bool) {
	var zero T
	raw, ok, err := c.store.Get(ctx, c.clientID, key)
	if err != nil {
		c.logger.Warn("state read failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok || raw == "" {
		return zero, false
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		c.logger.Warn("discarding corrupt state", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if env.V != schemaVersion || len(env.Data) == 0 {
		c.logger.Warn("discarding state with unknown schema", zap.String("key", key), zap.Int("version", env.V))
		return zero, false
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		c.logger.Warn("discarding malformed state", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return out, true
}

func (c *ClientState) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	b, err := json.Marshal(envelope{V: schemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", key, err)
	}
	if err := c.store.Set(ctx, c.clientID, key, string(b)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Token returns the stored session token or "".
func (c *ClientState) Token(ctx context.Context) string {
	t, _ := load[string](ctx, c, KeySessionToken)
	return t
}

func (c *ClientState) SetToken(ctx context.Context, token string) error {
	return c.save(ctx, KeySessionToken, token)
}

// User returns the stored session user, or nil.
func (c *ClientState) User(ctx context.Context) *models.User {
	u, ok := load[models.User](ctx, c, KeySessionUser)
	if !ok || (u.ID == "" && u.Email == "") {
		return nil
	}
	return &u
}

func (c *ClientState) SetUser(ctx context.Context, u models.User) error {
	return c.save(ctx, KeySessionUser, u)
}

// FormData returns the draft form answers.
func (c *ClientState) FormData(ctx context.Context) models.FormData {
	f, _ := load[models.FormData](ctx, c, KeyFormData)
	return f
}

func (c *ClientState) SetFormData(ctx context.Context, f models.FormData) error {
	return c.save(ctx, KeyFormData, f)
}

// Step returns the stored flow step, defaulting to the form.
func (c *ClientState) Step(ctx context.Context) models.FlowStep {
	s, ok := load[models.FlowStep](ctx, c, KeyFlowStep)
	if !ok || !s.Valid() {
		return models.StepForm
	}
	return s
}

func (c *ClientState) SetStep(ctx context.Context, s models.FlowStep) error {
	return c.save(ctx, KeyFlowStep, s)
}

// DietPlan returns the stored plan, or nil.
func (c *ClientState) DietPlan(ctx context.Context) *models.DietPlan {
	p, ok := load[models.DietPlan](ctx, c, KeyDietPlan)
	if !ok {
		return nil
	}
	return &p
}

// SetDietPlan persists p once it is identifiable: it needs a dietId, or it
// must be an unlocked plan with content. Other plans are skipped.
func (c *ClientState) SetDietPlan(ctx context.Context, p models.DietPlan, unlocked bool) error {
	if p.DietID == "" && !(unlocked && p.HasContent()) {
		return nil
	}
	return c.save(ctx, KeyDietPlan, p)
}

// Order returns the stored order, or nil.
func (c *ClientState) Order(ctx context.Context) *models.OrderData {
	o, ok := load[models.OrderData](ctx, c, KeyOrderData)
	if !ok || o.OrderID == "" {
		return nil
	}
	return &o
}

func (c *ClientState) SetOrder(ctx context.Context, o models.OrderData) error {
	return c.save(ctx, KeyOrderData, o)
}

// Meta returns the flow bookkeeping.
func (c *ClientState) Meta(ctx context.Context) models.FlowMeta {
	m, _ := load[models.FlowMeta](ctx, c, KeyFlowMeta)
	return m
}

func (c *ClientState) SetMeta(ctx context.Context, m models.FlowMeta) error {
	return c.save(ctx, KeyFlowMeta, m)
}

// ClearFlow drops the form, step, plan, order and flow bookkeeping.
func (c *ClientState) ClearFlow(ctx context.Context) error {
	return c.store.Delete(ctx, c.clientID, FlowKeys...)
}

// ClearDiet drops the plan and order of a previous attempt.
func (c *ClientState) ClearDiet(ctx context.Context) error {
	return c.store.Delete(ctx, c.clientID, KeyDietPlan, KeyOrderData)
}

// ClearSession drops the token and user.
func (c *ClientState) ClearSession(ctx context.Context) error {
	return c.store.Delete(ctx, c.clientID, SessionKeys...)
}
