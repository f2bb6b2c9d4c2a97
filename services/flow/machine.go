// Package flow drives the diet purchase journey of one client:
// form, loading, preview, and the payment gate on top of preview.
package flow

import (
	"context"
	"errors"
	"strings"
	"time"

	"dietpix/database/store"
	"dietpix/models"
	"dietpix/services/backend"
	"dietpix/services/normalizer"
	"dietpix/services/payment"

	"go.uber.org/zap"
)

var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrLocked        = errors.New("diet plan is locked")
	ErrNoOrder       = errors.New("no payment order")
	ErrNoPlan        = errors.New("no diet plan")
	ErrWrongStep     = errors.New("command not allowed in current step")
	ErrEmptyFeedback = errors.New("feedback is required")
)

// LoadingStages is the number of progress stages shown before generation.
const LoadingStages = 4

var stageLabels = [LoadingStages]string{
	"Analisando seu perfil",
	"Calculando suas necessidades calóricas",
	"Selecionando os melhores alimentos",
	"Montando seu plano alimentar",
}

// Auth is the part of the session manager the machine relies on.
type Auth interface {
	Authenticated(ctx context.Context) bool
	Token(ctx context.Context) string
	User(ctx context.Context) *models.User
}

// DietAPI is the part of the backend the machine calls.
type DietAPI interface {
	GenerateDiet(ctx context.Context, token string, req models.DietRequest) (*backend.GenerateResponse, error)
	CreateCheckout(ctx context.Context, token string, req backend.CheckoutRequest) (*models.OrderData, error)
	PaymentStatus(ctx context.Context, token, orderID string) (*backend.PaymentStatusResponse, error)
	RegenerateDiet(ctx context.Context, token string, req backend.RegenerateRequest) (*backend.RegenerateResponse, error)
}

type Options struct {
	StageDuration     time.Duration
	DefaultPriceCents float64
	Now               func() time.Time
}

// Machine is not safe for concurrent use. Callers serialize commands per
// client.
type Machine struct {
	state  *store.ClientState
	auth   Auth
	api    DietAPI
	notify Notifier
	logger *zap.Logger

	stage time.Duration
	price float64
	now   func() time.Time
}

func New(state *store.ClientState, auth Auth, api DietAPI, notify Notifier, logger *zap.Logger, opts Options) *Machine {
	m := &Machine{
		state:  state,
		auth:   auth,
		api:    api,
		notify: notify,
		logger: logger,
		stage:  opts.StageDuration,
		price:  opts.DefaultPriceCents,
		now:    opts.Now,
	}
	if m.stage <= 0 {
		m.stage = 3 * time.Second
	}
	if m.price <= 0 {
		m.price = payment.DefaultPriceCents
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// LoadingProgress describes the perceived progress of the loading step.
type LoadingProgress struct {
	Stage    int    `json:"stage"`
	Stages   int    `json:"stages"`
	Label    string `json:"label"`
	Complete bool   `json:"complete"`
}

// Snapshot is everything a view needs to render the journey.
type Snapshot struct {
	Step             models.FlowStep  `json:"step"`
	Loading          *LoadingProgress `json:"loading,omitempty"`
	NeedsAuth        bool             `json:"needsAuth"`
	Authenticated    bool             `json:"authenticated"`
	FormData         models.FormData  `json:"formData"`
	Plan             *models.DietPlan `json:"plan,omitempty"`
	Blurred          bool             `json:"blurred"`
	PaymentConfirmed bool             `json:"paymentConfirmed"`
	Payment          *payment.Modal   `json:"payment,omitempty"`
}

// SubmitResult reports a form submission.
type SubmitResult struct {
	Accepted    bool                    `json:"accepted"`
	Errors      models.ValidationErrors `json:"errors,omitempty"`
	ScrollToTop bool                    `json:"scrollToTop"`
}

func (m *Machine) effectiveStep(ctx context.Context, meta models.FlowMeta, plan *models.DietPlan) models.FlowStep {
	if meta.PaymentConfirmed && plan != nil && plan.HasContent() && m.auth.Authenticated(ctx) {
		return models.StepPreview
	}
	return m.state.Step(ctx)
}

// Step returns the effective step.
func (m *Machine) Step(ctx context.Context) models.FlowStep {
	return m.effectiveStep(ctx, m.state.Meta(ctx), m.state.DietPlan(ctx))
}

func (m *Machine) progress(meta models.FlowMeta) LoadingProgress {
	p := LoadingProgress{Stage: LoadingStages, Stages: LoadingStages, Complete: true}
	if !meta.LoadingStartedAt.IsZero() {
		elapsed := m.now().Sub(meta.LoadingStartedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		p.Complete = elapsed >= LoadingStages*m.stage
		if stage := int(elapsed/m.stage) + 1; stage < LoadingStages {
			p.Stage = stage
		}
	}
	p.Label = stageLabels[p.Stage-1]
	return p
}

// Snapshot renders the current state. It never mutates it.
func (m *Machine) Snapshot(ctx context.Context) Snapshot {
	meta := m.state.Meta(ctx)
	plan := m.state.DietPlan(ctx)
	authed := m.auth.Authenticated(ctx)
	step := m.effectiveStep(ctx, meta, plan)

	snap := Snapshot{
		Step:             step,
		Authenticated:    authed,
		FormData:         m.state.FormData(ctx),
		PaymentConfirmed: meta.PaymentConfirmed,
		NeedsAuth:        meta.PendingAction != "" && !authed,
	}

	switch step {
	case models.StepLoading:
		p := m.progress(meta)
		snap.Loading = &p
	case models.StepPreview:
		shown := m.previewPlan(plan)
		if meta.PaymentConfirmed {
			snap.Plan = &shown
		} else {
			teaser := shown.Teaser()
			snap.Plan = &teaser
			snap.Blurred = true
		}
		if meta.ModalOpen {
			if order := m.state.Order(ctx); order != nil {
				modal := payment.NewModal(*order, m.price, true)
				modal.Expired = payment.Expired(*order, m.now())
				snap.Payment = &modal
			}
		}
	}
	return snap
}

func (m *Machine) previewPlan(plan *models.DietPlan) models.DietPlan {
	if plan != nil && plan.HasContent() {
		return *plan
	}
	fb := normalizer.FallbackPlan()
	if plan != nil {
		fb.DietID = plan.DietID
	}
	return fb
}

// SaveForm stores draft answers.
func (m *Machine) SaveForm(ctx context.Context, f models.FormData) error {
	return m.state.SetFormData(ctx, f)
}

// Submit validates the form and, when valid, moves to loading.
func (m *Machine) Submit(ctx context.Context, f models.FormData) (SubmitResult, error) {
	if err := m.state.SetFormData(ctx, f); err != nil {
		m.logger.Warn("failed to persist form draft", zap.Error(err))
	}
	if err := f.Validate(); err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			return SubmitResult{Errors: verrs, ScrollToTop: true}, nil
		}
		return SubmitResult{}, err
	}

	if err := m.state.ClearDiet(ctx); err != nil {
		m.logger.Warn("failed to drop previous diet", zap.Error(err))
	}
	submitted := f
	meta := models.FlowMeta{
		LoadingStartedAt: m.now(),
		SubmittedForm:    &submitted,
	}
	if err := m.state.SetMeta(ctx, meta); err != nil {
		return SubmitResult{}, err
	}
	if err := m.state.SetStep(ctx, models.StepLoading); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Accepted: true}, nil
}

// Advance moves the loading step forward. Once the final stage has elapsed it
// generates the diet, or parks the generation until the user signs in.
func (m *Machine) Advance(ctx context.Context) error {
	meta := m.state.Meta(ctx)
	if m.effectiveStep(ctx, meta, m.state.DietPlan(ctx)) != models.StepLoading {
		return nil
	}
	if !m.progress(meta).Complete {
		return nil
	}
	if !m.auth.Authenticated(ctx) {
		if meta.PendingAction == models.ActionGenerate {
			return nil
		}
		meta.PendingAction = models.ActionGenerate
		return m.state.SetMeta(ctx, meta)
	}
	return m.generate(ctx, meta)
}

// ResumePending replays the action parked while the user was signed out.
func (m *Machine) ResumePending(ctx context.Context) error {
	if !m.auth.Authenticated(ctx) {
		return nil
	}
	meta := m.state.Meta(ctx)
	switch meta.PendingAction {
	case models.ActionGenerate:
		return m.Advance(ctx)
	case models.ActionUnlock:
		meta.PendingAction = ""
		if err := m.state.SetMeta(ctx, meta); err != nil {
			return err
		}
		return m.Unlock(ctx)
	}
	return nil
}

func (m *Machine) submittedForm(ctx context.Context, meta models.FlowMeta) models.FormData {
	if meta.SubmittedForm != nil {
		return *meta.SubmittedForm
	}
	return m.state.FormData(ctx)
}

// generate always ends in preview: a failed call falls back to the sample plan.
func (m *Machine) generate(ctx context.Context, meta models.FlowMeta) error {
	req := models.NewDietRequest(m.submittedForm(ctx, meta))

	var plan models.DietPlan
	resp, err := m.api.GenerateDiet(ctx, m.auth.Token(ctx), req)
	switch {
	case err != nil:
		m.logger.Warn("diet generation failed, using fallback plan", zap.Error(err))
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgGenerationFailed})
		plan = normalizer.FallbackPlan()
	case !resp.Success && resp.Payload().DietID == "":
		m.logger.Warn("diet generation rejected, using fallback plan", zap.String("message", resp.Message))
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgGenerationFailed})
		plan = normalizer.FallbackPlan()
	default:
		plan = PreviewFromGeneration(resp)
	}

	meta.PendingAction = ""
	if err := m.state.SetDietPlan(ctx, plan, false); err != nil {
		m.logger.Warn("failed to persist preview plan", zap.Error(err))
	}
	if err := m.state.SetMeta(ctx, meta); err != nil {
		return err
	}
	return m.state.SetStep(ctx, models.StepPreview)
}

// PreviewFromGeneration converts a generatePrompt answer into the preview
// plan. Unusable content yields the fallback plan with the diet id kept.
func PreviewFromGeneration(resp *backend.GenerateResponse) models.DietPlan {
	payload := resp.Payload()
	plan := normalizer.FallbackPlan()
	for _, raw := range [][]byte{payload.AIResponse, payload.Preview} {
		v, ok := backend.DecodeAI(raw)
		if !ok {
			continue
		}
		if parsed := normalizer.ParseDietValue(v); !normalizer.IsErrorPlan(parsed) {
			plan = parsed
			break
		}
	}
	if payload.DietID != "" {
		plan.DietID = payload.DietID
	}
	return plan
}

// Reset starts the journey over. The session is kept.
func (m *Machine) Reset(ctx context.Context) error {
	return m.state.ClearFlow(ctx)
}

// Regenerate asks the backend for a new version of an unlocked diet.
func (m *Machine) Regenerate(ctx context.Context, feedback string) error {
	meta := m.state.Meta(ctx)
	plan := m.state.DietPlan(ctx)
	if !meta.PaymentConfirmed || plan == nil {
		return ErrLocked
	}
	if !m.auth.Authenticated(ctx) {
		return ErrAuthRequired
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return ErrEmptyFeedback
	}

	resp, err := m.api.RegenerateDiet(ctx, m.auth.Token(ctx), backend.RegenerateRequest{DietID: plan.DietID, Feedback: feedback})
	if err != nil {
		m.logger.Warn("diet regeneration failed", zap.Error(err))
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgRegenerateFailed})
		return nil
	}
	payload := resp.Payload()
	v, ok := backend.DecodeAI(payload.AIResponse)
	if !ok {
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgRegenerateFailed})
		return nil
	}
	next := normalizer.ParseDietValue(v)
	if normalizer.IsErrorPlan(next) {
		m.logger.Warn("regenerated diet could not be parsed, keeping current plan", zap.String("dietID", plan.DietID))
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgRegenerateFailed})
		return nil
	}
	next.DietID = plan.DietID
	if payload.DietID != "" {
		next.DietID = payload.DietID
	}
	if err := m.state.SetDietPlan(ctx, next, true); err != nil {
		return err
	}
	m.notify.Notify(models.Toast{Kind: models.ToastSuccess, Message: msgRegenerated})
	return nil
}

// ExportablePlan returns the full plan, only once it is unlocked.
func (m *Machine) ExportablePlan(ctx context.Context) (*models.DietPlan, error) {
	if !m.state.Meta(ctx).PaymentConfirmed {
		return nil, ErrLocked
	}
	plan := m.state.DietPlan(ctx)
	if plan == nil || !plan.HasContent() {
		return nil, ErrNoPlan
	}
	return plan, nil
}
