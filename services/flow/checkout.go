package flow

import (
	"context"
	"strings"

	"dietpix/models"
	"dietpix/services/backend"
	"dietpix/services/normalizer"
	"dietpix/services/payment"

	"go.uber.org/zap"
)

// Unlock starts a PIX checkout for the previewed diet and opens the payment
// modal. A signed out user gets ErrAuthRequired and the unlock is parked.
func (m *Machine) Unlock(ctx context.Context) error {
	meta := m.state.Meta(ctx)
	plan := m.state.DietPlan(ctx)
	if m.effectiveStep(ctx, meta, plan) != models.StepPreview {
		return ErrWrongStep
	}
	if meta.PaymentConfirmed {
		return nil
	}
	if !m.auth.Authenticated(ctx) {
		meta.PendingAction = models.ActionUnlock
		if err := m.state.SetMeta(ctx, meta); err != nil {
			return err
		}
		return ErrAuthRequired
	}

	order, err := m.api.CreateCheckout(ctx, m.auth.Token(ctx), m.checkoutRequest(ctx, meta, plan))
	if err != nil {
		m.logger.Warn("checkout failed", zap.Error(err))
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgCheckoutFailed})
		return nil
	}
	if order.Status == "" {
		order.Status = models.PaymentPending
	}
	if err := m.state.SetOrder(ctx, *order); err != nil {
		return err
	}
	meta.ModalOpen = true
	meta.PendingAction = ""
	return m.state.SetMeta(ctx, meta)
}

// checkoutRequest carries the dietId when there is one, otherwise the full
// user data.
func (m *Machine) checkoutRequest(ctx context.Context, meta models.FlowMeta, plan *models.DietPlan) backend.CheckoutRequest {
	if plan != nil && plan.DietID != "" {
		return backend.CheckoutRequest{DietID: plan.DietID}
	}
	data := models.NewDietRequest(m.submittedForm(ctx, meta))
	req := backend.CheckoutRequest{UserData: &data}
	if u := m.auth.User(ctx); u != nil {
		req.UserInfo = &backend.UserInfo{
			Name:        u.Name,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
			CPF:         u.CPF,
		}
	}
	return req
}

// ConfirmPayment asks the backend whether the current order was paid. A paid
// order unlocks the full plan; anything else only raises a toast.
func (m *Machine) ConfirmPayment(ctx context.Context) error {
	order := m.state.Order(ctx)
	if order == nil || order.OrderID == "" {
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgNoOrder})
		return ErrNoOrder
	}
	if !m.auth.Authenticated(ctx) {
		return ErrAuthRequired
	}

	resp, err := m.api.PaymentStatus(ctx, m.auth.Token(ctx), order.OrderID)
	if err != nil {
		m.logger.Warn("payment status check failed", zap.String("orderID", order.OrderID), zap.Error(err))
		m.notify.Notify(models.Toast{Kind: models.ToastError, Message: msgStatusFailed})
		return nil
	}
	if !resp.Paid {
		m.notify.Notify(paymentStatusToast(StatusCategory(resp)))
		return nil
	}

	plan := m.finalPlan(ctx, resp)
	if err := m.state.SetDietPlan(ctx, plan, true); err != nil {
		return err
	}
	order.Status = models.PaymentPaid
	if err := m.state.SetOrder(ctx, *order); err != nil {
		m.logger.Warn("failed to persist paid order", zap.Error(err))
	}
	meta := m.state.Meta(ctx)
	meta.PaymentConfirmed = true
	meta.ModalOpen = false
	meta.PendingAction = ""
	if err := m.state.SetMeta(ctx, meta); err != nil {
		return err
	}
	if err := m.state.SetStep(ctx, models.StepPreview); err != nil {
		return err
	}
	m.notify.Notify(models.Toast{Kind: models.ToastSuccess, Category: models.PaymentPaid, Message: msgPaymentConfirmed})
	return nil
}

// finalPlan prefers the AI response delivered with the payment, then the
// content already held, then the sample plan.
func (m *Machine) finalPlan(ctx context.Context, resp *backend.PaymentStatusResponse) models.DietPlan {
	current := m.state.DietPlan(ctx)
	var plan models.DietPlan
	switch {
	case resp.Data != nil && hasAI(resp.Data):
		v, _ := backend.DecodeAI(resp.Data.AIResponse)
		plan = normalizer.ParseDietValue(v)
	case current != nil && current.HasContent():
		plan = *current
	default:
		plan = normalizer.FallbackPlan()
	}
	if plan.DietID == "" && current != nil {
		plan.DietID = current.DietID
	}
	if resp.Data != nil && resp.Data.DietID != "" {
		plan.DietID = resp.Data.DietID
	}
	return plan
}

func hasAI(p *backend.DietPayload) bool {
	_, ok := backend.DecodeAI(p.AIResponse)
	return ok
}

// StatusCategory maps an unpaid status answer to a toast category.
func StatusCategory(resp *backend.PaymentStatusResponse) string {
	if resp.Processing {
		return models.PaymentProcessing
	}
	switch s := strings.ToLower(strings.TrimSpace(resp.Status)); s {
	case models.PaymentPending, models.PaymentWaitingPayment, models.PaymentFailed, models.PaymentProcessing:
		return s
	case models.PaymentCanceled, "cancelled":
		return models.PaymentCanceled
	}
	return models.PaymentUnknown
}

// CancelPayment closes the modal. The order is kept so the user can return
// to it.
func (m *Machine) CancelPayment(ctx context.Context) error {
	meta := m.state.Meta(ctx)
	if !meta.ModalOpen {
		return nil
	}
	meta.ModalOpen = false
	return m.state.SetMeta(ctx, meta)
}

// PaymentCopy returns the PIX payload to put on the clipboard.
func (m *Machine) PaymentCopy(ctx context.Context) (string, error) {
	order := m.state.Order(ctx)
	if order == nil {
		return "", ErrNoOrder
	}
	return payment.CopyPayload(*order), nil
}
