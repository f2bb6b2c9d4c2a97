package flow

import (
	"sync"

	"dietpix/models"
)

// Notifier receives toasts raised by flow commands.
type Notifier interface {
	Notify(t models.Toast)
}

// ToastQueue buffers toasts until the next response drains them.
type ToastQueue struct {
	mu    sync.Mutex
	items []models.Toast
}

func (q *ToastQueue) Notify(t models.Toast) {
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()
}

// Drain returns and forgets the queued toasts.
func (q *ToastQueue) Drain() []models.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

type paymentToast struct {
	kind    string
	message string
}

var paymentToasts = map[string]paymentToast{
	models.PaymentPending:        {models.ToastInfo, "Pagamento pendente. Assim que o PIX for compensado, clique novamente em \"Já paguei\"."},
	models.PaymentWaitingPayment: {models.ToastInfo, "Ainda aguardando o pagamento. Conclua o PIX e tente novamente."},
	models.PaymentFailed:         {models.ToastError, "O pagamento falhou. Gere um novo código PIX e tente novamente."},
	models.PaymentCanceled:       {models.ToastError, "O pagamento foi cancelado."},
	models.PaymentProcessing:     {models.ToastInfo, "Pagamento em processamento. Tente novamente em alguns instantes."},
	models.PaymentUnknown:        {models.ToastWarning, "Não foi possível confirmar o pagamento ainda. Tente novamente em instantes."},
}

func paymentStatusToast(category string) models.Toast {
	pt, ok := paymentToasts[category]
	if !ok {
		category = models.PaymentUnknown
		pt = paymentToasts[category]
	}
	return models.Toast{Kind: pt.kind, Category: category, Message: pt.message}
}

const (
	msgGenerationFailed = "Não foi possível gerar sua dieta agora. Exibindo um plano de exemplo."
	msgCheckoutFailed   = "Não foi possível iniciar o pagamento. Tente novamente."
	msgStatusFailed     = "Erro ao verificar o pagamento. Tente novamente."
	msgNoOrder          = "Nenhum pagamento em andamento. Clique em desbloquear para gerar um novo PIX."
	msgPaymentConfirmed = "Pagamento confirmado! Sua dieta completa foi liberada."
	msgRegenerated      = "Sua dieta foi atualizada."
	msgRegenerateFailed = "Não foi possível atualizar sua dieta. Tente novamente."
)
