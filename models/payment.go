package models

import "time"

// OrderData is the PIX order created by a checkout attempt.
type OrderData struct {
	OrderID   string     `json:"orderId"`
	Amount    float64    `json:"amount"` // cents
	QRCodeURL string     `json:"qrCodeUrl"`
	PixCode   string     `json:"pixCode,omitempty"`
	Status    string     `json:"status,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Payment status values reported by the backend.
const (
	PaymentPending        = "pending"
	PaymentWaitingPayment = "waiting_payment"
	PaymentFailed         = "failed"
	PaymentCanceled       = "canceled"
	PaymentProcessing     = "processing"
	PaymentUnknown        = "unknown"
	PaymentPaid           = "paid"
)
