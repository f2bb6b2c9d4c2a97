// Package payment builds the PIX payment modal shown after checkout.
package payment

import (
	"fmt"
	"time"

	"dietpix/models"
)

// DefaultPriceCents is shown when an order carries no amount.
const DefaultPriceCents = 990

// Modal is the view model of the payment dialog.
type Modal struct {
	Open          bool       `json:"open"`
	OrderID       string     `json:"orderId"`
	Amount        float64    `json:"amount"`
	AmountDisplay string     `json:"amountDisplay"`
	QRCodeURL     string     `json:"qrCodeUrl"`
	PixPayload    string     `json:"pixPayload"`
	Status        string     `json:"status,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Expired       bool       `json:"expired"`
}

// FormatBRL renders cents as "R$ 9.90".
func FormatBRL(cents float64) string {
	return fmt.Sprintf("R$ %.2f", cents/100)
}

// NewModal builds the dialog for order. A zero amount falls back to defaultPrice.
func NewModal(order models.OrderData, defaultPrice float64, open bool) Modal {
	if defaultPrice <= 0 {
		defaultPrice = DefaultPriceCents
	}
	amount := order.Amount
	if amount <= 0 {
		amount = defaultPrice
	}
	return Modal{
		Open:          open,
		OrderID:       order.OrderID,
		Amount:        amount,
		AmountDisplay: FormatBRL(amount),
		QRCodeURL:     order.QRCodeURL,
		PixPayload:    CopyPayload(order),
		Status:        order.Status,
		ExpiresAt:     order.ExpiresAt,
	}
}

// CopyPayload is the text placed on the clipboard: the PIX copy-and-paste
// code when the order has one, otherwise the QR code source.
func CopyPayload(order models.OrderData) string {
	if order.PixCode != "" {
		return order.PixCode
	}
	return order.QRCodeURL
}

// Expired reports whether the order's PIX code is past its expiry.
func Expired(order models.OrderData, now time.Time) bool {
	return order.ExpiresAt != nil && now.After(*order.ExpiresAt)
}
