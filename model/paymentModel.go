// model/payment.go
package model

import "time"

// Payment is the audit record written once per successful deposit capture.
// XenditInvoiceID is unique, so a duplicate webhook delivery for the same
// invoice cannot insert a second row.
type Payment struct {
	ID              int64     `json:"id"`
	OrderCode       string    `json:"order_code"`
	XenditInvoiceID string    `json:"xendit_invoice_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Paid            bool      `json:"paid"`
	CreatedAt       time.Time `json:"created_at"`
}

// OutboxEvent is a durable "something happened" record written in the same
// transaction as the state change it describes. The notifier consumes these
// independently, so a notifier failure never blocks payment confirmation.
type OutboxEvent struct {
	ID           int64      `json:"id"`
	Topic        string     `json:"topic"`
	OrderCode    string     `json:"order_code"`
	Payload      []byte     `json:"payload"`
	CreatedAt    time.Time  `json:"created_at"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
}

const (
	TopicOrderPaid        = "order.paid"
	TopicOverbookingAlert = "overbooking.alert"
)
