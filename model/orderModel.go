// model/order.go
package model

import "time"

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "PENDING"
	FulfillmentConfirmed FulfillmentStatus = "CONFIRMED"
	FulfillmentCompleted FulfillmentStatus = "COMPLETED"
	FulfillmentCanceled  FulfillmentStatus = "CANCELED"
)

type Order struct {
	ID              int64             `json:"id"`
	OrderCode       string            `json:"order_code"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	PickupLocation  string            `json:"pickup_location"`
	ReturnLocation  string            `json:"return_location"`
	VehicleID       string            `json:"vehicle_id"`
	DriverLanguage  string            `json:"driver_language"`
	DurationHours   int               `json:"duration_hours"`
	TotalPrice      float64           `json:"total_price"`
	DepositAmount   float64           `json:"deposit_amount"`
	Passengers      int               `json:"passengers"`
	Luggage         int               `json:"luggage"`
	ContactName     string            `json:"contact_name"`
	ContactPhone    string            `json:"contact_phone"`
	ContactEmail    string            `json:"contact_email"`
	Remark          string            `json:"remark,omitempty"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	Fulfillment     FulfillmentStatus `json:"fulfillment_status"`
	XenditInvoiceID *string           `json:"xendit_invoice_id,omitempty"`
	PaymentLink     *string           `json:"payment_link,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
}
