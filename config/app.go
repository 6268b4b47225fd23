package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// BaseURL is the public origin used to build the payment redirect
	// targets (success resumes the confirmation step, cancel resumes the
	// payment step).
	BaseURL string `env:"BASE_URL" default:"http://localhost:8080"`

	AdminKey string `env:"ADMIN_KEY"`

	Payment PaymentConfig
	Booking BookingConfig
}

type PaymentConfig struct {
	XenditAPIKey string `env:"XENDIT_API_KEY"`
	// CallbackToken is the shared secret Xendit echoes back in the
	// X-Callback-Token header; webhook deliveries are rejected unless it
	// matches.
	CallbackToken string `env:"XENDIT_CALLBACK_TOKEN,required"`
}

// BookingConfig replaces what used to live as ambient package constants so
// tests can substitute fixture values.
type BookingConfig struct {
	// DepositAmount is the fixed deposit collected at booking time; the
	// balance is settled out-of-band.
	DepositAmount float64 `env:"DEPOSIT_AMOUNT" default:"1000"`
	// Vehicles maps vehicle ids to display names. Orders may only reference
	// a known vehicle.
	Vehicles map[string]string
	// HoldTTL bounds the lifetime of a payment hold; abandoned checkouts
	// lapse and capacity returns to the pool.
	HoldTTL time.Duration `env:"HOLD_TTL_MINUTES" default:"30"`
	// InvoiceExpiry is how long a hosted payment page stays payable.
	InvoiceExpiry time.Duration `env:"INVOICE_EXPIRY_HOURS" default:"24"`
}
