package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

func Load() App {
	_ = godotenv.Load(".env")

	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),
		BaseURL:     getenv("BASE_URL", "http://localhost:8080"),
		AdminKey:    os.Getenv("ADMIN_KEY"),
		Payment: PaymentConfig{
			XenditAPIKey:  os.Getenv("XENDIT_API_KEY"),
			CallbackToken: must("XENDIT_CALLBACK_TOKEN"),
		},
		Booking: BookingConfig{
			DepositAmount: cast.ToFloat64(getenv("DEPOSIT_AMOUNT", "1000")),
			Vehicles:      parseVehicles(getenv("VEHICLES", "alphard:Toyota Alphard,hiace:Toyota Hiace")),
			HoldTTL:       time.Duration(cast.ToInt(getenv("HOLD_TTL_MINUTES", "30"))) * time.Minute,
			InvoiceExpiry: time.Duration(cast.ToInt(getenv("INVOICE_EXPIRY_HOURS", "24"))) * time.Hour,
		},
	}
	return cfg
}

// parseVehicles reads "id:Name,id:Name" pairs.
func parseVehicles(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		id, name, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || id == "" {
			continue
		}
		out[id] = name
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
