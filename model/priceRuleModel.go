// model/pricerule.go
package model

import "time"

// PriceRule prices a (vehicle, driver language, duration) combination. A rule
// with a nil validity window is the standing rule and acts as the fallback
// when no date-bound rule covers the reference date.
type PriceRule struct {
	ID             int64      `json:"id"`
	VehicleID      string     `json:"vehicle_id"`
	DriverLanguage string     `json:"driver_language"`
	DurationHours  int        `json:"duration_hours"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	Price          float64    `json:"price"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (r PriceRule) Standing() bool { return r.ValidFrom == nil && r.ValidUntil == nil }
