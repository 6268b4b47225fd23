// model/inventory.go
package model

import "time"

// CapacityShard is one provisioned capacity row. Capacity for a
// (vehicle, day) key may be split across several shards; every lookup must
// sum across them.
type CapacityShard struct {
	ID        int64     `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	Day       time.Time `json:"day"`
	Capacity  int       `json:"capacity"`
}

// InventoryHold is a temporary, expiring reservation of one unit pending
// payment. At most one hold exists per order.
type InventoryHold struct {
	ID        int64     `json:"id"`
	OrderCode string    `json:"order_code"`
	VehicleID string    `json:"vehicle_id"`
	Day       time.Time `json:"day"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// DayAvailability is one element of a range check result.
type DayAvailability struct {
	Day       time.Time `json:"day"`
	Available bool      `json:"available"`
	Remaining int       `json:"remaining"`
}
