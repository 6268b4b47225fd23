package admin

type LoginReq struct {
	AdminKey string `json:"admin_key" validate:"required"`
}

type CreatePriceRuleReq struct {
	VehicleID      string  `json:"vehicle_id" validate:"required"`
	DriverLanguage string  `json:"driver_language" validate:"required"`
	DurationHours  int     `json:"duration_hours" validate:"required,gt=0"`
	ValidFrom      string  `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil     string  `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Price          float64 `json:"price" validate:"gte=0"`
}

type AddCapacityReq struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
}
