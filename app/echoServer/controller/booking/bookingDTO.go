package booking

type CreateOrderReq struct {
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
	PickupLocation string `json:"pickup_location" validate:"required"`
	ReturnLocation string `json:"return_location" validate:"required"`
	VehicleID      string `json:"vehicle_id" validate:"required"`
	DriverLanguage string `json:"driver_language" validate:"required"`
	DurationHours  int    `json:"duration_hours" validate:"required,gt=0"`
	Passengers     int    `json:"passengers" validate:"required,gt=0"`
	Luggage        int    `json:"luggage" validate:"gte=0"`
	ContactName    string `json:"contact_name" validate:"required"`
	ContactPhone   string `json:"contact_phone" validate:"required"`
	ContactEmail   string `json:"contact_email" validate:"required,email"`
	Remark         string `json:"remark"`
}
