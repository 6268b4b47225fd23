package pricing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ps "charterbooking/service/pricing"
)

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

type QuoteReq struct {
	VehicleID      string `json:"vehicle_id" validate:"required"`
	DriverLanguage string `json:"driver_language" validate:"required"`
	DurationHours  int    `json:"duration_hours" validate:"required,gt=0"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// POST /v1/prices/quote
func (h *Controller) Quote(c echo.Context) error {
	var req QuoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	var refDate *time.Time
	if req.Date != "" {
		d, _ := time.Parse("2006-01-02", req.Date)
		refDate = &d
	}

	price, err := h.Svc.Resolve(c.Request().Context(), req.VehicleID, req.DriverLanguage, req.DurationHours, refDate)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrNoRule:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no applicable price"})
		case ps.ErrBadVehicle:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown vehicle"})
		case ps.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid quote request"})
		default:
			h.Log.Error("price quote", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vehicle_id":      req.VehicleID,
		"driver_language": req.DriverLanguage,
		"duration_hours":  req.DurationHours,
		"price":           price,
	})
}
