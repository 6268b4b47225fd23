package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	bs "charterbooking/service/booking"
	"charterbooking/util/ordercode"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// validationMessages maps failed fields to per-category messages so the UI
// can point the customer at the step that needs fixing.
func validationMessages(err error) echo.Map {
	cat := func(field string) string {
		switch field {
		case "StartDate", "EndDate":
			return "dates"
		case "ContactName", "ContactPhone", "ContactEmail":
			return "contact"
		case "VehicleID", "DriverLanguage", "DurationHours":
			return "vehicle"
		default:
			return "details"
		}
	}
	out := echo.Map{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch cat(fe.Field()) {
			case "dates":
				out["dates"] = "please provide valid charter dates"
			case "contact":
				out["contact"] = "please provide valid contact details"
			case "vehicle":
				out["vehicle"] = "please select a vehicle, language and duration"
			default:
				out["details"] = "please complete the booking details"
			}
		}
	}
	if len(out) == 0 {
		out["details"] = err.Error()
	}
	return out
}

// POST /v1/orders
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  validationMessages(err),
		})
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	o, err := h.Svc.Create(c.Request().Context(), bs.Draft{
		StartDate:      start,
		EndDate:        end,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		VehicleID:      req.VehicleID,
		DriverLanguage: req.DriverLanguage,
		DurationHours:  req.DurationHours,
		Passengers:     req.Passengers,
		Luggage:        req.Luggage,
		ContactName:    req.ContactName,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		Remark:         req.Remark,
	})
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrNoPrice:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "no price for this combination"})
		case bs.ErrBadVehicle:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown vehicle"})
		case bs.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking request"})
		default:
			h.Log.Error("order create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"order_code":     o.OrderCode,
		"total_price":    o.TotalPrice,
		"deposit_amount": o.DepositAmount,
		"payment_status": o.PaymentStatus,
	})
}

// GET /v1/orders/:code
func (h *Controller) Get(c echo.Context) error {
	code := c.Param("code")
	if !ordercode.Valid(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order code"})
	}

	o, err := h.Svc.Get(c.Request().Context(), code)
	if err != nil {
		if bs.Code(err) == bs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		}
		h.Log.Error("order get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, o)
}

// POST /v1/orders/:code/checkout
func (h *Controller) Checkout(c echo.Context) error {
	code := c.Param("code")
	if !ordercode.Valid(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order code"})
	}

	out, err := h.Svc.Checkout(c.Request().Context(), code)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case bs.ErrAlreadyPaid:
			return c.JSON(http.StatusConflict, echo.Map{"message": "order already paid"})
		case bs.ErrNoCapacity:
			return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle no longer available for this date"})
		default:
			h.Log.Error("checkout", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order_code":   out.OrderCode,
		"payment_link": out.PaymentLink,
		"hold_expires": out.HoldExpires.Format(time.RFC3339),
	})
}

// GET /v1/orders/:code/resume?step=
func (h *Controller) Resume(c echo.Context) error {
	code := c.Param("code")
	if !ordercode.Valid(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order code"})
	}

	st, err := h.Svc.Resume(c.Request().Context(), code, bs.Step(c.QueryParam("step")))
	if err != nil {
		if bs.Code(err) == bs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		}
		h.Log.Error("resume", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order_code":     st.OrderCode,
		"step":           st.Step,
		"payment_status": st.PaymentStatus,
		"redirected":     st.Redirected,
		"order":          st.Order,
	})
}
