package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	invrepo "charterbooking/repository/inventory"
	ps "charterbooking/service/pricing"
	jwtutil "charterbooking/util/jwt"
)

type Controller struct {
	Pricing   ps.Service
	Inventory invrepo.Repo
	V         *validator.Validate
	Log       *slog.Logger
	AdminKey  string
	JWTSecret string
}

// POST /v1/auth/admin
func (h *Controller) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if h.AdminKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.AdminKey)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	token, err := jwtutil.Issue(h.JWTSecret, "admin", "admin", 12*time.Hour)
	if err != nil {
		h.Log.Error("admin token issue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// POST /v1/admin/price-rules
func (h *Controller) CreatePriceRule(c echo.Context) error {
	var req CreatePriceRuleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	var from, until *time.Time
	if req.ValidFrom != "" {
		d, _ := time.Parse("2006-01-02", req.ValidFrom)
		from = &d
	}
	if req.ValidUntil != "" {
		d, _ := time.Parse("2006-01-02", req.ValidUntil)
		until = &d
	}

	id, err := h.Pricing.AddRule(c.Request().Context(), req.VehicleID, req.DriverLanguage, req.DurationHours, from, until, req.Price)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrBadVehicle:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown vehicle"})
		case ps.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid price rule"})
		default:
			h.Log.Error("price rule create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// POST /v1/admin/capacity
func (h *Controller) AddCapacity(c echo.Context) error {
	var req AddCapacityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	day, _ := time.Parse("2006-01-02", req.Date)
	id, err := h.Inventory.AddCapacity(c.Request().Context(), req.VehicleID, day, req.Capacity)
	if err != nil {
		h.Log.Error("capacity add", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
