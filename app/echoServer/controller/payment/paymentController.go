package payment

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	paymentsvc "charterbooking/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// POST /v1/payment/xendit
func (h *Controller) HandleXendit(c echo.Context) error {
	token := c.Request().Header.Get("X-Callback-Token")
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable body"})
	}

	if err := h.Svc.HandleCallback(c.Request().Context(), token, raw); err != nil {
		if errors.Is(err, paymentsvc.ErrBadSignature) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "payment rejected"})
		}
		// transient store failure: let the sender redeliver
		h.Log.Error("payment callback error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "temporary failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
