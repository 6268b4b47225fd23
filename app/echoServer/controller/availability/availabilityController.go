package availability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	as "charterbooking/service/availability"
)

type Controller struct {
	Svc as.Service
	Log *slog.Logger
}

const dateLayout = "2006-01-02"

// GET /v1/availability?vehicle_id=&date=  or  ?vehicle_id=&from=&to=
func (h *Controller) Check(c echo.Context) error {
	vehicleID := c.QueryParam("vehicle_id")
	if vehicleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "vehicle_id required"})
	}

	if from, to := c.QueryParam("from"), c.QueryParam("to"); from != "" || to != "" {
		return h.checkRange(c, vehicleID, from, to)
	}

	day, err := time.Parse(dateLayout, c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date"})
	}

	ok, err := h.Svc.Check(c.Request().Context(), vehicleID, day)
	if err != nil {
		h.Log.Error("availability check", "err", err)
		// advisory failure degrades to "try again", never to "available"
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "availability unknown, try again", "available": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicle_id": vehicleID, "date": c.QueryParam("date"), "available": ok})
}

func (h *Controller) checkRange(c echo.Context, vehicleID, fromStr, toStr string) error {
	from, err1 := time.Parse(dateLayout, fromStr)
	to, err2 := time.Parse(dateLayout, toStr)
	if err1 != nil || err2 != nil || to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date range"})
	}

	days, err := h.Svc.CheckRange(c.Request().Context(), vehicleID, from, to)
	if err != nil {
		h.Log.Error("availability range check", "err", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "availability unknown, try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicle_id": vehicleID, "days": days})
}
