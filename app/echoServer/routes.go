package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"charterbooking/app/echoServer/controller/admin"
	"charterbooking/app/echoServer/controller/availability"
	"charterbooking/app/echoServer/controller/booking"
	"charterbooking/app/echoServer/controller/payment"
	"charterbooking/app/echoServer/controller/pricing"
)

type C struct {
	Pricing      *pricing.Controller
	Availability *availability.Controller
	Booking      *booking.Controller
	Payment      *payment.Controller
	Admin        *admin.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/prices/quote", c.Pricing.Quote)
	pub.GET("/availability", c.Availability.Check)

	pub.POST("/orders", c.Booking.Create)
	pub.GET("/orders/:code", c.Booking.Get)
	pub.POST("/orders/:code/checkout", c.Booking.Checkout)
	pub.GET("/orders/:code/resume", c.Booking.Resume)

	// payment webhook
	pub.POST("/payment/xendit", c.Payment.HandleXendit)

	pub.POST("/auth/admin", c.Admin.Login)

	// Admin
	adm := e.Group("/v1/admin")
	adm.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	adm.Use(requireAdmin)

	adm.POST("/price-rules", c.Admin.CreatePriceRule)
	adm.POST("/capacity", c.Admin.AddCapacity)
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tok, ok := c.Get("user").(*jwt.Token)
		if !ok || tok == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		if role, _ := claims["role"].(string); role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		}
		return next(c)
	}
}
