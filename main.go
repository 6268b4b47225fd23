// Package main charter booking API.
//
// @title           Charter Booking API
// @version         1.0
// @description     car-charter booking flow (quotes, availability, orders, deposit payment).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"charterbooking/app/echoServer"
	adminctrl "charterbooking/app/echoServer/controller/admin"
	availctrl "charterbooking/app/echoServer/controller/availability"
	bookingctrl "charterbooking/app/echoServer/controller/booking"
	paymentctrl "charterbooking/app/echoServer/controller/payment"
	pricingctrl "charterbooking/app/echoServer/controller/pricing"
	"charterbooking/app/echoServer/validation"
	"charterbooking/app/scheduler"
	"charterbooking/config"
	invrepo "charterbooking/repository/inventory"
	orderrepo "charterbooking/repository/order"
	outboxrepo "charterbooking/repository/outbox"
	prrepo "charterbooking/repository/pricerule"
	xenditrepo "charterbooking/repository/xendit"
	availsvc "charterbooking/service/availability"
	bookingsvc "charterbooking/service/booking"
	"charterbooking/service/notify"
	paymentsvc "charterbooking/service/payment"
	pricingsvc "charterbooking/service/pricing"
	"charterbooking/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(cfg.DatabaseURL, "migrations"); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	pr := prrepo.New(db)
	ir := invrepo.New(db)
	or := orderrepo.New(db)
	ob := outboxrepo.New(db)
	xr := xenditrepo.NewHTTP(cfg.Payment.XenditAPIKey, cfg.Payment.CallbackToken)

	// services
	ps := pricingsvc.New(pr, cfg.Booking)
	as := availsvc.New(db, ir, cfg.Booking)
	bs := bookingsvc.New(or, ps, as, xr, cfg)
	whs := paymentsvc.New(db, xr, or, ir, ob, log)
	dispatcher := notify.NewDispatcher(ob, notify.SlogNotifier{Log: log}, log)

	// background jobs
	sched := scheduler.New(bookingsvc.NewCleaner(ir), dispatcher, log)
	sched.Start()
	defer sched.Stop()

	// controllers
	v := validator.New()
	pricingC := &pricingctrl.Controller{Svc: ps, V: v, Log: log}
	availC := &availctrl.Controller{Svc: as, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: whs, Log: log}
	adminC := &adminctrl.Controller{
		Pricing:   ps,
		Inventory: ir,
		V:         v,
		Log:       log,
		AdminKey:  cfg.AdminKey,
		JWTSecret: cfg.JWTSecret,
	}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Pricing:      pricingC,
		Availability: availC,
		Booking:      bookingC,
		Payment:      paymentC,
		Admin:        adminC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
