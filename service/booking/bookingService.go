package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"charterbooking/config"
	"charterbooking/model"
	orderrepo "charterbooking/repository/order"
	xenditrepo "charterbooking/repository/xendit"
	availsvc "charterbooking/service/availability"
	pricingsvc "charterbooking/service/pricing"
	"charterbooking/util/ordercode"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound    ErrCode = "ORDER_NOT_FOUND"
	ErrNoPrice     ErrCode = "PRICE_NOT_FOUND"
	ErrNoCapacity  ErrCode = "NO_CAPACITY"
	ErrAlreadyPaid ErrCode = "ALREADY_PAID"
	ErrBadVehicle  ErrCode = "UNKNOWN_VEHICLE"
	ErrBadInput    ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// dto

type Draft struct {
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	ReturnLocation string
	VehicleID      string
	DriverLanguage string
	DurationHours  int
	Passengers     int
	Luggage        int
	ContactName    string
	ContactPhone   string
	ContactEmail   string
	Remark         string
}

type CheckoutResult struct {
	OrderCode   string
	PaymentLink string
	InvoiceID   string
	HoldExpires time.Time
}

// Step names for the multi-step UI. The resume step is always derived from
// the authoritative order status, never from client-held state.
type Step string

const (
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

type ResumeState struct {
	OrderCode     string
	Step          Step
	PaymentStatus model.PaymentStatus
	// Redirected is set when the client-requested step did not match the
	// order's actual state.
	Redirected bool
	Order      *model.Order
}

type OrderRepo interface {
	Insert(ctx context.Context, o *model.Order) error
	ByCode(ctx context.Context, code string) (*model.Order, error)
	SetInvoice(ctx context.Context, code, invoiceID, link string) error
}

type Service interface {
	// Create persists an order in the unpaid state with a freshly assigned
	// order code and a price resolved against the charter start date.
	Create(ctx context.Context, d Draft) (*model.Order, error)

	Get(ctx context.Context, code string) (*model.Order, error)

	// Checkout re-validates unpaid status, takes the hard availability
	// hold, and creates the hosted payment session for the fixed deposit.
	Checkout(ctx context.Context, code string) (*CheckoutResult, error)

	// Resume maps a client resume token (order code + requested step) to
	// the step the order is actually in.
	Resume(ctx context.Context, code string, requested Step) (*ResumeState, error)
}

type service struct {
	r       OrderRepo
	pricing pricingsvc.Service
	avail   availsvc.Service
	x       xenditrepo.Repo
	cfg     config.App
	now     func() time.Time
}

func New(r OrderRepo, p pricingsvc.Service, a availsvc.Service, x xenditrepo.Repo, cfg config.App) Service {
	return &service{r: r, pricing: p, avail: a, x: x, cfg: cfg, now: time.Now}
}

const codeRetries = 5

func (s *service) Create(ctx context.Context, d Draft) (*model.Order, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	if _, ok := s.cfg.Booking.Vehicles[d.VehicleID]; !ok {
		return nil, makeErr(ErrBadVehicle)
	}

	ref := d.StartDate
	price, err := s.pricing.Resolve(ctx, d.VehicleID, d.DriverLanguage, d.DurationHours, &ref)
	if err != nil {
		if pricingsvc.Code(err) == pricingsvc.ErrNoRule {
			return nil, makeErr(ErrNoPrice)
		}
		return nil, err
	}

	o := &model.Order{
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		PickupLocation: d.PickupLocation,
		ReturnLocation: d.ReturnLocation,
		VehicleID:      d.VehicleID,
		DriverLanguage: d.DriverLanguage,
		DurationHours:  d.DurationHours,
		TotalPrice:     price,
		DepositAmount:  s.cfg.Booking.DepositAmount,
		Passengers:     d.Passengers,
		Luggage:        d.Luggage,
		ContactName:    d.ContactName,
		ContactPhone:   d.ContactPhone,
		ContactEmail:   d.ContactEmail,
		Remark:         d.Remark,
	}

	// Codes collide with non-zero probability; the store rejects the
	// duplicate and we regenerate.
	for i := 0; i < codeRetries; i++ {
		o.OrderCode = ordercode.New(s.now())
		err = s.r.Insert(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, orderrepo.ErrDuplicateCode) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("order code generation exhausted retries: %w", err)
}

func validateDraft(d Draft) error {
	switch {
	case d.StartDate.IsZero(), d.EndDate.IsZero(), d.EndDate.Before(d.StartDate):
		return makeErr(ErrBadInput)
	case d.VehicleID == "", d.DriverLanguage == "", d.DurationHours <= 0:
		return makeErr(ErrBadInput)
	case d.ContactName == "", d.ContactPhone == "", d.ContactEmail == "":
		return makeErr(ErrBadInput)
	case d.Passengers <= 0, d.Luggage < 0:
		return makeErr(ErrBadInput)
	}
	return nil
}

func (s *service) Get(ctx context.Context, code string) (*model.Order, error) {
	o, err := s.r.ByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrNotFound)
	}
	return o, err
}

func (s *service) Checkout(ctx context.Context, code string) (*CheckoutResult, error) {
	o, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == model.PaymentPaid {
		return nil, makeErr(ErrAlreadyPaid)
	}

	// Hard check: the advisory availability the customer saw earlier is
	// not trusted here.
	if err := s.avail.LockForPayment(ctx, o.VehicleID, o.StartDate, o.OrderCode); err != nil {
		if availsvc.Code(err) == availsvc.ErrNoCapacity {
			return nil, makeErr(ErrNoCapacity)
		}
		return nil, err
	}

	expiry := s.cfg.Booking.InvoiceExpiry
	inv, err := s.x.CreateInvoice(xenditrepo.CreateInvoiceReq{
		ExternalID:  fmt.Sprintf("charter:%s", o.OrderCode),
		Amount:      o.DepositAmount,
		PayerEmail:  o.ContactEmail,
		Description: "Charter booking deposit",
		ExpirySec:   int(expiry.Seconds()),
		SuccessURL:  s.resumeURL(o.OrderCode, StepConfirmation, false),
		FailureURL:  s.resumeURL(o.OrderCode, StepPayment, true),
		Metadata: map[string]string{
			"order_code":   o.OrderCode,
			"vehicle_id":   o.VehicleID,
			"charter_date": o.StartDate.Format("2006-01-02"),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.r.SetInvoice(ctx, o.OrderCode, inv.InvoiceID, inv.InvoiceURL); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		OrderCode:   o.OrderCode,
		PaymentLink: inv.InvoiceURL,
		InvoiceID:   inv.InvoiceID,
		HoldExpires: s.now().UTC().Add(s.cfg.Booking.HoldTTL),
	}, nil
}

func (s *service) resumeURL(code string, step Step, canceled bool) string {
	v := url.Values{"order": {code}, "step": {string(step)}}
	if canceled {
		v.Set("canceled", "1")
	}
	return s.cfg.BaseURL + "/booking/resume?" + v.Encode()
}

func (s *service) Resume(ctx context.Context, code string, requested Step) (*ResumeState, error) {
	o, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	// The requested step is a hint only; a client claiming "confirmation"
	// for an unpaid order lands back on the payment step.
	step := StepPayment
	if o.PaymentStatus == model.PaymentPaid {
		step = StepConfirmation
	}

	return &ResumeState{
		OrderCode:     o.OrderCode,
		Step:          step,
		PaymentStatus: o.PaymentStatus,
		Redirected:    requested != "" && requested != step,
		Order:         o,
	}, nil
}
