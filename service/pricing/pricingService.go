package pricing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"charterbooking/config"
	prrepo "charterbooking/repository/pricerule"
)

// errors used by controllers

type ErrCode string

const (
	ErrNoRule     ErrCode = "PRICE_NOT_FOUND"
	ErrBadVehicle ErrCode = "UNKNOWN_VEHICLE"
	ErrBadInput   ErrCode = "BAD_INPUT"
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

type Repo interface {
	FindDated(ctx context.Context, vehicleID, language string, durationHours int, refDate time.Time) (float64, error)
	FindStanding(ctx context.Context, vehicleID, language string, durationHours int) (float64, error)
	Insert(ctx context.Context, vehicleID, language string, durationHours int, validFrom, validUntil *time.Time, price float64) (int64, error)
}

type Service interface {
	// Resolve returns the applicable price for the key. A nil refDate means
	// "standing rule only". No matching rule is ErrNoRule, never a zero
	// price; store errors pass through unchanged.
	Resolve(ctx context.Context, vehicleID, language string, durationHours int, refDate *time.Time) (float64, error)

	AddRule(ctx context.Context, vehicleID, language string, durationHours int, validFrom, validUntil *time.Time, price float64) (int64, error)
}

type service struct {
	r   Repo
	cfg config.BookingConfig
}

func New(r Repo, cfg config.BookingConfig) Service { return &service{r: r, cfg: cfg} }

var _ Repo = (prrepo.Repo)(nil)

func (s *service) Resolve(ctx context.Context, vehicleID, language string, durationHours int, refDate *time.Time) (float64, error) {
	if vehicleID == "" || language == "" || durationHours <= 0 {
		return 0, makeErr(ErrBadInput)
	}
	if _, ok := s.cfg.Vehicles[vehicleID]; !ok {
		return 0, makeErr(ErrBadVehicle)
	}

	if refDate != nil {
		price, err := s.r.FindDated(ctx, vehicleID, language, durationHours, *refDate)
		switch {
		case err == nil:
			return price, nil
		case !errors.Is(err, sql.ErrNoRows):
			return 0, err
		}
		// no date-bound rule covers refDate, fall back to the standing rule
	}

	price, err := s.r.FindStanding(ctx, vehicleID, language, durationHours)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, makeErr(ErrNoRule)
	}
	if err != nil {
		return 0, err
	}
	return price, nil
}

func (s *service) AddRule(ctx context.Context, vehicleID, language string, durationHours int, validFrom, validUntil *time.Time, price float64) (int64, error) {
	if vehicleID == "" || language == "" || durationHours <= 0 || price < 0 {
		return 0, makeErr(ErrBadInput)
	}
	if _, ok := s.cfg.Vehicles[vehicleID]; !ok {
		return 0, makeErr(ErrBadVehicle)
	}
	// a window must be fully specified or fully absent
	if (validFrom == nil) != (validUntil == nil) {
		return 0, makeErr(ErrBadInput)
	}
	return s.r.Insert(ctx, vehicleID, language, durationHours, validFrom, validUntil, price)
}
