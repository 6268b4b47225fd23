package availability

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"charterbooking/config"
	"charterbooking/model"
	invrepo "charterbooking/repository/inventory"
)

// errors used by controllers

type ErrCode string

const (
	ErrNoCapacity ErrCode = "NO_CAPACITY"
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

type Service interface {
	// Check is the advisory availability probe. It never mutates state and
	// fails closed: no capacity rows or an unreachable store both report
	// unavailable.
	Check(ctx context.Context, vehicleID string, day time.Time) (bool, error)

	// CheckRange reports per-day availability over [from, to] inclusive.
	CheckRange(ctx context.Context, vehicleID string, from, to time.Time) ([]model.DayAvailability, error)

	// LockForPayment is the hard pre-payment reservation: under shard
	// locks it re-reads remaining capacity and places (or refreshes) the
	// order's expiring hold. ErrNoCapacity when the last unit is gone.
	LockForPayment(ctx context.Context, vehicleID string, day time.Time, orderCode string) error

	// ReleaseHold drops an order's hold, e.g. when its invoice expires.
	ReleaseHold(ctx context.Context, orderCode string) error
}

type service struct {
	db  *sql.DB
	r   invrepo.Repo
	cfg config.BookingConfig
	now func() time.Time
}

func New(db *sql.DB, r invrepo.Repo, cfg config.BookingConfig) Service {
	return &service{db: db, r: r, cfg: cfg, now: time.Now}
}

func (s *service) Check(ctx context.Context, vehicleID string, day time.Time) (bool, error) {
	if vehicleID == "" {
		return false, makeErr(ErrBadInput)
	}
	snap, err := s.r.Snapshot(ctx, vehicleID, day, s.now().UTC())
	if err != nil {
		// fail closed: an unreachable store is "unavailable", never "available"
		return false, err
	}
	return snap.Provisioned && snap.Remaining() > 0, nil
}

func (s *service) CheckRange(ctx context.Context, vehicleID string, from, to time.Time) ([]model.DayAvailability, error) {
	if vehicleID == "" || to.Before(from) {
		return nil, makeErr(ErrBadInput)
	}
	now := s.now().UTC()
	var out []model.DayAvailability
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		snap, err := s.r.Snapshot(ctx, vehicleID, day, now)
		if err != nil {
			return nil, err
		}
		remaining := snap.Remaining()
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, model.DayAvailability{
			Day:       day,
			Available: snap.Provisioned && remaining > 0,
			Remaining: remaining,
		})
	}
	return out, nil
}

func (s *service) LockForPayment(ctx context.Context, vehicleID string, day time.Time, orderCode string) (err error) {
	if vehicleID == "" || orderCode == "" {
		return makeErr(ErrBadInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now().UTC()
	snap, err := s.r.LockKey(ctx, tx, vehicleID, day, now, orderCode)
	if err != nil {
		return err
	}
	if !snap.Provisioned || snap.Remaining() <= 0 {
		return makeErr(ErrNoCapacity)
	}

	if err = s.r.UpsertHold(ctx, tx, orderCode, vehicleID, day, now.Add(s.cfg.HoldTTL)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) ReleaseHold(ctx context.Context, orderCode string) error {
	return s.r.ReleaseHold(ctx, orderCode)
}
