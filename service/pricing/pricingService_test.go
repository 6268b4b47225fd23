package pricing_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"charterbooking/config"
	pricingsvc "charterbooking/service/pricing"
)

type repoMock struct {
	findDatedFn    func(ctx context.Context, vehicleID, language string, durationHours int, refDate time.Time) (float64, error)
	findStandingFn func(ctx context.Context, vehicleID, language string, durationHours int) (float64, error)
	insertFn       func(ctx context.Context, vehicleID, language string, durationHours int, validFrom, validUntil *time.Time, price float64) (int64, error)
}

func (m *repoMock) FindDated(ctx context.Context, v, l string, d int, ref time.Time) (float64, error) {
	if m.findDatedFn == nil {
		return 0, sql.ErrNoRows
	}
	return m.findDatedFn(ctx, v, l, d, ref)
}
func (m *repoMock) FindStanding(ctx context.Context, v, l string, d int) (float64, error) {
	if m.findStandingFn == nil {
		return 0, sql.ErrNoRows
	}
	return m.findStandingFn(ctx, v, l, d)
}
func (m *repoMock) Insert(ctx context.Context, v, l string, d int, from, until *time.Time, price float64) (int64, error) {
	return m.insertFn(ctx, v, l, d, from, until, price)
}

func cfg() config.BookingConfig {
	return config.BookingConfig{
		Vehicles: map[string]string{"V1": "Test Van"},
	}
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestResolve_DateBoundOutranksStanding(t *testing.T) {
	m := &repoMock{
		findDatedFn: func(ctx context.Context, v, l string, d int, ref time.Time) (float64, error) {
			return 4500, nil
		},
		findStandingFn: func(ctx context.Context, v, l string, d int) (float64, error) {
			return 3000, nil
		},
	}
	s := pricingsvc.New(m, cfg())

	ref := date("2025-06-10")
	got, err := s.Resolve(context.Background(), "V1", "zh", 8, &ref)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 4500 {
		t.Fatalf("got %v; want the date-bound 4500 over the standing 3000", got)
	}
}

func TestResolve_FallsBackToStandingRule(t *testing.T) {
	m := &repoMock{
		findStandingFn: func(ctx context.Context, v, l string, d int) (float64, error) {
			return 3000, nil
		},
	}
	s := pricingsvc.New(m, cfg())

	ref := date("2025-06-10")
	got, err := s.Resolve(context.Background(), "V1", "zh", 8, &ref)
	if err != nil || got != 3000 {
		t.Fatalf("got %v err=%v; want 3000 nil", got, err)
	}
}

func TestResolve_NoRefDateSkipsDatedRules(t *testing.T) {
	datedCalled := false
	m := &repoMock{
		findDatedFn: func(ctx context.Context, v, l string, d int, ref time.Time) (float64, error) {
			datedCalled = true
			return 9999, nil
		},
		findStandingFn: func(ctx context.Context, v, l string, d int) (float64, error) {
			return 3000, nil
		},
	}
	s := pricingsvc.New(m, cfg())

	got, err := s.Resolve(context.Background(), "V1", "zh", 8, nil)
	if err != nil || got != 3000 {
		t.Fatalf("got %v err=%v; want 3000 nil", got, err)
	}
	if datedCalled {
		t.Fatal("date-bound lookup must not run without a reference date")
	}
}

func TestResolve_NoRuleIsDistinctFromZero(t *testing.T) {
	s := pricingsvc.New(&repoMock{}, cfg())

	ref := date("2025-06-10")
	_, err := s.Resolve(context.Background(), "V1", "zh", 8, &ref)
	if pricingsvc.Code(err) != pricingsvc.ErrNoRule {
		t.Fatalf("err=%v; want coded %s", err, pricingsvc.ErrNoRule)
	}
}

func TestResolve_StoreErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	m := &repoMock{
		findDatedFn: func(ctx context.Context, v, l string, d int, ref time.Time) (float64, error) {
			return 0, boom
		},
	}
	s := pricingsvc.New(m, cfg())

	ref := date("2025-06-10")
	_, err := s.Resolve(context.Background(), "V1", "zh", 8, &ref)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v; store errors must not be swallowed as not-found", err)
	}
}

func TestResolve_InputValidation(t *testing.T) {
	s := pricingsvc.New(&repoMock{}, cfg())

	if _, err := s.Resolve(context.Background(), "", "zh", 8, nil); pricingsvc.Code(err) != pricingsvc.ErrBadInput {
		t.Fatalf("empty vehicle: err=%v", err)
	}
	if _, err := s.Resolve(context.Background(), "V1", "zh", 0, nil); pricingsvc.Code(err) != pricingsvc.ErrBadInput {
		t.Fatalf("zero duration: err=%v", err)
	}
	if _, err := s.Resolve(context.Background(), "V9", "zh", 8, nil); pricingsvc.Code(err) != pricingsvc.ErrBadVehicle {
		t.Fatalf("unknown vehicle: err=%v", err)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	m := &repoMock{
		findStandingFn: func(ctx context.Context, v, l string, d int) (float64, error) {
			return 3000, nil
		},
	}
	s := pricingsvc.New(m, cfg())

	for i := 0; i < 10; i++ {
		got, err := s.Resolve(context.Background(), "V1", "zh", 8, nil)
		if err != nil || got != 3000 {
			t.Fatalf("call %d: got %v err=%v; want stable 3000", i, got, err)
		}
	}
}
