package availability_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"charterbooking/config"
	invrepo "charterbooking/repository/inventory"
	availsvc "charterbooking/service/availability"
)

type invMock struct {
	snapshotFn func(ctx context.Context, vehicleID string, day, now time.Time) (invrepo.Snapshot, error)
	lockKeyFn  func(ctx context.Context, tx *sql.Tx, vehicleID string, day, now time.Time, excludeOrder string) (invrepo.Snapshot, error)
	upsertFn   func(ctx context.Context, tx *sql.Tx, orderCode, vehicleID string, day, expiresAt time.Time) error
	releaseFn  func(ctx context.Context, orderCode string) error
}

func (m *invMock) Snapshot(ctx context.Context, v string, day, now time.Time) (invrepo.Snapshot, error) {
	return m.snapshotFn(ctx, v, day, now)
}
func (m *invMock) LockKey(ctx context.Context, tx *sql.Tx, v string, day, now time.Time, ex string) (invrepo.Snapshot, error) {
	return m.lockKeyFn(ctx, tx, v, day, now, ex)
}
func (m *invMock) UpsertHold(ctx context.Context, tx *sql.Tx, oc, v string, day, exp time.Time) error {
	if m.upsertFn == nil {
		return nil
	}
	return m.upsertFn(ctx, tx, oc, v, day, exp)
}
func (m *invMock) ReleaseHold(ctx context.Context, oc string) error {
	if m.releaseFn == nil {
		return nil
	}
	return m.releaseFn(ctx, oc)
}
func (m *invMock) InsertConsumption(ctx context.Context, tx *sql.Tx, oc, v string, day time.Time) (bool, error) {
	return false, errors.New("not used")
}
func (m *invMock) DeleteHoldTx(ctx context.Context, tx *sql.Tx, oc string) error { return nil }
func (m *invMock) ReleaseExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
func (m *invMock) AddCapacity(ctx context.Context, v string, day time.Time, c int) (int64, error) {
	return 0, nil
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func bcfg() config.BookingConfig {
	return config.BookingConfig{HoldTTL: 30 * time.Minute}
}

func TestCheck_SumsShardedCapacity(t *testing.T) {
	m := &invMock{
		snapshotFn: func(ctx context.Context, v string, d, now time.Time) (invrepo.Snapshot, error) {
			// two shards of 1 each, one consumed
			return invrepo.Snapshot{Capacity: 2, Provisioned: true, Consumed: 1}, nil
		},
	}
	s := availsvc.New(nil, m, bcfg())

	ok, err := s.Check(context.Background(), "V1", day("2025-06-10"))
	if err != nil || !ok {
		t.Fatalf("got ok=%v err=%v; want available", ok, err)
	}
}

func TestCheck_NoRowsIsUnavailable(t *testing.T) {
	m := &invMock{
		snapshotFn: func(ctx context.Context, v string, d, now time.Time) (invrepo.Snapshot, error) {
			return invrepo.Snapshot{Provisioned: false}, nil
		},
	}
	s := availsvc.New(nil, m, bcfg())

	ok, err := s.Check(context.Background(), "V1", day("2025-06-10"))
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v; unprovisioned day must read unavailable", ok, err)
	}
}

func TestCheck_FailsClosedOnStoreError(t *testing.T) {
	m := &invMock{
		snapshotFn: func(ctx context.Context, v string, d, now time.Time) (invrepo.Snapshot, error) {
			return invrepo.Snapshot{}, errors.New("store unreachable")
		},
	}
	s := availsvc.New(nil, m, bcfg())

	ok, err := s.Check(context.Background(), "V1", day("2025-06-10"))
	if ok {
		t.Fatal("store failure must never report available")
	}
	if err == nil {
		t.Fatal("store failure must surface as an error")
	}
}

func TestCheckRange_PerDay(t *testing.T) {
	remaining := map[string]invrepo.Snapshot{
		"2025-06-10": {Capacity: 1, Provisioned: true},
		"2025-06-11": {Capacity: 1, Provisioned: true, Consumed: 1},
		"2025-06-12": {Provisioned: false},
	}
	m := &invMock{
		snapshotFn: func(ctx context.Context, v string, d, now time.Time) (invrepo.Snapshot, error) {
			return remaining[d.Format("2006-01-02")], nil
		},
	}
	s := availsvc.New(nil, m, bcfg())

	days, err := s.CheckRange(context.Background(), "V1", day("2025-06-10"), day("2025-06-12"))
	if err != nil {
		t.Fatalf("CheckRange: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days; want 3", len(days))
	}
	want := []bool{true, false, false}
	for i, w := range want {
		if days[i].Available != w {
			t.Errorf("day %s available=%v; want %v", days[i].Day.Format("2006-01-02"), days[i].Available, w)
		}
	}
}

func TestLockForPayment_PlacesHold(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	var heldFor string
	m := &invMock{
		lockKeyFn: func(ctx context.Context, tx *sql.Tx, v string, d, now time.Time, ex string) (invrepo.Snapshot, error) {
			return invrepo.Snapshot{Capacity: 1, Provisioned: true}, nil
		},
		upsertFn: func(ctx context.Context, tx *sql.Tx, oc, v string, d, exp time.Time) error {
			heldFor = oc
			return nil
		},
	}
	s := availsvc.New(db, m, bcfg())

	if err := s.LockForPayment(context.Background(), "V1", day("2025-06-10"), "CH20250610-ABCDEF"); err != nil {
		t.Fatalf("LockForPayment: %v", err)
	}
	if heldFor != "CH20250610-ABCDEF" {
		t.Fatalf("hold placed for %q", heldFor)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLockForPayment_RefusesWhenExhausted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &invMock{
		lockKeyFn: func(ctx context.Context, tx *sql.Tx, v string, d, now time.Time, ex string) (invrepo.Snapshot, error) {
			return invrepo.Snapshot{Capacity: 1, Provisioned: true, Consumed: 1}, nil
		},
		upsertFn: func(ctx context.Context, tx *sql.Tx, oc, v string, d, exp time.Time) error {
			t.Fatal("must not place a hold when capacity is exhausted")
			return nil
		},
	}
	s := availsvc.New(db, m, bcfg())

	err = s.LockForPayment(context.Background(), "V1", day("2025-06-10"), "CH20250610-ABCDEF")
	if availsvc.Code(err) != availsvc.ErrNoCapacity {
		t.Fatalf("err=%v; want %s", err, availsvc.ErrNoCapacity)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
