// repository/inventory/repo.go
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Snapshot is the aggregated view of one (vehicle, day) key. Capacity may be
// sharded across several rows and is always summed.
type Snapshot struct {
	Capacity    int
	Provisioned bool // at least one capacity row exists
	Consumed    int
	Held        int
}

func (s Snapshot) Remaining() int { return s.Capacity - s.Consumed - s.Held }

type Repo interface {
	// Snapshot is the advisory, read-only aggregate. No locks taken.
	Snapshot(ctx context.Context, vehicleID string, day, now time.Time) (Snapshot, error)

	// LockKey takes FOR UPDATE locks on every capacity shard for the key,
	// serializing concurrent writers, and returns the aggregate as seen
	// under the lock. Holds belonging to excludeOrder are not counted, so
	// an order's own hold never blocks its own progress.
	LockKey(ctx context.Context, tx *sql.Tx, vehicleID string, day, now time.Time, excludeOrder string) (Snapshot, error)

	UpsertHold(ctx context.Context, tx *sql.Tx, orderCode, vehicleID string, day, expiresAt time.Time) error
	ReleaseHold(ctx context.Context, orderCode string) error

	// InsertConsumption records the authoritative decrement. order_code is
	// unique, so a replayed insert reports inserted=false instead of
	// double-decrementing.
	InsertConsumption(ctx context.Context, tx *sql.Tx, orderCode, vehicleID string, day time.Time) (inserted bool, err error)
	DeleteHoldTx(ctx context.Context, tx *sql.Tx, orderCode string) error

	ReleaseExpiredHolds(ctx context.Context, now time.Time) (int64, error)

	AddCapacity(ctx context.Context, vehicleID string, day time.Time, capacity int) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const snapshotQuery = `
	SELECT
		COALESCE((SELECT SUM(vi.capacity) FROM vehicle_inventory vi WHERE vi.vehicle_id = $1 AND vi.day = $2), 0),
		EXISTS (SELECT 1 FROM vehicle_inventory vi WHERE vi.vehicle_id = $1 AND vi.day = $2),
		(SELECT COUNT(*) FROM inventory_consumptions c WHERE c.vehicle_id = $1 AND c.day = $2),
		(SELECT COUNT(*) FROM inventory_holds h
		 WHERE h.vehicle_id = $1 AND h.day = $2 AND h.expires_at > $3 AND h.order_code <> $4)`

func (r *repo) Snapshot(ctx context.Context, vehicleID string, day, now time.Time) (Snapshot, error) {
	var s Snapshot
	err := r.db.QueryRowContext(ctx, snapshotQuery, vehicleID, day, now, "").
		Scan(&s.Capacity, &s.Provisioned, &s.Consumed, &s.Held)
	return s, err
}

func (r *repo) LockKey(ctx context.Context, tx *sql.Tx, vehicleID string, day, now time.Time, excludeOrder string) (Snapshot, error) {
	// Lock every shard first; the aggregate below is then stable for the
	// rest of the transaction.
	const lock = `
		SELECT COUNT(*)
		FROM (SELECT id FROM vehicle_inventory WHERE vehicle_id = $1 AND day = $2 FOR UPDATE) locked`
	var shardCount int
	if err := tx.QueryRowContext(ctx, lock, vehicleID, day).Scan(&shardCount); err != nil {
		return Snapshot{}, err
	}

	var s Snapshot
	err := tx.QueryRowContext(ctx, snapshotQuery, vehicleID, day, now, excludeOrder).
		Scan(&s.Capacity, &s.Provisioned, &s.Consumed, &s.Held)
	return s, err
}

func (r *repo) UpsertHold(ctx context.Context, tx *sql.Tx, orderCode, vehicleID string, day, expiresAt time.Time) error {
	const q = `
		INSERT INTO inventory_holds (order_code, vehicle_id, day, expires_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (order_code)
		DO UPDATE SET vehicle_id = EXCLUDED.vehicle_id,
		              day = EXCLUDED.day,
		              expires_at = EXCLUDED.expires_at`
	_, err := tx.ExecContext(ctx, q, orderCode, vehicleID, day, expiresAt)
	return err
}

func (r *repo) ReleaseHold(ctx context.Context, orderCode string) error {
	const q = `DELETE FROM inventory_holds WHERE order_code = $1`
	_, err := r.db.ExecContext(ctx, q, orderCode)
	return err
}

func (r *repo) DeleteHoldTx(ctx context.Context, tx *sql.Tx, orderCode string) error {
	const q = `DELETE FROM inventory_holds WHERE order_code = $1`
	_, err := tx.ExecContext(ctx, q, orderCode)
	return err
}

func (r *repo) InsertConsumption(ctx context.Context, tx *sql.Tx, orderCode, vehicleID string, day time.Time) (bool, error) {
	const q = `
		INSERT INTO inventory_consumptions (order_code, vehicle_id, day)
		VALUES ($1,$2,$3)
		ON CONFLICT (order_code) DO NOTHING`
	res, err := tx.ExecContext(ctx, q, orderCode, vehicleID, day)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) ReleaseExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM inventory_holds WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) AddCapacity(ctx context.Context, vehicleID string, day time.Time, capacity int) (int64, error) {
	if capacity <= 0 {
		return 0, errors.New("capacity must be > 0")
	}
	const q = `
		INSERT INTO vehicle_inventory (vehicle_id, day, capacity)
		VALUES ($1,$2,$3)
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, vehicleID, day, capacity).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
