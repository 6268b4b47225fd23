// repository/pricerule/repo.go
package pricerule

import (
	"context"
	"database/sql"
	"time"
)

type Repo interface {
	// FindDated returns the winning date-bound rule for the key, i.e. the
	// rule whose validity window contains refDate, preferring the latest
	// window start and then the most recently created.
	FindDated(ctx context.Context, vehicleID, language string, durationHours int, refDate time.Time) (float64, error)

	// FindStanding returns the most recently created rule with no validity
	// window for the key.
	FindStanding(ctx context.Context, vehicleID, language string, durationHours int) (float64, error)

	Insert(ctx context.Context, vehicleID, language string, durationHours int, validFrom, validUntil *time.Time, price float64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) FindDated(ctx context.Context, vehicleID, language string, durationHours int, refDate time.Time) (float64, error) {
	const q = `
		SELECT price
		FROM price_rules
		WHERE vehicle_id = $1
		  AND driver_language = $2
		  AND duration_hours = $3
		  AND valid_from IS NOT NULL
		  AND valid_until IS NOT NULL
		  AND valid_from <= $4
		  AND valid_until >= $4
		ORDER BY valid_from DESC, created_at DESC
		LIMIT 1`
	var price float64
	err := r.db.QueryRowContext(ctx, q, vehicleID, language, durationHours, refDate).Scan(&price)
	return price, err
}

func (r *repo) FindStanding(ctx context.Context, vehicleID, language string, durationHours int) (float64, error) {
	const q = `
		SELECT price
		FROM price_rules
		WHERE vehicle_id = $1
		  AND driver_language = $2
		  AND duration_hours = $3
		  AND valid_from IS NULL
		  AND valid_until IS NULL
		ORDER BY created_at DESC
		LIMIT 1`
	var price float64
	err := r.db.QueryRowContext(ctx, q, vehicleID, language, durationHours).Scan(&price)
	return price, err
}

func (r *repo) Insert(ctx context.Context, vehicleID, language string, durationHours int, validFrom, validUntil *time.Time, price float64) (int64, error) {
	const q = `
		INSERT INTO price_rules (vehicle_id, driver_language, duration_hours, valid_from, valid_until, price)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, vehicleID, language, durationHours, validFrom, validUntil, price).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
