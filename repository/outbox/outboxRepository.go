// repository/outbox/repo.go
package outbox

import (
	"context"
	"database/sql"
	"time"

	"charterbooking/model"
)

type Repo interface {
	// Insert writes an event inside the caller's transaction so the event
	// is durable iff the state change it describes committed.
	Insert(ctx context.Context, tx *sql.Tx, topic, orderCode string, payload []byte) error

	ListPending(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id int64, at time.Time) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, topic, orderCode string, payload []byte) error {
	const q = `
		INSERT INTO outbox_events (topic, order_code, payload)
		VALUES ($1,$2,$3::jsonb)`
	_, err := tx.ExecContext(ctx, q, topic, orderCode, string(payload))
	return err
}

func (r *repo) ListPending(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	const q = `
		SELECT id, topic, order_code, payload, created_at
		FROM outbox_events
		WHERE dispatched_at IS NULL
		ORDER BY id
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OutboxEvent
	for rows.Next() {
		var ev model.OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.OrderCode, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *repo) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE outbox_events SET dispatched_at = $2 WHERE id = $1 AND dispatched_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}
