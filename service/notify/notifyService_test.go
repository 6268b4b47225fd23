package notify

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"charterbooking/model"
)

type outboxMock struct {
	pending    []model.OutboxEvent
	dispatched []int64
}

func (m *outboxMock) Insert(ctx context.Context, tx *sql.Tx, topic, orderCode string, payload []byte) error {
	return nil
}
func (m *outboxMock) ListPending(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	return m.pending, nil
}
func (m *outboxMock) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	m.dispatched = append(m.dispatched, id)
	return nil
}

type notifierMock struct {
	failFor map[int64]bool
	seen    []int64
}

func (n *notifierMock) Notify(ctx context.Context, ev model.OutboxEvent) error {
	n.seen = append(n.seen, ev.ID)
	if n.failFor[ev.ID] {
		return errors.New("smtp down")
	}
	return nil
}

func TestDispatchPending_FailedEventStaysPending(t *testing.T) {
	ob := &outboxMock{pending: []model.OutboxEvent{
		{ID: 1, Topic: model.TopicOrderPaid, OrderCode: "CH20250610-AAAAAA"},
		{ID: 2, Topic: model.TopicOrderPaid, OrderCode: "CH20250610-BBBBBB"},
	}}
	sink := &notifierMock{failFor: map[int64]bool{1: true}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	d := NewDispatcher(ob, sink, log)
	sent, err := d.DispatchPending(context.Background())
	if err != nil {
		t.Fatalf("DispatchPending: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent=%d; want 1", sent)
	}
	if len(ob.dispatched) != 1 || ob.dispatched[0] != 2 {
		t.Fatalf("dispatched=%v; the failed event must stay pending", ob.dispatched)
	}
}
