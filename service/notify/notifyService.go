package notify

import (
	"context"
	"log/slog"
	"time"

	"charterbooking/model"
	outboxrepo "charterbooking/repository/outbox"
)

// Notifier is the external confirmation/staff-alert sender. The core only
// hands over the event; message formatting is not its concern.
type Notifier interface {
	Notify(ctx context.Context, ev model.OutboxEvent) error
}

// SlogNotifier is the default sink when no real sender is wired.
type SlogNotifier struct{ Log *slog.Logger }

func (n SlogNotifier) Notify(_ context.Context, ev model.OutboxEvent) error {
	n.Log.Info("notify", "topic", ev.Topic, "order_code", ev.OrderCode, "payload", string(ev.Payload))
	return nil
}

type Dispatcher interface {
	// DispatchPending delivers undispatched outbox events. A failing
	// notifier leaves the event pending for the next run; it never touches
	// the payment transaction that produced the event.
	DispatchPending(ctx context.Context) (int, error)
}

type dispatcher struct {
	r     outboxrepo.Repo
	sink  Notifier
	log   *slog.Logger
	batch int
}

func NewDispatcher(r outboxrepo.Repo, sink Notifier, log *slog.Logger) Dispatcher {
	return &dispatcher{r: r, sink: sink, log: log, batch: 50}
}

func (d *dispatcher) DispatchPending(ctx context.Context) (int, error) {
	events, err := d.r.ListPending(ctx, d.batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, ev := range events {
		if err := d.sink.Notify(ctx, ev); err != nil {
			d.log.Error("notifier failed, event stays pending", "event_id", ev.ID, "topic", ev.Topic, "err", err)
			continue
		}
		if err := d.r.MarkDispatched(ctx, ev.ID, time.Now().UTC()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
