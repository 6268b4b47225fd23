package paymentsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"charterbooking/model"
	invrepo "charterbooking/repository/inventory"
)

// ErrBadSignature rejects a webhook delivery whose callback token does not
// match the shared secret. Nothing is mutated on this path.
var ErrBadSignature = errors.New("payment callback signature invalid")

type Verifier interface {
	VerifyCallbackToken(header string) error
}

type OrderRepo interface {
	ByCode(ctx context.Context, code string) (*model.Order, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, code string, paidAt time.Time) (bool, error)
	InsertPayment(ctx context.Context, tx *sql.Tx, p *model.Payment) (bool, error)
}

type InventoryRepo interface {
	LockKey(ctx context.Context, tx *sql.Tx, vehicleID string, day, now time.Time, excludeOrder string) (invrepo.Snapshot, error)
	InsertConsumption(ctx context.Context, tx *sql.Tx, orderCode, vehicleID string, day time.Time) (bool, error)
	DeleteHoldTx(ctx context.Context, tx *sql.Tx, orderCode string) error
	ReleaseHold(ctx context.Context, orderCode string) error
}

type OutboxRepo interface {
	Insert(ctx context.Context, tx *sql.Tx, topic, orderCode string, payload []byte) error
}

type Service interface {
	// HandleCallback consumes one at-least-once payment notification.
	// A nil return acknowledges the delivery; ErrBadSignature and
	// transient store errors are the only rejection paths.
	HandleCallback(ctx context.Context, callbackToken string, raw []byte) error
}

type service struct {
	db     *sql.DB
	verify Verifier
	orders OrderRepo
	inv    InventoryRepo
	outbox OutboxRepo
	log    *slog.Logger
	now    func() time.Time
}

func New(db *sql.DB, v Verifier, o OrderRepo, i InventoryRepo, ob OutboxRepo, log *slog.Logger) Service {
	return &service{db: db, verify: v, orders: o, inv: i, outbox: ob, log: log, now: time.Now}
}

type invoiceEvent struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	ExternalID string            `json:"external_id"`
	PaidAmount float64           `json:"paid_amount"`
	Currency   string            `json:"currency"`
	Metadata   map[string]string `json:"metadata"`
}

func (s *service) HandleCallback(ctx context.Context, callbackToken string, raw []byte) error {
	if err := s.verify.VerifyCallbackToken(callbackToken); err != nil {
		s.log.Warn("payment callback rejected: bad token", "err", err)
		return ErrBadSignature
	}

	var ev invoiceEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		// retrying a malformed payload will not fix it; acknowledge
		s.log.Warn("payment callback malformed, acknowledging", "err", err)
		return nil
	}

	switch ev.Status {
	case "PAID":
		return s.onPaid(ctx, ev)
	case "EXPIRED":
		return s.onExpired(ctx, ev)
	default:
		return nil
	}
}

func (s *service) onExpired(ctx context.Context, ev invoiceEvent) error {
	code := ev.Metadata["order_code"]
	if code == "" {
		return nil
	}
	if err := s.inv.ReleaseHold(ctx, code); err != nil {
		return err
	}
	s.log.Info("payment invoice expired, hold released", "order_code", code)
	return nil
}

func (s *service) onPaid(ctx context.Context, ev invoiceEvent) (err error) {
	code := ev.Metadata["order_code"]
	vehicleID := ev.Metadata["vehicle_id"]
	charterDate, dateErr := time.Parse("2006-01-02", ev.Metadata["charter_date"])
	if ev.ID == "" || code == "" || vehicleID == "" || dateErr != nil {
		// missing correlation fields cannot be fixed by redelivery
		s.log.Warn("payment callback missing correlation fields, acknowledging",
			"invoice_id", ev.ID, "order_code", code, "vehicle_id", vehicleID)
		return nil
	}

	o, err := s.orders.ByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Error("payment callback for unknown order, acknowledging", "order_code", code, "invoice_id", ev.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if o.PaymentStatus == model.PaymentPaid {
		// duplicate delivery: exactly one transition has already happened
		return nil
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

	updated, err := s.orders.MarkPaid(ctx, tx, code, now)
	if err != nil {
		return err
	}
	if !updated {
		// a racing delivery won; nothing to do
		_ = tx.Rollback()
		return nil
	}

	inserted, err := s.orders.InsertPayment(ctx, tx, &model.Payment{
		OrderCode:       code,
		XenditInvoiceID: ev.ID,
		Amount:          ev.PaidAmount,
		Currency:        ev.Currency,
		Paid:            true,
	})
	if err != nil {
		return err
	}
	if !inserted {
		// same invoice already recorded by a concurrent delivery
		_ = tx.Rollback()
		return nil
	}

	// Authoritative decrement, re-validated under shard locks. The order's
	// own hold is not counted against it.
	snap, err := s.inv.LockKey(ctx, tx, vehicleID, charterDate, now, code)
	if err != nil {
		return err
	}
	if !snap.Provisioned || snap.Remaining() <= 0 {
		// Payment succeeded but inventory cannot honor it: real-world
		// overbooking needing manual reconciliation. Keep the paid state,
		// escalate, and still acknowledge to stop redelivery.
		s.log.Error("OVERBOOKING: paid order cannot be honored by inventory",
			"order_code", code, "vehicle_id", vehicleID, "charter_date", ev.Metadata["charter_date"],
			"capacity", snap.Capacity, "consumed", snap.Consumed)
		if obErr := s.emit(ctx, tx, model.TopicOverbookingAlert, code, ev); obErr != nil {
			err = obErr
			return err
		}
		return tx.Commit()
	}

	if _, err = s.inv.InsertConsumption(ctx, tx, code, vehicleID, charterDate); err != nil {
		return err
	}
	if err = s.inv.DeleteHoldTx(ctx, tx, code); err != nil {
		return err
	}

	if err = s.emit(ctx, tx, model.TopicOrderPaid, code, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) emit(ctx context.Context, tx *sql.Tx, topic, code string, ev invoiceEvent) error {
	payload, _ := json.Marshal(map[string]any{
		"order_code": code,
		"invoice_id": ev.ID,
		"amount":     ev.PaidAmount,
		"currency":   ev.Currency,
	})
	return s.outbox.Insert(ctx, tx, topic, code, payload)
}
