// repository/order/repo.go
package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"charterbooking/model"
)

// ErrDuplicateCode is returned when the generated order code already exists;
// the caller regenerates and retries instead of overwriting.
var ErrDuplicateCode = errors.New("order code already exists")

type Repo interface {
	Insert(ctx context.Context, o *model.Order) error
	ByCode(ctx context.Context, code string) (*model.Order, error)

	// MarkPaid flips UNPAID -> PAID. Returns updated=false when the order
	// was already paid, which callers treat as a successful no-op.
	MarkPaid(ctx context.Context, tx *sql.Tx, code string, paidAt time.Time) (updated bool, err error)

	SetInvoice(ctx context.Context, code, invoiceID, link string) error

	InsertPayment(ctx context.Context, tx *sql.Tx, p *model.Payment) (inserted bool, err error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, o *model.Order) error {
	const q = `
		INSERT INTO orders (
			order_code, start_date, end_date, pickup_location, return_location,
			vehicle_id, driver_language, duration_hours, total_price, deposit_amount,
			passengers, luggage, contact_name, contact_phone, contact_email, remark,
			payment_status, fulfillment_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,'UNPAID','PENDING')
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q,
		o.OrderCode, o.StartDate, o.EndDate, o.PickupLocation, o.ReturnLocation,
		o.VehicleID, o.DriverLanguage, o.DurationHours, o.TotalPrice, o.DepositAmount,
		o.Passengers, o.Luggage, o.ContactName, o.ContactPhone, o.ContactEmail, o.Remark,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateCode
		}
		return err
	}
	o.PaymentStatus = model.PaymentUnpaid
	o.Fulfillment = model.FulfillmentPending
	return nil
}

const orderColumns = `
	id, order_code, start_date, end_date, pickup_location, return_location,
	vehicle_id, driver_language, duration_hours, total_price, deposit_amount,
	passengers, luggage, contact_name, contact_phone, contact_email, remark,
	payment_status, fulfillment_status, xendit_invoice_id, payment_link,
	created_at, paid_at`

func (r *repo) ByCode(ctx context.Context, code string) (*model.Order, error) {
	o := &model.Order{}
	var remark sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_code = $1`, code).Scan(
		&o.ID, &o.OrderCode, &o.StartDate, &o.EndDate, &o.PickupLocation, &o.ReturnLocation,
		&o.VehicleID, &o.DriverLanguage, &o.DurationHours, &o.TotalPrice, &o.DepositAmount,
		&o.Passengers, &o.Luggage, &o.ContactName, &o.ContactPhone, &o.ContactEmail, &remark,
		&o.PaymentStatus, &o.Fulfillment, &o.XenditInvoiceID, &o.PaymentLink,
		&o.CreatedAt, &o.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	o.Remark = remark.String
	return o, nil
}

func (r *repo) MarkPaid(ctx context.Context, tx *sql.Tx, code string, paidAt time.Time) (bool, error) {
	const q = `
		UPDATE orders
		SET payment_status = 'PAID',
		    fulfillment_status = 'CONFIRMED',
		    paid_at = $2
		WHERE order_code = $1
		  AND payment_status = 'UNPAID'`
	res, err := tx.ExecContext(ctx, q, code, paidAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) SetInvoice(ctx context.Context, code, invoiceID, link string) error {
	const q = `
		UPDATE orders
		SET xendit_invoice_id = $2, payment_link = $3
		WHERE order_code = $1`
	_, err := r.db.ExecContext(ctx, q, code, invoiceID, link)
	return err
}

func (r *repo) InsertPayment(ctx context.Context, tx *sql.Tx, p *model.Payment) (bool, error) {
	const q = `
		INSERT INTO payments (order_code, xendit_invoice_id, amount, currency, paid)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (xendit_invoice_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, q, p.OrderCode, p.XenditInvoiceID, p.Amount, p.Currency, p.Paid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
