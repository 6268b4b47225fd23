package order

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"charterbooking/model"
)

func testOrder() *model.Order {
	start, _ := time.Parse("2006-01-02", "2025-06-10")
	return &model.Order{
		OrderCode:      "CH20250610-ABCDEF",
		StartDate:      start,
		EndDate:        start,
		PickupLocation: "Naha Airport",
		ReturnLocation: "Naha Airport",
		VehicleID:      "V1",
		DriverLanguage: "zh",
		DurationHours:  8,
		TotalPrice:     3000,
		DepositAmount:  1000,
		Passengers:     4,
		ContactName:    "Lin Wei",
		ContactPhone:   "+886900000000",
		ContactEmail:   "lin@example.com",
	}
}

func TestInsert_MapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "orders_order_code_key"})

	r := New(db)
	err = r.Insert(context.Background(), testOrder())
	require.ErrorIs(t, err, ErrDuplicateCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_OtherErrorsPassThrough(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`INSERT INTO orders`).WillReturnError(boom)

	r := New(db)
	err = r.Insert(context.Background(), testOrder())
	require.ErrorIs(t, err, boom)
}

func TestMarkPaid_GuardedTransition(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	paidAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WithArgs("CH20250610-ABCDEF", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders`).
		WithArgs("CH20250610-ABCDEF", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 0)) // already PAID
	mock.ExpectCommit()

	r := New(db)
	tx, err := db.Begin()
	require.NoError(t, err)

	updated, err := r.MarkPaid(context.Background(), tx, "CH20250610-ABCDEF", paidAt)
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = r.MarkPaid(context.Background(), tx, "CH20250610-ABCDEF", paidAt)
	require.NoError(t, err)
	require.False(t, updated, "second transition reports no update instead of erroring")

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPayment_DuplicateInvoiceIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	r := New(db)
	tx, err := db.Begin()
	require.NoError(t, err)

	p := &model.Payment{OrderCode: "CH20250610-ABCDEF", XenditInvoiceID: "inv_1", Amount: 1000, Currency: "IDR", Paid: true}
	inserted, err := r.InsertPayment(context.Background(), tx, p)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = r.InsertPayment(context.Background(), tx, p)
	require.NoError(t, err)
	require.False(t, inserted)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
