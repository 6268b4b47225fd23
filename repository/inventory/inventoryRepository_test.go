package inventory

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestSnapshot_AggregatesShards(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs("V1", day("2025-06-10"), sqlmock.AnyArg(), "").
		WillReturnRows(sqlmock.NewRows([]string{"capacity", "provisioned", "consumed", "held"}).
			AddRow(3, true, 1, 1))

	r := New(db)
	snap, err := r.Snapshot(context.Background(), "V1", day("2025-06-10"), time.Now())
	require.NoError(t, err)
	require.Equal(t, 3, snap.Capacity)
	require.True(t, snap.Provisioned)
	require.Equal(t, 1, snap.Remaining())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertConsumption_ReplayIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO inventory_consumptions`).
		WithArgs("CH20250610-ABCDEF", "V1", day("2025-06-10")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO inventory_consumptions`).
		WithArgs("CH20250610-ABCDEF", "V1", day("2025-06-10")).
		WillReturnResult(sqlmock.NewResult(0, 0)) // ON CONFLICT DO NOTHING
	mock.ExpectCommit()

	r := New(db)
	tx, err := db.Begin()
	require.NoError(t, err)

	inserted, err := r.InsertConsumption(context.Background(), tx, "CH20250610-ABCDEF", "V1", day("2025-06-10"))
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = r.InsertConsumption(context.Background(), tx, "CH20250610-ABCDEF", "V1", day("2025-06-10"))
	require.NoError(t, err)
	require.False(t, inserted, "conflict on order_code reports no insert")

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseExpiredHolds(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM inventory_holds WHERE expires_at`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	r := New(db)
	n, err := r.ReleaseExpiredHolds(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCapacity_RejectsNonPositive(t *testing.T) {
	r := New(nil)
	_, err := r.AddCapacity(context.Background(), "V1", day("2025-06-10"), 0)
	require.Error(t, err)
}
