package orders

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var orderColumns = []string{
	"id", "order_number", "table_id", "user_id", "location_id",
	"order_type", "status", "total_amount", "discount_amount", "version",
}

func TestAdvanceStatusStaleVersionConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	// The load sees version 1; by the time the conditional update runs a
	// concurrent writer has already bumped it, so the update matches no
	// rows.
	mock.ExpectQuery(`SELECT .* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(1, "ORD-20250831120000-AB12", nil, 9, nil, "takeaway", "pending", "14.00", "0.00", 1))
	mock.ExpectQuery(`SELECT .* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	s := NewService(db, nil)
	_, err := s.AdvanceStatus(context.Background(), 1, "confirmed")
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestAdvanceStatusUpdateIsVersionGuarded(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT .* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(1, "ORD-20250831120000-AB12", nil, 9, nil, "takeaway", "pending", "14.00", "0.00", 3))
	mock.ExpectQuery(`SELECT .* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	// SET columns are ordered alphabetically: status, updated_at, version,
	// then the WHERE binds id and the version read above.
	mock.ExpectExec(`UPDATE "orders" SET`).
		WithArgs("confirmed", sqlmock.AnyArg(), int64(4), int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Reload after the successful update.
	mock.ExpectQuery(`SELECT .* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(1, "ORD-20250831120000-AB12", nil, 9, nil, "takeaway", "confirmed", "14.00", "0.00", 4))
	mock.ExpectQuery(`SELECT .* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := NewService(db, nil)
	updated, err := s.AdvanceStatus(context.Background(), 1, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)
	assert.Equal(t, int64(4), updated.Version)
}

func TestRecomputeTotalFromRemainingItems(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(1, "ORD-20250831120000-AB12", nil, 9, nil, "dine_in", "pending", "99.99", "1.00", 1))
	mock.ExpectQuery(`SELECT .* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity", "unit_price", "total_price"}).
			AddRow(10, 1, 5, 2, "3.50", "7.00").
			AddRow(11, 1, 6, 1, "8.00", "8.00"))

	mock.ExpectBegin()
	// 7.00 + 8.00 - 1.00 discount.
	mock.ExpectExec(`UPDATE "orders" SET`).
		WithArgs("14.00", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewService(db, nil)
	require.NoError(t, s.recomputeTotal(db, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
