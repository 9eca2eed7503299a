package tables

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

// The list view loads occupancy for every table with a single grouped
// query, not one count per table.
func TestListCountsActiveOrdersInOneQuery(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "tables"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "table_number", "location_id", "capacity", "status", "is_active"}).
			AddRow(1, "T1", 1, 4, "available", true).
			AddRow(2, "T2", 1, 2, "occupied", true).
			AddRow(3, "T3", 1, 6, "available", true))
	mock.ExpectQuery(`SELECT table_id, COUNT\(\*\) AS count FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"table_id", "count"}).
			AddRow(2, 3))

	s := NewService(db)
	views, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.False(t, views[0].HasActiveOrders)
	assert.Zero(t, views[0].ActiveOrdersCount)

	assert.True(t, views[1].HasActiveOrders)
	assert.Equal(t, int64(3), views[1].ActiveOrdersCount)

	assert.False(t, views[2].HasActiveOrders)

	// Any further per-table count would be an unexpected query.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNoTablesSkipsCountQuery(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "tables"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "table_number"}))

	s := NewService(db)
	views, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}
