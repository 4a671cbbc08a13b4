package repository

import (
	"testing"
	"time"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=primake dbname=primake sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func saleSQL(db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var sales []entity.Sale
		return tx.Model(&entity.Sale{}).Scopes(scopes...).Find(&sales)
	})
}

func TestDateRangeScope(t *testing.T) {
	db := dryRunDB(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	t.Run("upper bound is exclusive", func(t *testing.T) {
		sql := saleSQL(db, DateRangeScope("date", &from, &to))
		assert.Contains(t, sql, "date >= ")
		assert.Contains(t, sql, "date < ")
		assert.NotContains(t, sql, "date <= ")
	})

	t.Run("nil bounds are open", func(t *testing.T) {
		sql := saleSQL(db, DateRangeScope("date", nil, nil))
		assert.NotContains(t, sql, "date >")
		assert.NotContains(t, sql, "date <")
	})
}

func TestSearchScope(t *testing.T) {
	db := dryRunDB(t)

	sql := saleSQL(db, SearchScope(" joana ", "id", "customer_name"))
	assert.Contains(t, sql, "id ILIKE '%joana%' OR customer_name ILIKE '%joana%'")

	assert.NotContains(t, saleSQL(db, SearchScope("   ", "id")), "ILIKE")
}

func TestCursorScope(t *testing.T) {
	db := dryRunDB(t)
	cursor := &pagination.Cursor{ID: "TRX-482913", CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	assert.Contains(t, saleSQL(db, CursorScope(cursor, pagination.CursorDirectionNext)), "(created_at, id) > (")
	assert.Contains(t, saleSQL(db, CursorScope(cursor, pagination.CursorDirectionPrev)), "(created_at, id) < (")
	assert.NotContains(t, saleSQL(db, CursorScope(nil, pagination.CursorDirectionNext)), "created_at, id")
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "total ASC", orderClause("total", "ASC", "date", "date", "total"))
	assert.Equal(t, "date DESC", orderClause("password; drop table sales", "asc;", "date", "date", "total"))
}
