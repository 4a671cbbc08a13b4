package repository

import (
	"strings"
	"time"

	"github.com/primake/primake-api/pkg/pagination"
	"gorm.io/gorm"
)

// SearchScope returns a GORM scope that matches term with ILIKE on any of the columns
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + term + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			clauses = append(clauses, c+" ILIKE ?")
			args = append(args, like)
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// DateRangeScope restricts column to [from, to). Nil bounds are open.
func DateRangeScope(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" < ?", *to)
		}
		return db
	}
}

// ActiveScope keeps active rows, or only inactive ones when inactive is true
func ActiveScope(inactive bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", !inactive)
	}
}

// CursorScope applies keyset pagination on (created_at, id)
func CursorScope(cursor *pagination.Cursor, direction pagination.CursorDirection) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == nil {
			return db
		}
		if direction == pagination.CursorDirectionNext {
			return db.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		}
		return db.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
}

// orderClause builds a safe ORDER BY from user input. Unknown columns fall
// back to the default.
func orderClause(sortBy, sortOrder, fallback string, allowed ...string) string {
	column := fallback
	for _, a := range allowed {
		if a == sortBy {
			column = a
			break
		}
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return column + " " + order
}
