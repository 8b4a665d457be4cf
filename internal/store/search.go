package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Lookups are the four retrievals a searchable collection offers. Date and
// keyword are substring filters.
type Lookups[T any] struct {
	ByDateAndKeyword func(ctx context.Context, date, keyword string) ([]T, error)
	ByDate           func(ctx context.Context, date string) ([]T, error)
	ByKeyword        func(ctx context.Context, keyword string) ([]T, error)
	All              func(ctx context.Context) ([]T, error)
}

// Search picks the narrowest lookup the given filters allow. Blank filters
// count as absent.
func Search[T any](ctx context.Context, l Lookups[T], date, keyword string) ([]T, error) {
	date = strings.TrimSpace(date)
	keyword = strings.TrimSpace(keyword)

	switch {
	case date != "" && keyword != "":
		return l.ByDateAndKeyword(ctx, date, keyword)
	case date != "":
		return l.ByDate(ctx, date)
	case keyword != "":
		return l.ByKeyword(ctx, keyword)
	default:
		return l.All(ctx)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one collection is laid out and scanned.
type table[T any] struct {
	name    string
	columns string
	dateCol string
	textCol string
	scan    func(rowScanner) (T, error)
}

func (t table[T]) query(ctx context.Context, db *sql.DB, where string, args ...any) ([]T, error) {
	q := "SELECT " + t.columns + " FROM " + t.name
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY rowid"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", t.name, err)
	}
	return out, nil
}

func (t table[T]) lookups(db *sql.DB) Lookups[T] {
	byDate := "contains(" + t.dateCol + ", ?)"
	byText := "contains(" + t.textCol + ", ?)"

	return Lookups[T]{
		ByDateAndKeyword: func(ctx context.Context, date, keyword string) ([]T, error) {
			return t.query(ctx, db, byDate+" AND "+byText, date, keyword)
		},
		ByDate: func(ctx context.Context, date string) ([]T, error) {
			return t.query(ctx, db, byDate, date)
		},
		ByKeyword: func(ctx context.Context, keyword string) ([]T, error) {
			return t.query(ctx, db, byText, keyword)
		},
		All: func(ctx context.Context) ([]T, error) {
			return t.query(ctx, db, "")
		},
	}
}
