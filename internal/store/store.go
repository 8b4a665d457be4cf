// Package store reads scraped cafeteria menus, notices and academic
// schedules from DuckDB.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

// ErrUnknownIntent is returned when an intent has no backing table.
var ErrUnknownIntent = errors.New("no table for intent")

// ErrNotFound is returned when an update matches no row.
var ErrNotFound = errors.New("record not found")

// Store wraps DuckDB operations.
type Store struct {
	db *sql.DB
}

// NewStore opens the DuckDB database at dbPath and ensures the schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS student_meals (
			id VARCHAR PRIMARY KEY,
			meal_date VARCHAR,
			meal_time VARCHAR,
			menu TEXT
		);

		CREATE TABLE IF NOT EXISTS faculty_meals (
			id VARCHAR PRIMARY KEY,
			meal_date VARCHAR,
			meal_time VARCHAR,
			menu TEXT
		);

		CREATE TABLE IF NOT EXISTS dorm_meals (
			id VARCHAR PRIMARY KEY,
			meal_date VARCHAR,
			meal_time VARCHAR,
			menu TEXT,
			formatted_menu TEXT
		);

		CREATE TABLE IF NOT EXISTS academic_notices (
			id VARCHAR PRIMARY KEY,
			title VARCHAR,
			notice_date VARCHAR,
			author VARCHAR,
			link TEXT
		);

		CREATE TABLE IF NOT EXISTS scholarship_notices (
			id VARCHAR PRIMARY KEY,
			title VARCHAR,
			notice_date VARCHAR,
			author VARCHAR,
			link TEXT
		);

		CREATE TABLE IF NOT EXISTS campus_notices (
			id VARCHAR PRIMARY KEY,
			title VARCHAR,
			notice_date VARCHAR,
			author VARCHAR,
			link TEXT
		);

		CREATE TABLE IF NOT EXISTS academic_schedule (
			id VARCHAR PRIMARY KEY,
			date VARCHAR,
			content TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_student_meals_date ON student_meals (meal_date);
		CREATE INDEX IF NOT EXISTS idx_faculty_meals_date ON faculty_meals (meal_date);
		CREATE INDEX IF NOT EXISTS idx_dorm_meals_date ON dorm_meals (meal_date);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
