package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements create the record tables when absent. Foreign keys
// restrict deletes of students and courses that still have enrollments.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS students (
        id BIGSERIAL PRIMARY KEY,
        nim VARCHAR(10) NOT NULL UNIQUE CHECK (char_length(nim) > 0),
        name VARCHAR(100) NOT NULL CHECK (char_length(name) > 0)
    )`,
	`CREATE TABLE IF NOT EXISTS courses (
        id BIGSERIAL PRIMARY KEY,
        code VARCHAR(10) NOT NULL UNIQUE CHECK (char_length(code) > 0),
        title VARCHAR(100) NOT NULL CHECK (char_length(title) > 0),
        credits INTEGER NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS enrollments (
        student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE RESTRICT,
        course_id BIGINT NOT NULL REFERENCES courses(id) ON DELETE RESTRICT,
        grade VARCHAR(2),
        enrollment_date TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (student_id, course_id)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments (course_id)`,
}

// EnsureSchema creates the students, courses and enrollments tables if they
// do not exist yet. It runs in a single transaction and is safe to repeat.
func EnsureSchema(ctx context.Context, db *sqlx.DB) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schemaStatements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
