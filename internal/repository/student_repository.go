package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/krs-api/internal/models"
)

const studentColumns = "id, nim, name"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student and fills in the assigned id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (nim, name) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, student.NIM, student.Name).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// FindByNIM fetches a student by NIM.
func (r *StudentRepository) FindByNIM(ctx context.Context, nim string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE nim = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, nim); err != nil {
		return nil, fmt.Errorf("find student by nim: %w", err)
	}
	return &student, nil
}

// FindFirstByName returns the student with the lowest id carrying name.
func (r *StudentRepository) FindFirstByName(ctx context.Context, name string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE name = $1 ORDER BY id ASC LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, name); err != nil {
		return nil, fmt.Errorf("find student by name: %w", err)
	}
	return &student, nil
}

// List returns every student in insertion order.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students ORDER BY id ASC`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Delete removes a student. It reports false when no row matched.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete student rows: %w", err)
	}
	return affected > 0, nil
}
