package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/krs-api/internal/models"
)

const courseColumns = "id, code, title, credits"

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course and fills in the assigned id.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (code, title, credits) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, course.Code, course.Title, course.Credits).Scan(&course.ID); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// FindByCode fetches a course by its code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE code = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	return &course, nil
}

// List returns all courses in insertion order.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses ORDER BY id ASC`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Delete removes a course. It reports false when no row matched.
func (r *CourseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete course rows: %w", err)
	}
	return affected > 0, nil
}
