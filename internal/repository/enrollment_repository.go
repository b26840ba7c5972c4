package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/krs-api/internal/models"
)

const enrollmentDetailSelect = `SELECT e.student_id, e.course_id, e.grade, e.enrollment_date,
        s.nim AS student_nim, s.name AS student_name,
        c.code AS course_code, c.title AS course_title, c.credits AS course_credits
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id`

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new enrollment. A zero EnrollmentDate is replaced by the
// database clock at insert time and written back to the struct.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	var supplied *time.Time
	if !enrollment.EnrollmentDate.IsZero() {
		date := enrollment.EnrollmentDate
		supplied = &date
	}
	const query = `INSERT INTO enrollments (student_id, course_id, grade, enrollment_date)
        VALUES ($1, $2, $3, COALESCE($4, now())) RETURNING enrollment_date`
	row := r.db.QueryRowxContext(ctx, query, enrollment.StudentID, enrollment.CourseID, enrollment.Grade, supplied)
	if err := row.Scan(&enrollment.EnrollmentDate); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindDetail returns the enrollment together with its student and course.
func (r *EnrollmentRepository) FindDetail(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + ` WHERE e.student_id = $1 AND e.course_id = $2`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, studentID, courseID); err != nil {
		return nil, fmt.Errorf("find enrollment detail: %w", err)
	}
	return &detail, nil
}

// SetGrade updates only the grade column. It returns sql.ErrNoRows when the
// pair is not enrolled.
func (r *EnrollmentRepository) SetGrade(ctx context.Context, studentID, courseID int64, grade *string) error {
	const query = `UPDATE enrollments SET grade = $3 WHERE student_id = $1 AND course_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, courseID, grade)
	if err != nil {
		return fmt.Errorf("set grade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set grade rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set grade: %w", sql.ErrNoRows)
	}
	return nil
}

// ListByStudent returns a student's enrollments with resolved courses, oldest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + ` WHERE e.student_id = $1 ORDER BY e.enrollment_date ASC, e.course_id ASC`
	enrollments := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByCourse returns a course's enrollments with resolved students, oldest first.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + ` WHERE e.course_id = $1 ORDER BY e.enrollment_date ASC, e.student_id ASC`
	enrollments := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}
	return enrollments, nil
}

// Delete removes an enrollment. It reports false when no row matched.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, courseID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment rows: %w", err)
	}
	return affected > 0, nil
}
