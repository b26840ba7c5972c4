package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/krs-api/internal/models"
	appErrors "github.com/noah-isme/krs-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindDetail(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error)
	SetGrade(ctx context.Context, studentID, courseID int64, grade *string) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error)
	Delete(ctx context.Context, studentID, courseID int64) (bool, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// EnrollStudentRequest describes enrollment creation. Grade and
// EnrollmentDate are optional; the date defaults to the insert time. Ids are
// checked by the foreign keys, so an unknown or zero id is a reference error.
type EnrollStudentRequest struct {
	StudentID      int64      `json:"student_id"`
	CourseID       int64      `json:"course_id"`
	Grade          *string    `json:"grade" validate:"omitempty,max=2"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
}

// SetGradeRequest assigns, changes or (with a nil grade) clears a grade.
type SetGradeRequest struct {
	Grade *string `json:"grade" validate:"omitempty,max=2"`
}

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  studentReader
	courses   courseReader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, courses courseReader, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, courses: courses, metrics: metrics, validator: validate, logger: logger}
}

// Enroll links a student to a course. Referential integrity and the one
// enrollment per pair rule are enforced by the database on insert.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollStudentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	enrollment := &models.Enrollment{StudentID: req.StudentID, CourseID: req.CourseID, Grade: req.Grade}
	if req.EnrollmentDate != nil {
		enrollment.EnrollmentDate = req.EnrollmentDate.UTC()
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		appErr := appErrors.FromDatabase(err, "failed to enroll student")
		s.metrics.ObserveWrite("enrollment", "create", appErr)
		s.logger.Warn("enroll failed",
			zap.Int64("student_id", req.StudentID),
			zap.Int64("course_id", req.CourseID),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		return nil, appErr
	}
	s.metrics.ObserveWrite("enrollment", "create", nil)
	detail, err := s.repo.FindDetail(ctx, enrollment.StudentID, enrollment.CourseID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to load enrollment detail")
	}
	return detail, nil
}

// SetGrade updates the grade of an existing enrollment; the enrollment date
// is left untouched.
func (s *EnrollmentService) SetGrade(ctx context.Context, studentID, courseID int64, req SetGradeRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid grade")
	}
	if err := s.repo.SetGrade(ctx, studentID, courseID, req.Grade); err != nil {
		appErr := appErrors.FromDatabase(err, "failed to set grade")
		if appErrors.Is(appErr, appErrors.ErrNotFound) {
			appErr = appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "enrollment not found")
		}
		s.metrics.ObserveWrite("enrollment", "set_grade", appErr)
		return nil, appErr
	}
	s.metrics.ObserveWrite("enrollment", "set_grade", nil)
	detail, err := s.repo.FindDetail(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to load enrollment detail")
	}
	return detail, nil
}

// Get returns one enrollment with its student and course resolved.
func (s *EnrollmentService) Get(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetail(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "enrollment not found")
	}
	return detail, nil
}

// ForStudent lists the student's enrollments, each resolved to its course.
func (s *EnrollmentService) ForStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, appErrors.FromDatabase(err, "student not found")
	}
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to list student enrollments")
	}
	return enrollments, nil
}

// ForCourse lists the course's enrollments, each resolved to its student.
func (s *EnrollmentService) ForCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, appErrors.FromDatabase(err, "course not found")
	}
	enrollments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to list course enrollments")
	}
	return enrollments, nil
}

// StudentOf follows the enrollment's student reference.
func (s *EnrollmentService) StudentOf(ctx context.Context, enrollment models.Enrollment) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, enrollment.StudentID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "student not found")
	}
	return student, nil
}

// CourseOf follows the enrollment's course reference.
func (s *EnrollmentService) CourseOf(ctx context.Context, enrollment models.Enrollment) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "course not found")
	}
	return course, nil
}

// Unenroll deletes the enrollment for the pair.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID int64) error {
	deleted, err := s.repo.Delete(ctx, studentID, courseID)
	if err == nil && !deleted {
		err = appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if err != nil {
		appErr := appErrors.FromDatabase(err, "failed to unenroll student")
		s.metrics.ObserveWrite("enrollment", "delete", appErr)
		return appErr
	}
	s.metrics.ObserveWrite("enrollment", "delete", nil)
	return nil
}
