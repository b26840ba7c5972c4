package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/krs-api/internal/models"
	appErrors "github.com/noah-isme/krs-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateCourseRequest holds payload for creating courses. Credits is a
// pointer so a missing value can be told apart from zero.
type CreateCourseRequest struct {
	Code    string `json:"code" validate:"required,max=10"`
	Title   string `json:"title" validate:"required,max=100"`
	Credits *int   `json:"credits" validate:"required"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course := &models.Course{Code: req.Code, Title: req.Title, Credits: *req.Credits}
	if err := s.repo.Create(ctx, course); err != nil {
		appErr := appErrors.FromDatabase(err, "failed to create course")
		s.metrics.ObserveWrite("course", "create", appErr)
		s.logger.Warn("create course failed", zap.String("code", req.Code), zap.String("error_code", appErr.Code), zap.Error(err))
		return nil, appErr
	}
	s.metrics.ObserveWrite("course", "create", nil)
	s.logger.Info("course created", zap.Int64("id", course.ID), zap.String("code", course.Code))
	return course, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "course not found")
	}
	return course, nil
}

// GetByCode returns a course by code.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "course not found")
	}
	return course, nil
}

// List returns all courses in insertion order.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to list courses")
	}
	return courses, nil
}

// Delete removes a course that has no enrollments left.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err == nil && !deleted {
		err = appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if err != nil {
		appErr := restrictedDelete(err, "course")
		s.metrics.ObserveWrite("course", "delete", appErr)
		return appErr
	}
	s.metrics.ObserveWrite("course", "delete", nil)
	return nil
}
