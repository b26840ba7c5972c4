package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/krs-api/internal/models"
	appErrors "github.com/noah-isme/krs-api/pkg/errors"
)

const (
	studentListCacheKey     = "students:all"
	studentListCachePattern = "students:*"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByNIM(ctx context.Context, nim string) (*models.Student, error)
	FindFirstByName(ctx context.Context, name string) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	NIM  string `json:"nim" validate:"required,max=10"`
	Name string `json:"name" validate:"required,max=100"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. cache and metrics may be nil.
func NewStudentService(repo studentRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Create registers a new student. A duplicate NIM is rejected by the database
// and surfaces as a constraint violation.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := &models.Student{NIM: req.NIM, Name: req.Name}
	if err := s.repo.Create(ctx, student); err != nil {
		appErr := appErrors.FromDatabase(err, "failed to create student")
		s.metrics.ObserveWrite("student", "create", appErr)
		s.logger.Warn("create student failed", zap.String("nim", req.NIM), zap.String("code", appErr.Code), zap.Error(err))
		return nil, appErr
	}
	s.metrics.ObserveWrite("student", "create", nil)
	s.cache.Invalidate(ctx, studentListCachePattern)
	s.logger.Info("student created", zap.Int64("id", student.ID), zap.String("nim", student.NIM))
	return student, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "student not found")
	}
	return student, nil
}

// GetByNIM returns a student by NIM.
func (s *StudentService) GetByNIM(ctx context.Context, nim string) (*models.Student, error) {
	student, err := s.repo.FindByNIM(ctx, nim)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "student not found")
	}
	return student, nil
}

// FindByName returns the first student with the exact name. When several
// students share a name the one with the lowest id wins.
func (s *StudentService) FindByName(ctx context.Context, name string) (*models.Student, error) {
	student, err := s.repo.FindFirstByName(ctx, name)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "student not found")
	}
	return student, nil
}

// List returns all students in insertion order.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	var cached []models.Student
	if s.cache.Get(ctx, studentListCacheKey, &cached) {
		return cached, nil
	}
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to list students")
	}
	s.cache.Set(ctx, studentListCacheKey, students, 0)
	return students, nil
}

// Delete removes a student that has no enrollments left.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err == nil && !deleted {
		err = appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if err != nil {
		appErr := restrictedDelete(err, "student")
		s.metrics.ObserveWrite("student", "delete", appErr)
		return appErr
	}
	s.metrics.ObserveWrite("student", "delete", nil)
	s.cache.Invalidate(ctx, studentListCachePattern)
	return nil
}

// restrictedDelete turns a foreign key failure on delete into a constraint
// violation: the row exists but is still referenced by enrollments.
func restrictedDelete(err error, entity string) *appErrors.Error {
	appErr := appErrors.FromDatabase(err, "failed to delete "+entity)
	if appErrors.Is(appErr, appErrors.ErrReference) {
		return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, entity+" still has enrollments")
	}
	return appErr
}
