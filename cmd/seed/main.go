package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/krs-api/internal/models"
	"github.com/noah-isme/krs-api/internal/repository"
	"github.com/noah-isme/krs-api/internal/service"
	"github.com/noah-isme/krs-api/pkg/config"
	"github.com/noah-isme/krs-api/pkg/database"
	"github.com/noah-isme/krs-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	code := exitCode(logr, run(cfg, logr))
	_ = logr.Sync()
	os.Exit(code)
}

// exitCode reports a seeding failure through the process logger.
func exitCode(logr *zap.Logger, err error) int {
	if err == nil {
		return 0
	}
	logr.Error("seed failed", zap.Error(err))
	return 1
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	validate := validator.New()
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	s := seeder{
		students:    service.NewStudentService(studentRepo, nil, nil, validate, logr),
		courses:     service.NewCourseService(courseRepo, nil, validate, logr),
		enrollments: service.NewEnrollmentService(repository.NewEnrollmentRepository(db), studentRepo, courseRepo, nil, validate, logr),
	}
	return s.run(ctx, os.Stdout)
}

type seeder struct {
	students    *service.StudentService
	courses     *service.CourseService
	enrollments *service.EnrollmentService
}

func (s seeder) run(ctx context.Context, out io.Writer) error {
	budi, err := s.students.Create(ctx, service.CreateStudentRequest{NIM: "1901001", Name: "Budi Santoso"})
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	courses := []service.CreateCourseRequest{
		{Code: "CS101", Title: "Pemrograman Dasar", Credits: intPtr(3)},
		{Code: "MA205", Title: "Kalkulus I", Credits: intPtr(4)},
	}
	grades := []string{"A", "B+"}

	for i, req := range courses {
		course, err := s.courses.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("create course %s: %w", req.Code, err)
		}
		grade := grades[i]
		if _, err := s.enrollments.Enroll(ctx, service.EnrollStudentRequest{
			StudentID: budi.ID,
			CourseID:  course.ID,
			Grade:     &grade,
		}); err != nil {
			return fmt.Errorf("enroll %s: %w", req.Code, err)
		}
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "--- Data Mahasiswa ---")
	for _, st := range students {
		fmt.Fprintf(out, "%d\t%s\t%s\n", st.ID, st.NIM, st.Name)
	}

	found, err := s.students.FindByName(ctx, "Budi Santoso")
	if err != nil {
		return err
	}
	items, err := s.enrollments.ForStudent(ctx, found.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n--- Nilai %s ---\n", found.Name)
	for _, item := range items {
		fmt.Fprintln(out, describe(item))
	}
	return nil
}

func describe(item models.EnrollmentDetail) string {
	grade := item.GradeValue()
	if grade == "" {
		grade = "-"
	}
	return fmt.Sprintf("Mata Kuliah: %s (%s), Nilai: %s", item.CourseTitle, item.CourseCode, grade)
}

func intPtr(v int) *int { return &v }
