package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/krs-api/internal/models"
	appErrors "github.com/noah-isme/krs-api/pkg/errors"
	"github.com/noah-isme/krs-api/pkg/export"
)

type transcriptEnrollments interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
}

// Renderer turns a dataset into a document.
type Renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// Document is a rendered transcript ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// TranscriptService assembles a student's enrollments into a transcript and
// renders it in the supported formats.
type TranscriptService struct {
	students    studentReader
	enrollments transcriptEnrollments
	renderers   map[models.ExportFormat]Renderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewTranscriptService constructs the transcript service.
func NewTranscriptService(students studentReader, enrollments transcriptEnrollments, csv, pdf Renderer, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	renderers := map[models.ExportFormat]Renderer{}
	if csv != nil {
		renderers[models.ExportFormatCSV] = csv
	}
	if pdf != nil {
		renderers[models.ExportFormatPDF] = pdf
	}
	return &TranscriptService{students: students, enrollments: enrollments, renderers: renderers, logger: logger, now: time.Now}
}

// Build returns the student's transcript. Credits are summed over every
// enrollment regardless of grade.
func (s *TranscriptService) Build(ctx context.Context, studentID int64) (*models.Transcript, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "student not found")
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "failed to list student enrollments")
	}
	total := 0
	for _, e := range enrollments {
		total += e.CourseCredits
	}
	return &models.Transcript{
		Student:      *student,
		Enrollments:  enrollments,
		TotalCredits: total,
		GeneratedAt:  s.now().UTC(),
	}, nil
}

// Export renders the transcript in the requested format.
func (s *TranscriptService) Export(ctx context.Context, studentID int64, format models.ExportFormat) (*Document, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported transcript format %q", format))
	}
	transcript, err := s.Build(ctx, studentID)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(transcriptDataset(transcript))
	if err != nil {
		s.logger.Error("render transcript failed", zap.Int64("student_id", studentID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}
	return &Document{
		Filename:    fmt.Sprintf("transcript-%s.%s", transcript.Student.NIM, format),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func transcriptDataset(t *models.Transcript) export.Dataset {
	rows := make([][]string, 0, len(t.Enrollments))
	for _, e := range t.Enrollments {
		rows = append(rows, []string{
			e.CourseCode,
			e.CourseTitle,
			strconv.Itoa(e.CourseCredits),
			e.GradeValue(),
			e.EnrollmentDate.UTC().Format("2006-01-02"),
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Transcript %s - %s", t.Student.NIM, t.Student.Name),
		Headers: []string{"Code", "Title", "Credits", "Grade", "Enrolled"},
		Rows:    rows,
		Footer:  []string{"", "Total credits", strconv.Itoa(t.TotalCredits)},
	}
}
