package models

import "time"

// Transcript lists a student's enrollments with the resolved courses.
type Transcript struct {
	Student      Student            `json:"student"`
	Enrollments  []EnrollmentDetail `json:"enrollments"`
	TotalCredits int                `json:"total_credits"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// ExportFormat is a transcript rendering target.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)
