package models

import "time"

// Enrollment links a student to a course. The (StudentID, CourseID) pair is
// the identity; Grade stays nil until assigned.
type Enrollment struct {
	StudentID      int64     `db:"student_id" json:"student_id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	Grade          *string   `db:"grade" json:"grade"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}

// EnrollmentDetail enriches Enrollment with the referenced student and course.
type EnrollmentDetail struct {
	Enrollment
	StudentNIM    string `db:"student_nim" json:"student_nim"`
	StudentName   string `db:"student_name" json:"student_name"`
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseTitle   string `db:"course_title" json:"course_title"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
}

// GradeValue returns the grade or an empty string when unassigned.
func (e Enrollment) GradeValue() string {
	if e.Grade == nil {
		return ""
	}
	return *e.Grade
}
