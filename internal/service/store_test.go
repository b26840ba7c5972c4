package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/noah-isme/krs-api/internal/models"
)

// memoryStore mimics the relational rules of the schema and fails with the
// same SQLSTATE codes Postgres would use.
type memoryStore struct {
	nextStudentID int64
	nextCourseID  int64
	students      map[int64]models.Student
	courses       map[int64]models.Course
	enrollments   map[[2]int64]models.Enrollment
	clock         func() time.Time
	listCalls     int
	failWith      error
}

func newMemoryStore() *memoryStore {
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	return &memoryStore{
		students:    map[int64]models.Student{},
		courses:     map[int64]models.Course{},
		enrollments: map[[2]int64]models.Enrollment{},
		clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		},
	}
}

func pqErr(code, constraint string) error {
	return &pq.Error{Code: pq.ErrorCode(code), Constraint: constraint}
}

type memoryStudents struct{ *memoryStore }

func (m memoryStudents) Create(ctx context.Context, student *models.Student) error {
	if m.failWith != nil {
		return m.failWith
	}
	if student.NIM == "" || student.Name == "" {
		return fmt.Errorf("create student: %w", pqErr("23514", "students_check"))
	}
	if utf8.RuneCountInString(student.NIM) > 10 || utf8.RuneCountInString(student.Name) > 100 {
		return fmt.Errorf("create student: %w", pqErr("22001", ""))
	}
	for _, s := range m.students {
		if s.NIM == student.NIM {
			return fmt.Errorf("create student: %w", pqErr("23505", "students_nim_key"))
		}
	}
	m.nextStudentID++
	student.ID = m.nextStudentID
	m.students[student.ID] = *student
	return nil
}

func (m memoryStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, fmt.Errorf("find student: %w", sql.ErrNoRows)
	}
	return &s, nil
}

func (m memoryStudents) FindByNIM(ctx context.Context, nim string) (*models.Student, error) {
	for _, s := range m.sortedStudents() {
		if s.NIM == nim {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("find student by nim: %w", sql.ErrNoRows)
}

func (m memoryStudents) FindFirstByName(ctx context.Context, name string) (*models.Student, error) {
	for _, s := range m.sortedStudents() {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("find student by name: %w", sql.ErrNoRows)
}

func (m memoryStudents) List(ctx context.Context) ([]models.Student, error) {
	m.listCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.sortedStudents(), nil
}

func (m memoryStudents) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.students[id]; !ok {
		return false, nil
	}
	for key := range m.enrollments {
		if key[0] == id {
			return false, fmt.Errorf("delete student: %w", pqErr("23503", "enrollments_student_id_fkey"))
		}
	}
	delete(m.students, id)
	return true, nil
}

func (m *memoryStore) sortedStudents() []models.Student {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memoryCourses struct{ *memoryStore }

func (m memoryCourses) Create(ctx context.Context, course *models.Course) error {
	if course.Code == "" || course.Title == "" {
		return fmt.Errorf("create course: %w", pqErr("23514", "courses_check"))
	}
	for _, c := range m.courses {
		if c.Code == course.Code {
			return fmt.Errorf("create course: %w", pqErr("23505", "courses_code_key"))
		}
	}
	m.nextCourseID++
	course.ID = m.nextCourseID
	m.courses[course.ID] = *course
	return nil
}

func (m memoryCourses) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, fmt.Errorf("find course: %w", sql.ErrNoRows)
	}
	return &c, nil
}

func (m memoryCourses) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("find course by code: %w", sql.ErrNoRows)
}

func (m memoryCourses) List(ctx context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memoryCourses) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.courses[id]; !ok {
		return false, nil
	}
	for key := range m.enrollments {
		if key[1] == id {
			return false, fmt.Errorf("delete course: %w", pqErr("23503", "enrollments_course_id_fkey"))
		}
	}
	delete(m.courses, id)
	return true, nil
}

type memoryEnrollments struct{ *memoryStore }

func (m memoryEnrollments) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if _, ok := m.students[enrollment.StudentID]; !ok {
		return fmt.Errorf("create enrollment: %w", pqErr("23503", "enrollments_student_id_fkey"))
	}
	if _, ok := m.courses[enrollment.CourseID]; !ok {
		return fmt.Errorf("create enrollment: %w", pqErr("23503", "enrollments_course_id_fkey"))
	}
	key := [2]int64{enrollment.StudentID, enrollment.CourseID}
	if _, ok := m.enrollments[key]; ok {
		return fmt.Errorf("create enrollment: %w", pqErr("23505", "enrollments_pkey"))
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = m.clock()
	}
	m.enrollments[key] = *enrollment
	return nil
}

func (m memoryEnrollments) FindDetail(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error) {
	e, ok := m.enrollments[[2]int64{studentID, courseID}]
	if !ok {
		return nil, fmt.Errorf("find enrollment detail: %w", sql.ErrNoRows)
	}
	detail := m.detail(e)
	return &detail, nil
}

func (m memoryEnrollments) SetGrade(ctx context.Context, studentID, courseID int64, grade *string) error {
	if m.failWith != nil {
		return m.failWith
	}
	key := [2]int64{studentID, courseID}
	e, ok := m.enrollments[key]
	if !ok {
		return fmt.Errorf("set grade: %w", sql.ErrNoRows)
	}
	e.Grade = grade
	m.enrollments[key] = e
	return nil
}

func (m memoryEnrollments) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	out := []models.EnrollmentDetail{}
	for key, e := range m.enrollments {
		if key[0] == studentID {
			out = append(out, m.detail(e))
		}
	}
	sortDetails(out, func(d models.EnrollmentDetail) int64 { return d.CourseID })
	return out, nil
}

func (m memoryEnrollments) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	out := []models.EnrollmentDetail{}
	for key, e := range m.enrollments {
		if key[1] == courseID {
			out = append(out, m.detail(e))
		}
	}
	sortDetails(out, func(d models.EnrollmentDetail) int64 { return d.StudentID })
	return out, nil
}

func (m memoryEnrollments) Delete(ctx context.Context, studentID, courseID int64) (bool, error) {
	key := [2]int64{studentID, courseID}
	if _, ok := m.enrollments[key]; !ok {
		return false, nil
	}
	delete(m.enrollments, key)
	return true, nil
}

func (m *memoryStore) detail(e models.Enrollment) models.EnrollmentDetail {
	s := m.students[e.StudentID]
	c := m.courses[e.CourseID]
	return models.EnrollmentDetail{
		Enrollment:    e,
		StudentNIM:    s.NIM,
		StudentName:   s.Name,
		CourseCode:    c.Code,
		CourseTitle:   c.Title,
		CourseCredits: c.Credits,
	}
}

func sortDetails(items []models.EnrollmentDetail, tiebreak func(models.EnrollmentDetail) int64) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EnrollmentDate.Equal(items[j].EnrollmentDate) {
			return items[i].EnrollmentDate.Before(items[j].EnrollmentDate)
		}
		return tiebreak(items[i]) < tiebreak(items[j])
	})
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
