package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/krs-api/internal/models"
	"github.com/noah-isme/krs-api/internal/service"
)

type envelope struct {
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type studentServiceMock struct {
	created    service.CreateStudentRequest
	student    *models.Student
	students   []models.Student
	err        error
	lastID     int64
	lastNIM    string
	lastName   string
	listCalled bool
	deleted    int64
}

func (m *studentServiceMock) Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error) {
	m.created = req
	return m.student, m.err
}

func (m *studentServiceMock) Get(ctx context.Context, id int64) (*models.Student, error) {
	m.lastID = id
	return m.student, m.err
}

func (m *studentServiceMock) GetByNIM(ctx context.Context, nim string) (*models.Student, error) {
	m.lastNIM = nim
	return m.student, m.err
}

func (m *studentServiceMock) FindByName(ctx context.Context, name string) (*models.Student, error) {
	m.lastName = name
	return m.student, m.err
}

func (m *studentServiceMock) List(ctx context.Context) ([]models.Student, error) {
	m.listCalled = true
	return m.students, m.err
}

func (m *studentServiceMock) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return m.err
}

type courseServiceMock struct {
	created  service.CreateCourseRequest
	course   *models.Course
	courses  []models.Course
	err      error
	lastCode string
	deleted  int64
}

func (m *courseServiceMock) Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	m.created = req
	return m.course, m.err
}

func (m *courseServiceMock) Get(ctx context.Context, id int64) (*models.Course, error) {
	return m.course, m.err
}

func (m *courseServiceMock) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	m.lastCode = code
	return m.course, m.err
}

func (m *courseServiceMock) List(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.err
}

func (m *courseServiceMock) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return m.err
}

type enrollmentServiceMock struct {
	detail     *models.EnrollmentDetail
	details    []models.EnrollmentDetail
	err        error
	enrolled   service.EnrollStudentRequest
	grade      service.SetGradeRequest
	pair       [2]int64
	forStudent int64
	forCourse  int64
	unenrolled bool
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, req service.EnrollStudentRequest) (*models.EnrollmentDetail, error) {
	m.enrolled = req
	return m.detail, m.err
}

func (m *enrollmentServiceMock) SetGrade(ctx context.Context, studentID, courseID int64, req service.SetGradeRequest) (*models.EnrollmentDetail, error) {
	m.pair = [2]int64{studentID, courseID}
	m.grade = req
	return m.detail, m.err
}

func (m *enrollmentServiceMock) Get(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error) {
	m.pair = [2]int64{studentID, courseID}
	return m.detail, m.err
}

func (m *enrollmentServiceMock) Unenroll(ctx context.Context, studentID, courseID int64) error {
	m.pair = [2]int64{studentID, courseID}
	m.unenrolled = true
	return m.err
}

func (m *enrollmentServiceMock) ForStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	m.forStudent = studentID
	return m.details, m.err
}

func (m *enrollmentServiceMock) ForCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	m.forCourse = courseID
	return m.details, m.err
}

type transcriptMock struct {
	transcript *models.Transcript
	doc        *service.Document
	format     models.ExportFormat
	err        error
}

func (m *transcriptMock) Build(ctx context.Context, studentID int64) (*models.Transcript, error) {
	return m.transcript, m.err
}

func (m *transcriptMock) Export(ctx context.Context, studentID int64, format models.ExportFormat) (*service.Document, error) {
	m.format = format
	return m.doc, m.err
}

type testServer struct {
	router      *gin.Engine
	students    *studentServiceMock
	courses     *courseServiceMock
	enrollments *enrollmentServiceMock
	transcripts *transcriptMock
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		router:      gin.New(),
		students:    &studentServiceMock{},
		courses:     &courseServiceMock{},
		enrollments: &enrollmentServiceMock{},
		transcripts: &transcriptMock{},
	}
	Register(s.router, "/api/v1", Handlers{
		Metrics:     NewMetricsHandler(service.NewMetricsService(), nil),
		Students:    NewStudentHandler(s.students, s.enrollments, s.transcripts),
		Courses:     NewCourseHandler(s.courses, s.enrollments),
		Enrollments: NewEnrollmentHandler(s.enrollments),
	})
	return s
}
