package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/krs-api/internal/models"
	"github.com/noah-isme/krs-api/internal/service"
	"github.com/noah-isme/krs-api/pkg/response"
)

type studentService interface {
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetByNIM(ctx context.Context, nim string) (*models.Student, error)
	FindByName(ctx context.Context, name string) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type studentEnrollmentLister interface {
	ForStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
}

type transcriptExporter interface {
	Build(ctx context.Context, studentID int64) (*models.Transcript, error)
	Export(ctx context.Context, studentID int64, format models.ExportFormat) (*service.Document, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students    studentService
	enrollments studentEnrollmentLister
	transcripts transcriptExporter
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, enrollments studentEnrollmentLister, transcripts transcriptExporter) *StudentHandler {
	return &StudentHandler{students: students, enrollments: enrollments, transcripts: transcripts}
}

// List godoc
// @Summary List students, or find the first student with an exact name
// @Tags Students
// @Produce json
// @Param name query string false "Exact name; returns the lowest-id match"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	if name, ok := c.GetQuery("name"); ok {
		student, err := h.students.FindByName(c.Request.Context(), name)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, student, nil)
		return
	}
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: 1, PageSize: len(students), TotalCount: len(students)}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// GetByNIM godoc
// @Summary Get student by NIM
// @Tags Students
// @Produce json
// @Param nim path string true "Student NIM"
// @Success 200 {object} response.Envelope
// @Router /students/nim/{nim} [get]
func (h *StudentHandler) GetByNIM(c *gin.Context) {
	student, err := h.students.GetByNIM(c.Request.Context(), c.Param("nim"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Delete godoc
// @Summary Delete student without enrollments
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enrollments godoc
// @Summary List a student's enrollments with resolved courses
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *StudentHandler) Enrollments(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.enrollments.ForStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Transcript godoc
// @Summary Student transcript as JSON, CSV or PDF
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Param format query string false "csv or pdf; JSON when omitted"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *StudentHandler) Transcript(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := strings.ToLower(c.Query("format"))
	if format == "" || format == "json" {
		transcript, err := h.transcripts.Build(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, transcript, nil)
		return
	}
	doc, err := h.transcripts.Export(c.Request.Context(), id, models.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Body)
}
