package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/krs-api/internal/models"
	"github.com/noah-isme/krs-api/internal/service"
	"github.com/noah-isme/krs-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, req service.EnrollStudentRequest) (*models.EnrollmentDetail, error)
	SetGrade(ctx context.Context, studentID, courseID int64, req service.SetGradeRequest) (*models.EnrollmentDetail, error)
	Get(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error)
	Unenroll(ctx context.Context, studentID, courseID int64) error
}

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

func pairParams(c *gin.Context) (int64, int64, error) {
	studentID, err := idParam(c, "studentId")
	if err != nil {
		return 0, 0, err
	}
	courseID, err := idParam(c, "courseId")
	if err != nil {
		return 0, 0, err
	}
	return studentID, courseID, nil
}

// Enroll godoc
// @Summary Enroll a student in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollStudentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	detail, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Get godoc
// @Summary Get enrollment
// @Tags Enrollments
// @Produce json
// @Param studentId path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{studentId}/{courseId} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	studentID, courseID, err := pairParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.enrollments.Get(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// SetGrade godoc
// @Summary Set or clear the grade of an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param studentId path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Param payload body service.SetGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{studentId}/{courseId}/grade [put]
func (h *EnrollmentHandler) SetGrade(c *gin.Context) {
	studentID, courseID, err := pairParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SetGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	detail, err := h.enrollments.SetGrade(c.Request.Context(), studentID, courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Remove an enrollment
// @Tags Enrollments
// @Param studentId path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 204
// @Router /enrollments/{studentId}/{courseId} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	studentID, courseID, err := pairParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.enrollments.Unenroll(c.Request.Context(), studentID, courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
