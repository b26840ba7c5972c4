package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/krs-api/internal/models"
	"github.com/noah-isme/krs-api/internal/service"
	"github.com/noah-isme/krs-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseEnrollmentLister interface {
	ForCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error)
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses     courseService
	enrollments courseEnrollmentLister
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService, enrollments courseEnrollmentLister) *CourseHandler {
	return &CourseHandler{courses: courses, enrollments: enrollments}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: 1, PageSize: len(courses), TotalCount: len(courses)}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// GetByCode godoc
// @Summary Get course by code
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/code/{code} [get]
func (h *CourseHandler) GetByCode(c *gin.Context) {
	course, err := h.courses.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Delete godoc
// @Summary Delete course without enrollments
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enrollments godoc
// @Summary List a course's enrollments with resolved students
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/enrollments [get]
func (h *CourseHandler) Enrollments(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.enrollments.ForCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
