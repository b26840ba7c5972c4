package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/krs-api/internal/models"
	appErrors "github.com/noah-isme/krs-api/pkg/errors"
)

func TestCourseHandlerCreate(t *testing.T) {
	s := newTestServer()
	s.courses.course = &models.Course{ID: 1, Code: "CS101", Title: "Pemrograman Dasar", Credits: 3}

	w := perform(s.router, http.MethodPost, "/api/v1/courses", `{"code":"CS101","title":"Pemrograman Dasar","credits":3}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, s.courses.created.Credits)
	assert.Equal(t, 3, *s.courses.created.Credits)
	assert.Equal(t, "CS101", s.courses.created.Code)
}

func TestCourseHandlerCreateWrongType(t *testing.T) {
	s := newTestServer()
	w := perform(s.router, http.MethodPost, "/api/v1/courses", `{"code":"CS101","title":"x","credits":"three"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.courses.created.Code)
}

func TestCourseHandlerListAndLookup(t *testing.T) {
	s := newTestServer()
	s.courses.courses = []models.Course{{ID: 1, Code: "CS101"}, {ID: 2, Code: "MA205"}}
	s.courses.course = &models.Course{ID: 2, Code: "MA205"}

	w := perform(s.router, http.MethodGet, "/api/v1/courses", "")
	require.Equal(t, http.StatusOK, w.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &courses))
	assert.Len(t, courses, 2)

	w = perform(s.router, http.MethodGet, "/api/v1/courses/code/MA205", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MA205", s.courses.lastCode)

	w = perform(s.router, http.MethodGet, "/api/v1/courses/2", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCourseHandlerMissing(t *testing.T) {
	s := newTestServer()
	s.courses.err = appErrors.Clone(appErrors.ErrNotFound, "course not found")
	w := perform(s.router, http.MethodGet, "/api/v1/courses/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decode(t, w).Error.Code)
}

func TestCourseHandlerDeleteAndRoster(t *testing.T) {
	s := newTestServer()
	w := perform(s.router, http.MethodDelete, "/api/v1/courses/4", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(4), s.courses.deleted)

	s.enrollments.details = []models.EnrollmentDetail{{StudentNIM: "1901001"}}
	w = perform(s.router, http.MethodGet, "/api/v1/courses/4/enrollments", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), s.enrollments.forCourse)
}
