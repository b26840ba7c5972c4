package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything Register mounts.
type Handlers struct {
	Metrics     *MetricsHandler
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
}

// Register mounts probes and metrics at the root and the record API under prefix.
func Register(r gin.IRouter, prefix string, h Handlers) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)

	if h.Students != nil {
		students := api.Group("/students")
		students.GET("", h.Students.List)
		students.POST("", h.Students.Create)
		students.GET("/nim/:nim", h.Students.GetByNIM)
		students.GET("/:id", h.Students.Get)
		students.DELETE("/:id", h.Students.Delete)
		students.GET("/:id/enrollments", h.Students.Enrollments)
		students.GET("/:id/transcript", h.Students.Transcript)
	}

	if h.Courses != nil {
		courses := api.Group("/courses")
		courses.GET("", h.Courses.List)
		courses.POST("", h.Courses.Create)
		courses.GET("/code/:code", h.Courses.GetByCode)
		courses.GET("/:id", h.Courses.Get)
		courses.DELETE("/:id", h.Courses.Delete)
		courses.GET("/:id/enrollments", h.Courses.Enrollments)
	}

	if h.Enrollments != nil {
		enrollments := api.Group("/enrollments")
		enrollments.POST("", h.Enrollments.Enroll)
		enrollments.GET("/:studentId/:courseId", h.Enrollments.Get)
		enrollments.PUT("/:studentId/:courseId/grade", h.Enrollments.SetGrade)
		enrollments.DELETE("/:studentId/:courseId", h.Enrollments.Delete)
	}
}
