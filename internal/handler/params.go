package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/krs-api/pkg/errors"
)

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func invalidPayload(err error) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
