package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/krs-api/pkg/errors"
)

// validationError reports payload rule failures as constraint violations,
// the same kind the database raises for the equivalent column rules.
func validationError(err error, message string) *appErrors.Error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			if fe.Param() != "" {
				parts = append(parts, fmt.Sprintf("%s %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			} else {
				parts = append(parts, fmt.Sprintf("%s %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
		}
		message = fmt.Sprintf("%s: %s", message, strings.Join(parts, ", "))
	}
	return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, message)
}
