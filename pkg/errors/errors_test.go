package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDatabaseClassifiesPostgresCodes(t *testing.T) {
	cases := []struct {
		name string
		code pq.ErrorCode
		want *Error
	}{
		{name: "unique", code: "23505", want: ErrConstraintViolation},
		{name: "not null", code: "23502", want: ErrConstraintViolation},
		{name: "check", code: "23514", want: ErrConstraintViolation},
		{name: "too long", code: "22001", want: ErrConstraintViolation},
		{name: "foreign key", code: "23503", want: ErrReference},
		{name: "deadlock", code: "40P01", want: ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := fmt.Errorf("create student: %w", &pq.Error{Code: tc.code, Constraint: "students_nim_key"})
			got := FromDatabase(err, "failed to create student")
			require.NotNil(t, got)
			assert.Equal(t, tc.want.Code, got.Code)
			assert.Equal(t, tc.want.Status, got.Status)
			assert.True(t, Is(got, tc.want))
		})
	}
}

func TestFromDatabaseNoRows(t *testing.T) {
	got := FromDatabase(fmt.Errorf("find student: %w", sql.ErrNoRows), "student not found")
	assert.Equal(t, ErrNotFound.Code, got.Code)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "student not found", got.Message)
	assert.ErrorIs(t, got, sql.ErrNoRows)
}

func TestFromDatabaseKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrConstraintViolation, "nim already used")
	assert.Same(t, typed, FromDatabase(typed, "ignored"))
	assert.Nil(t, FromDatabase(nil, "ignored"))
}

func TestConstraintNameAppendedToMessage(t *testing.T) {
	got := FromDatabase(&pq.Error{Code: "23505", Constraint: "courses_code_key"}, "failed to create course")
	assert.Equal(t, "failed to create course (courses_code_key)", got.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.False(t, Is(got, ErrNotFound))
	assert.False(t, Is(nil, ErrNotFound))
}
