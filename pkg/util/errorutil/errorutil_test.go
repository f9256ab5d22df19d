package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmht/buzon-service/pkg/util/errorutil"
)

func TestToDomainError_KeepsDomainErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", errorutil.NewForbidden("not yours"))

	de := errorutil.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "FORBIDDEN", de.Code)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	de := errorutil.ToDomainError(fmt.Errorf("get: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.True(t, errorutil.IsNoRows(fmt.Errorf("x: %w", pgx.ErrNoRows)))
}

func TestToDomainError_PostgresConstraints(t *testing.T) {
	cases := map[string]int{
		"23505": http.StatusConflict,
		"23503": http.StatusBadRequest,
		"23514": http.StatusBadRequest,
		"42P01": http.StatusInternalServerError,
	}
	for code, status := range cases {
		de := errorutil.ToDomainError(&pgconn.PgError{Code: code, ConstraintName: "c"})
		assert.Equal(t, status, de.HTTPStatus, code)
	}
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	de := errorutil.ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Nil(t, errorutil.ToDomainError(nil))
}

func TestDegradedError_Unwraps(t *testing.T) {
	cause := errors.New("redis down")
	err := errorutil.NewDegraded("submitter", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "submitter")
}
