package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestMessageHidesInternalDetails(t *testing.T) {
	assert.Equal(t, "Product 7 not found", Message(NotFound("Product %d not found", 7)))
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "failed to save", Message(Internal(errors.New("disk full"), "failed to save")))
}

func TestIsAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Internal(cause, "oops")
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(Conflict("x"), KindConflict))
	assert.False(t, Is(nil, KindConflict))
}
