package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Conflict, KindOf(New(Conflict, "already exists")))
	assert.Equal(t, Internal, KindOf(errors.New("plain error")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(NotFound, "task not found"))
	assert.Equal(t, NotFound, KindOf(err))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "task not found", MessageOf(New(NotFound, "task not found")))

	// Unclassified errors never leak their text to callers.
	assert.Equal(t, "Internal server error", MessageOf(errors.New("pq: connection refused")))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(Delivery, "Failed to send OTP. Please try again.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "Failed to send OTP. Please try again.", MessageOf(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Validation:   http.StatusBadRequest,
		NotFound:     http.StatusNotFound,
		Conflict:     http.StatusConflict,
		RateLimited:  http.StatusTooManyRequests,
		Unauthorized: http.StatusUnauthorized,
		Delivery:     http.StatusInternalServerError,
		Internal:     http.StatusInternalServerError,
	}

	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(New(kind, "x")))
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
