package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth("invalid credentials"), http.StatusUnauthorized},
		{NotFound("listing not found"), http.StatusNotFound},
		{Conflict("email already exists"), http.StatusConflict},
		{Internal("query failed", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("while claiming: %w", NotFound("listing not found"))
	assert.Equal(t, http.StatusNotFound, Status(wrapped))
	assert.Equal(t, "listing not found", ClientMessage(wrapped))
}

func TestClientMessageHidesCauses(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:3306: connection refused")
	err := Internal("create user failed", cause)

	assert.Contains(t, err.Error(), "connection refused", "full text stays available for logs")
	assert.NotContains(t, ClientMessage(err), "connection refused")
	assert.Equal(t, "create user failed", ClientMessage(err))
	assert.Equal(t, "internal server error", ClientMessage(errors.New("raw driver error")))

	assert.ErrorIs(t, err, cause)
}
