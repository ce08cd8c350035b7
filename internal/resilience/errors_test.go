package resilience

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"transient wrapper", NewTransientError(errors.New("429"), 429), true},
		{"wrapped transient", fmt.Errorf("fetch: %w", NewTransientError(errors.New("503"), 503)), true},
		{"conn reset", syscall.ECONNRESET, true},
		{"conn refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"string heuristic", errors.New("read tcp: connection reset by peer"), true},
		{"tls timeout string", errors.New("net/http: TLS handshake timeout"), true},
		{"auth failure", errors.New("401 unauthorized"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	te := NewTransientError(inner, 500)

	assert.ErrorIs(t, te, inner)
	assert.Equal(t, "inner", te.Error())
	assert.Equal(t, 500, te.StatusCode)
}
