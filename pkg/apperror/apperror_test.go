package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("amount must be greater than 0"), 400},
		{"unauthenticated", Unauthenticated("invalid token"), 401},
		{"forbidden", Forbidden("admin role required"), 403},
		{"not found", NotFound("contribution not found"), 404},
		{"conflict", Conflict("request is not pending"), 409},
		{"rate limited", RateLimited("too many requests", 60), 429},
		{"upstream network", Upstream(CodeImageStoreNetwork, "image storage unreachable", true, nil), 503},
		{"upstream request", Upstream(CodeImageStoreRequest, "could not send upload request", true, nil), 502},
		{"upstream rejected", Upstream(CodeImageStoreRejected, "upload rejected", false, nil), 502},
		{"upstream config", Upstream(CodeImageStoreConfig, "image storage misconfigured", false, nil), 500},
		{"plain error", errors.New("boom"), 500},
		{"wrapped", fmt.Errorf("handler: %w", NotFound("expense not found")), 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindInternal, KindOf(errors.New("unclassified")))
	assert.Equal(t, KindUpstream, KindOf(fmt.Errorf("gallery: %w", Upstream(CodeImageStoreRejected, "rejected", false, errors.New("bad format")))))
}

func TestRetryAfterPreserved(t *testing.T) {
	err := RateLimited("slow down", 42)
	appErr, ok := As(fmt.Errorf("middleware: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 42, appErr.RetryAfterSeconds)
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := Upstream(CodeImageStoreNetwork, "image storage unreachable", true, inner)
	assert.True(t, errors.Is(err, inner))
}
