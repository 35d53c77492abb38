package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		if got := KindOf(New(Conflict, "duplicate")); got != Conflict {
			t.Fatalf("KindOf = %v, want Conflict", got)
		}
	})

	t.Run("wrapped error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(NotFound, "missing"))
		if got := KindOf(err); got != NotFound {
			t.Fatalf("KindOf = %v, want NotFound", got)
		}
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		if got := KindOf(errors.New("boom")); got != Internal {
			t.Fatalf("KindOf = %v, want Internal", got)
		}
	})
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(New(Forbidden, "no access")); got != "no access" {
		t.Fatalf("MessageOf = %q", got)
	}
	// Untagged errors must never leak their contents to clients.
	if got := MessageOf(errors.New("dial tcp 10.0.0.5: connection refused")); got != "internal server error" {
		t.Fatalf("MessageOf leaked internals: %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(Internal, "failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause should be reachable with errors.Is")
	}
}
