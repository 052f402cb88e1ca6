package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfUnwrapsChain(t *testing.T) {
	base := NotFound("Channel does not exist")
	wrapped := fmt.Errorf("get channel profile: %w", base)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("expected %s got %s", KindNotFound, got)
	}
	if KindOf(nil) != "" {
		t.Fatalf("expected empty kind for nil error")
	}
}

func TestAsTreatsPlainErrorsAsServerErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := As(cause)

	if got.Kind != KindServer {
		t.Fatalf("expected server kind got %s", got.Kind)
	}
	if got.Message != "Something went wrong" {
		t.Fatalf("cause leaked into message: %q", got.Message)
	}
	if !errors.Is(got, cause) {
		t.Fatalf("expected cause to stay reachable through Unwrap")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidReference: http.StatusBadRequest,
		KindBadRequest:       http.StatusBadRequest,
		KindNotFound:         http.StatusNotFound,
		KindUnauthorized:     http.StatusUnauthorized,
		KindForbidden:        http.StatusForbidden,
		KindConflict:         http.StatusConflict,
		KindServer:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Errorf("%s: expected %d got %d", kind, want, got)
		}
	}
}
