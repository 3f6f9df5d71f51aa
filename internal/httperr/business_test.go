package httperr

import (
	"errors"
	"testing"
)

func TestKindConstructors(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
		code string
	}{
		{Validation("invalid_duration", "too short"), KindValidation, "invalid_duration"},
		{NotFound("client_not_found", "nope"), KindNotFound, "client_not_found"},
		{Conflict("max_concurrent_reached", "full"), KindConflict, "max_concurrent_reached"},
		{Forbidden("not_own_appointment", "no"), KindAuthorization, "not_own_appointment"},
		{Storage("lookup_failed", errors.New("down")), KindStorage, "lookup_failed"},
	}

	for _, tc := range cases {
		if !IsKind(tc.err, tc.kind) {
			t.Errorf("%v: wrong kind", tc.err)
		}
		if !IsCode(tc.err, tc.code) {
			t.Errorf("%v: expected code %s", tc.err, tc.code)
		}
	}
}

func TestIsCode_NonBusinessError(t *testing.T) {
	if IsCode(errors.New("plain"), "anything") {
		t.Error("plain errors carry no code")
	}
	if IsCode(nil, "anything") {
		t.Error("nil carries no code")
	}
}

func TestStorage_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("lookup_failed", cause)
	if !errors.Is(err, cause) {
		t.Error("storage errors must unwrap to their cause")
	}
}
