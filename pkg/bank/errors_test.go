package bank

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		code int
	}{
		{nil, KindNone, 0},
		{ErrBankFull, KindCapacity, 2},
		{ErrZoneLimit, KindCapacity, 2},
		{ErrNoteRangeSeveralZones, KindInvalidReference, 3},
		{ErrUnknownFormat, KindInvalidReference, 3},
		{ErrIO, KindIO, 4},
		{ErrChannels, KindSampleFormat, 5},
		{errors.New("boom"), KindOther, 1},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			wrapped := opErr("test", fmt.Errorf("context: %w", tt.err))
			if tt.err == nil {
				wrapped = nil
			}
			if got := KindOf(wrapped); got != tt.kind {
				t.Errorf("KindOf() = %v, want %v", got, tt.kind)
			}
			if got := ExitCode(wrapped); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := opErr("add zone", fmt.Errorf("%w: keys 50-60", ErrNoteRangeSeveralZones))
	if got, want := err.Error(), "add zone: note range in several zones: keys 50-60"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "add zone" {
		t.Errorf("errors.As() = %v, want op %q", e, "add zone")
	}
}
