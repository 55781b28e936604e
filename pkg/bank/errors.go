package bank

import (
	"errors"
	"fmt"
)

// Capacity errors.
var (
	ErrBankFull    = errors.New("bank full")
	ErrPresetLimit = errors.New("preset limit reached")
	ErrSampleLimit = errors.New("sample limit reached")
	ErrZoneLimit   = errors.New("zone limit reached")
)

// Invalid reference errors.
var (
	ErrPresetIndex           = errors.New("preset index out of range")
	ErrZoneIndex             = errors.New("zone index out of range")
	ErrSampleIndex           = errors.New("sample index out of range")
	ErrNoteRange             = errors.New("invalid note range")
	ErrNoteRangeAssigned     = errors.New("note range already assigned")
	ErrNoteRangeUnassigned   = errors.New("note range not assigned")
	ErrNoteRangeSeveralZones = errors.New("note range in several zones")
	ErrUnknownFormat         = errors.New("unrecognized bank format")
	ErrCorrupt               = errors.New("record out of bounds")
	ErrParamRange            = errors.New("parameter out of range")
)

// ErrIO marks open, read and write failures.
var ErrIO = errors.New("i/o failure")

// Sample format errors.
var (
	ErrChannels     = errors.New("unsupported channel count")
	ErrSampleFormat = errors.New("unsupported sample file")
)

// Error records the editor operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opErr(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Kind classifies an error for the caller.
type Kind int

const (
	KindNone Kind = iota
	KindCapacity
	KindInvalidReference
	KindIO
	KindSampleFormat
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCapacity:
		return "capacity exceeded"
	case KindInvalidReference:
		return "invalid reference"
	case KindIO:
		return "i/o failure"
	case KindSampleFormat:
		return "sample format failure"
	default:
		return "other"
	}
}

// KindOf returns the taxonomy entry of err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrBankFull), errors.Is(err, ErrPresetLimit),
		errors.Is(err, ErrSampleLimit), errors.Is(err, ErrZoneLimit):
		return KindCapacity
	case errors.Is(err, ErrPresetIndex), errors.Is(err, ErrZoneIndex),
		errors.Is(err, ErrSampleIndex), errors.Is(err, ErrNoteRange),
		errors.Is(err, ErrNoteRangeAssigned), errors.Is(err, ErrNoteRangeUnassigned),
		errors.Is(err, ErrNoteRangeSeveralZones), errors.Is(err, ErrUnknownFormat),
		errors.Is(err, ErrCorrupt), errors.Is(err, ErrParamRange):
		return KindInvalidReference
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrChannels), errors.Is(err, ErrSampleFormat):
		return KindSampleFormat
	default:
		return KindOther
	}
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindNone:
		return 0
	case KindCapacity:
		return 2
	case KindInvalidReference:
		return 3
	case KindIO:
		return 4
	case KindSampleFormat:
		return 5
	default:
		return 1
	}
}
