package headtypes

import (
	"fmt"

	"github.com/pkg/errors"
)

// LogicErrorKind enumerates the hard-failure categories of §7.
type LogicErrorKind uint8

const (
	// InvalidEvent is a hard protocol violation: the shell should log and
	// drop the event.
	InvalidEvent LogicErrorKind = iota
	// InvalidState is an internal inconsistency; fatal.
	InvalidState
	// InvalidSnapshot is reserved for future tightening (§7.3); unused by
	// any handler today.
	InvalidSnapshot
	// LedgerError is surfaced verbatim from the Ledger capability.
	LedgerError
)

func (k LogicErrorKind) String() string {
	switch k {
	case InvalidEvent:
		return "InvalidEvent"
	case InvalidState:
		return "InvalidState"
	case InvalidSnapshot:
		return "InvalidSnapshot"
	case LedgerError:
		return "LedgerError"
	default:
		return "UnknownLogicError"
	}
}

// LogicError is the core's only error type (§7). Wait is deliberately not a
// LogicError: it is a non-fatal deferral, represented separately in Outcome.
type LogicError struct {
	Kind  LogicErrorKind
	cause error
}

func (e *LogicError) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *LogicError) Unwrap() error {
	return e.cause
}

func NewInvalidEvent(format string, args ...interface{}) *LogicError {
	return &LogicError{Kind: InvalidEvent, cause: errors.Errorf(format, args...)}
}

func NewInvalidState(format string, args ...interface{}) *LogicError {
	return &LogicError{Kind: InvalidState, cause: errors.Errorf(format, args...)}
}

func NewLedgerError(cause error) *LogicError {
	return &LogicError{Kind: LedgerError, cause: errors.WithStack(cause)}
}

// WaitReasonKind enumerates the non-fatal deferral reasons of §4.4-§4.5.
type WaitReasonKind uint8

const (
	WaitOnNotApplicableTx WaitReasonKind = iota
	WaitOnSnapshotNumber
	WaitOnSeenSnapshot
)

func (k WaitReasonKind) String() string {
	switch k {
	case WaitOnNotApplicableTx:
		return "WaitOnNotApplicableTx"
	case WaitOnSnapshotNumber:
		return "WaitOnSnapshotNumber"
	case WaitOnSeenSnapshot:
		return "WaitOnSeenSnapshot"
	default:
		return "UnknownWaitReason"
	}
}

// WaitReason explains why the shell should re-enqueue an event (§4.1: "Wait
// instructs the shell to re-enqueue the same event later").
type WaitReason struct {
	Kind WaitReasonKind

	// WaitOnNotApplicableTx
	Cause error

	// WaitOnSnapshotNumber
	ExpectedNumber uint64
}

func (r WaitReason) String() string {
	switch r.Kind {
	case WaitOnNotApplicableTx:
		return fmt.Sprintf("WaitOnNotApplicableTx(%v)", r.Cause)
	case WaitOnSnapshotNumber:
		return fmt.Sprintf("WaitOnSnapshotNumber(%d)", r.ExpectedNumber)
	default:
		return r.Kind.String()
	}
}
