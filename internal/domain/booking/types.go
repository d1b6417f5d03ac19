package booking

import "shareit/internal/pkg/errs"

// Status is the booking lifecycle state. WAITING is the initial state,
// APPROVED and REJECTED are terminal.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var ErrUnknownState = errs.New("unknown booking state")

// State is the filter vocabulary of the booking list endpoints. It is wider
// than Status: CURRENT/PAST/FUTURE classify against the request's "now"
// snapshot, WAITING/REJECTED match the stored status.
//
// StateApproved is accepted by ParseState because APPROVED belongs to the
// vocabulary, but neither list endpoint has a dispatch branch for it; the
// dispatch point rejects it explicitly instead of guessing a meaning.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
	StateApproved State = "APPROVED"
)

func (s State) String() string {
	return string(s)
}

// ParseState maps the raw query value to a State. Empty input defaults
// to ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch State(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected, StateApproved:
		return State(raw), nil
	default:
		return "", errs.Mark(errs.Newf("unknown state: %s", raw), ErrUnknownState)
	}
}
