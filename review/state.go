package review

import "fmt"

// State is where a review session is in its lifecycle:
//
//	loading → ready ⇄ regenerating → ready → confirming → done
//
// Any failed network call moves ready work to error, and Acknowledge
// returns it to ready.
type State int

const (
	StateLoading State = iota
	StateReady
	StateRegenerating
	StateConfirming
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRegenerating:
		return "regenerating"
	case StateConfirming:
		return "confirming"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := StateLoading; st <= StateError; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown review state %q", text)
}

// RequestStatus tracks one user-triggered backend call. While a request is
// pending its control is disabled and a second trigger is refused.
type RequestStatus int

const (
	RequestIdle RequestStatus = iota
	RequestPending
	RequestSucceeded
	RequestFailed
)

func (s RequestStatus) String() string {
	switch s {
	case RequestIdle:
		return "idle"
	case RequestPending:
		return "pending"
	case RequestSucceeded:
		return "succeeded"
	case RequestFailed:
		return "failed"
	default:
		return fmt.Sprintf("RequestStatus(%d)", int(s))
	}
}

func (s RequestStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RequestStatus) UnmarshalText(text []byte) error {
	for st := RequestIdle; st <= RequestFailed; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown request status %q", text)
}

type request struct {
	status RequestStatus
	err    error
}

func (r *request) begin() { r.status, r.err = RequestPending, nil }

func (r *request) finish(err error) {
	if err != nil {
		r.status, r.err = RequestFailed, err
		return
	}
	r.status, r.err = RequestSucceeded, nil
}

func (r request) pending() bool { return r.status == RequestPending }
