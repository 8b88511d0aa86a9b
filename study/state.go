package study

import (
	"errors"
	"fmt"
)

// State is where a study session is:
//
//	loading → studying → complete → (study again) → studying
//	loading → empty
type State int

const (
	StateLoading State = iota
	StateEmpty
	StateStudying
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateStudying:
		return "studying"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := StateLoading; st <= StateComplete; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown study state %q", text)
}

// Answer is the user's verdict on a flipped card.
type Answer string

const (
	AnswerCorrect   Answer = "correct"
	AnswerIncorrect Answer = "incorrect"
	AnswerDontKnow  Answer = "dontKnow"
)

var ErrUnknownAnswer = errors.New("answer must be correct, incorrect or dontKnow")

func ParseAnswer(s string) (Answer, error) {
	switch a := Answer(s); a {
	case AnswerCorrect, AnswerIncorrect, AnswerDontKnow:
		return a, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrUnknownAnswer, s)
}

// Results tallies the answers of one pass through a deck.
type Results struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	DontKnow  int `json:"dontKnow"`
	// Unrecorded counts answers the API failed to save.
	Unrecorded int `json:"unrecorded"`
}

func (r *Results) add(a Answer) {
	switch a {
	case AnswerCorrect:
		r.Correct++
	case AnswerIncorrect:
		r.Incorrect++
	case AnswerDontKnow:
		r.DontKnow++
	}
}

func (r Results) Total() int {
	return r.Correct + r.Incorrect + r.DontKnow
}
