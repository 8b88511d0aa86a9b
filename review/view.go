package review

import (
	"fmt"
	"strings"
)

// View is a read-only snapshot of a session for rendering.
type View struct {
	State           State         `json:"state"`
	SessionID       string        `json:"sessionId,omitempty"`
	DeckTitle       string        `json:"deckTitle,omitempty"`
	DeckDescription string        `json:"deckDescription,omitempty"`
	CardCount       int           `json:"cardCount"`
	Index           int           `json:"index"`
	Position        string        `json:"position,omitempty"`
	Side            string        `json:"side,omitempty"`
	Text            string        `json:"text,omitempty"`
	Flipped         bool          `json:"flipped"`
	Feedback        string        `json:"feedback"`
	CanPrev         bool          `json:"canPrev"`
	CanNext         bool          `json:"canNext"`
	CanRegenerate   bool          `json:"canRegenerate"`
	CanConfirm      bool          `json:"canConfirm"`
	Regenerate      RequestStatus `json:"regenerate"`
	Confirm         RequestStatus `json:"confirm"`
	Error           string        `json:"error,omitempty"`
	Redirect        string        `json:"redirect,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:      s.state,
		Index:      s.index,
		Flipped:    s.flipped,
		Feedback:   s.feedback,
		Regenerate: s.regenerate.status,
		Confirm:    s.confirm.status,
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	if s.state == StateDone {
		v.Redirect = DeckPath(s.deckID)
	}
	if s.preview == nil {
		return v
	}

	p := s.preview
	v.SessionID = p.SessionID
	v.DeckTitle = p.DeckTitle
	v.DeckDescription = p.DeckDescription
	v.CardCount = len(p.Cards)
	if v.CardCount > 0 {
		card := p.Cards[s.index]
		v.Position = fmt.Sprintf("%d / %d", s.index+1, v.CardCount)
		v.Side, v.Text = "front", card.Front
		if s.flipped {
			v.Side, v.Text = "back", card.Back
		}
	}

	idle := !s.regenerate.pending() && !s.confirm.pending()
	ready := s.state == StateReady
	v.CanPrev = s.browsable() && s.index > 0
	v.CanNext = s.browsable() && s.index < v.CardCount-1
	v.CanRegenerate = ready && idle && strings.TrimSpace(s.feedback) != ""
	v.CanConfirm = ready && idle
	return v
}
