package study

import "fmt"

// View is a read-only snapshot of a study session for rendering.
type View struct {
	State           State   `json:"state"`
	DeckID          uint    `json:"deckId"`
	DeckTitle       string  `json:"deckTitle,omitempty"`
	DeckDescription string  `json:"deckDescription,omitempty"`
	CardCount       int     `json:"cardCount"`
	Index           int     `json:"index"`
	Position        string  `json:"position,omitempty"`
	Progress        float64 `json:"progress"`
	CardID          uint    `json:"cardId,omitempty"`
	Side            string  `json:"side,omitempty"`
	Text            string  `json:"text,omitempty"`
	Hint            string  `json:"hint,omitempty"`
	Flipped         bool    `json:"flipped"`
	CanAnswer       bool    `json:"canAnswer"`
	Results         Results `json:"results"`
	DeckPath        string  `json:"deckPath"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:     s.state,
		DeckID:    s.deckID,
		CardCount: len(s.cards),
		Index:     s.index,
		Flipped:   s.flipped,
		Results:   s.results,
		DeckPath:  fmt.Sprintf("/app/decks/%d", s.deckID),
	}
	if s.deck != nil {
		v.DeckTitle = s.deck.Title
		v.DeckDescription = s.deck.Description
	}
	if s.state != StateStudying {
		if s.state == StateComplete {
			v.Progress = 100
		}
		return v
	}

	card := s.cards[s.index]
	v.CardID = card.ID
	v.Position = fmt.Sprintf("%d / %d", s.index+1, len(s.cards))
	v.Progress = float64(s.index+1) / float64(len(s.cards)) * 100
	v.Side, v.Text, v.Hint = "front", card.Front, card.Hint
	if s.flipped {
		v.Side, v.Text, v.Hint = "back", card.Back, ""
	}
	v.CanAnswer = s.flipped && !s.answering
	return v
}
