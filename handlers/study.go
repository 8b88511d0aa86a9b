package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/andrewpaige1/flashcards-web/study"
)

// studySession returns the caller's study session for the deck in the path,
// loading the deck and its cards the first time.
func (h *Handler) studySession(w http.ResponseWriter, r *http.Request, op string) (*study.Session, bool) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return nil, false
	}
	key, ok := h.browserKey(w, r, op)
	if !ok {
		return nil, false
	}
	s := h.Studies.Get(key, deckID)
	if s.State() == study.StateLoading {
		if err := s.Load(r.Context()); err != nil {
			h.writeError(w, r, op, err)
			return nil, false
		}
	}
	return s, true
}

// GET /app/decks/{deckID}/study

func (h *Handler) GetStudySession(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.studySession(w, r, "GetStudySession"); ok {
		writeJSON(w, http.StatusOK, s.View())
	}
}

// DELETE /app/decks/{deckID}/study
//
// Ends the session; the next GET reloads the deck.

func (h *Handler) EndStudySession(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	key, ok := h.browserKey(w, r, "EndStudySession")
	if !ok {
		return
	}
	h.Studies.Reset(key, deckID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FlipStudyCard(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.studySession(w, r, "FlipStudyCard"); ok {
		s.Flip()
		writeJSON(w, http.StatusOK, s.View())
	}
}

// POST /app/decks/{deckID}/study/answer

func (h *Handler) AnswerStudyCard(w http.ResponseWriter, r *http.Request) {
	const op = "AnswerStudyCard"
	s, ok := h.studySession(w, r, op)
	if !ok {
		return
	}

	var reqData struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqData); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	answer, err := study.ParseAnswer(reqData.Result)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if err := s.Answer(r.Context(), answer); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// POST /app/decks/{deckID}/study/restart

func (h *Handler) RestartStudySession(w http.ResponseWriter, r *http.Request) {
	const op = "RestartStudySession"
	s, ok := h.studySession(w, r, op)
	if !ok {
		return
	}
	if err := s.Restart(); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}
