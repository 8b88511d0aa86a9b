package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/review"
)

// reviewSession returns the caller's review, loading the stored preview the
// first time it is viewed and re-checking the store on later requests.
func (h *Handler) reviewSession(w http.ResponseWriter, r *http.Request, op string) (*review.Session, bool) {
	key, ok := h.browserKey(w, r, op)
	if !ok {
		return nil, false
	}
	s := h.Reviews.Get(key)
	load := s.Refresh
	if s.State() == review.StateLoading {
		load = s.Load
	}
	if err := load(r.Context()); err != nil {
		h.writeError(w, r, op, err)
		return nil, false
	}
	return s, true
}

// GET /app/cards/create/ai/preview

func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.reviewSession(w, r, "GetPreview")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// DELETE /app/cards/create/ai/preview

func (h *Handler) DiscardPreview(w http.ResponseWriter, r *http.Request) {
	const op = "DiscardPreview"
	key, ok := h.browserKey(w, r, op)
	if !ok {
		return
	}
	if err := h.Previews.Discard(r.Context(), key); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.Reviews.Reset(key)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) NextCard(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.reviewSession(w, r, "NextCard"); ok {
		s.Next()
		writeJSON(w, http.StatusOK, s.View())
	}
}

func (h *Handler) PrevCard(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.reviewSession(w, r, "PrevCard"); ok {
		s.Prev()
		writeJSON(w, http.StatusOK, s.View())
	}
}

func (h *Handler) FlipCard(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.reviewSession(w, r, "FlipCard"); ok {
		s.Flip()
		writeJSON(w, http.StatusOK, s.View())
	}
}

func (h *Handler) AcknowledgeError(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.reviewSession(w, r, "AcknowledgeError"); ok {
		s.Acknowledge()
		writeJSON(w, http.StatusOK, s.View())
	}
}

// POST /app/cards/create/ai/preview/regenerate

func (h *Handler) RegeneratePreview(w http.ResponseWriter, r *http.Request) {
	const op = "RegeneratePreview"
	s, ok := h.reviewSession(w, r, op)
	if !ok {
		return
	}

	var reqData struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqData); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.SetFeedback(reqData.Feedback)
	if err := s.Regenerate(r.Context()); err != nil {
		h.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// POST /app/cards/create/ai/preview/confirm

func (h *Handler) ConfirmPreview(w http.ResponseWriter, r *http.Request) {
	const op = "ConfirmPreview"
	s, ok := h.reviewSession(w, r, op)
	if !ok {
		return
	}

	deckID, err := s.Confirm(r.Context())
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.Logger.Info("ConfirmPreview: deck created", zap.Uint("deckID", deckID))
	http.Redirect(w, r, review.DeckPath(deckID), http.StatusSeeOther)
}
