package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andrewpaige1/flashcards-web/models"
)

// /app/decks/{deckID}/cards

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	cards, err := h.API.ListCards(r.Context(), deckID)
	if err != nil {
		h.writeError(w, r, "ListCards", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	in, ok := decodeCardInput(w, r)
	if !ok {
		return
	}
	card, err := h.API.CreateCard(r.Context(), deckID, in)
	if err != nil {
		h.writeError(w, r, "CreateCard", err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// POST /app/decks/{deckID}/cards/{cardID}/answer

func (h *Handler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	cardID, ok := pathID(r, "cardID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var in models.RecordAnswerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.StudyTime < 0 {
		writeMessage(w, http.StatusBadRequest, "Study time cannot be negative")
		return
	}

	record, err := h.API.RecordAnswer(r.Context(), deckID, cardID, in)
	if err != nil {
		h.writeError(w, r, "RecordAnswer", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// /app/cards/{cardID}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathID(r, "cardID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid card ID")
		return
	}
	in, ok := decodeCardInput(w, r)
	if !ok {
		return
	}
	card, err := h.API.UpdateCard(r.Context(), cardID, in)
	if err != nil {
		h.writeError(w, r, "UpdateCard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathID(r, "cardID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid card ID")
		return
	}
	if err := h.API.DeleteCard(r.Context(), cardID); err != nil {
		h.writeError(w, r, "DeleteCard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeCardInput(w http.ResponseWriter, r *http.Request) (models.CardInput, bool) {
	var in models.CardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if strings.TrimSpace(in.Front) == "" || strings.TrimSpace(in.Back) == "" {
		writeMessage(w, http.StatusBadRequest, "Front and back are required")
		return in, false
	}
	return in, true
}
