package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/models"
	"github.com/andrewpaige1/flashcards-web/review"
)

type deckOverview struct {
	Deck  *models.Deck      `json:"deck"`
	Cards []models.Card     `json:"cards"`
	Stats *models.DeckStats `json:"stats"`
}

// /app/decks

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.API.ListDecks(r.Context())
	if err != nil {
		h.writeError(w, r, "ListDecks", err)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeDeckInput(w, r)
	if !ok {
		return
	}
	deck, err := h.API.CreateDeck(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "CreateDeck", err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// POST /app/decks/generate
//
// Creates a deck from a prompt or image without a preview step.

func (h *Handler) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	const op = "GenerateDeck"
	if err := parseUpload(w, r); err != nil {
		h.writeError(w, r, op, err)
		return
	}

	form := capture.NewForm()
	if prompt := r.FormValue("prompt"); strings.TrimSpace(prompt) != "" {
		if err := form.SetPrompt(prompt); err != nil {
			h.writeError(w, r, op, err)
			return
		}
	}
	image, err := readUpload(r, "image", capture.MaxImageSize)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if image != nil {
		if err := form.AttachImage(image); err != nil {
			h.writeError(w, r, op, err)
			return
		}
	}

	sub, err := form.Submit()
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	if n, err := strconv.Atoi(r.FormValue("maxCards")); err == nil && n > 0 && n < sub.MaxCards {
		sub.MaxCards = n
	}

	deckID, err := h.API.GenerateDeck(r.Context(), sub.Prompt, sub.Image, sub.MaxCards)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.Logger.Info("GenerateDeck: deck created", zap.Uint("deckID", deckID))
	http.Redirect(w, r, review.DeckPath(deckID), http.StatusSeeOther)
}

// /app/decks/{deckID}

// GetDeckOverview loads the deck, its cards and its stats in parallel.
func (h *Handler) GetDeckOverview(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	var overview deckOverview
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		deck, err := h.API.GetDeck(ctx, deckID)
		overview.Deck = deck
		return err
	})
	g.Go(func() error {
		cards, err := h.API.ListCards(ctx, deckID)
		overview.Cards = cards
		return err
	})
	g.Go(func() error {
		stats, err := h.API.GetDeckStats(ctx, deckID)
		overview.Stats = stats
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeError(w, r, "GetDeckOverview", err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	in, ok := decodeDeckInput(w, r)
	if !ok {
		return
	}
	deck, err := h.API.UpdateDeck(r.Context(), deckID, in)
	if err != nil {
		h.writeError(w, r, "UpdateDeck", err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	if err := h.API.DeleteDeck(r.Context(), deckID); err != nil {
		h.writeError(w, r, "DeleteDeck", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(r, "deckID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	stats, err := h.API.GetDeckStats(r.Context(), deckID)
	if err != nil {
		h.writeError(w, r, "GetDeckStats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func decodeDeckInput(w http.ResponseWriter, r *http.Request) (models.DeckInput, bool) {
	var in models.DeckInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Deck title is required")
		return in, false
	}
	return in, true
}
