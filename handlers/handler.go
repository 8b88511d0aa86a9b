package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/preview"
	"github.com/andrewpaige1/flashcards-web/review"
	"github.com/andrewpaige1/flashcards-web/study"
	"github.com/andrewpaige1/flashcards-web/utils"
)

const PreviewPath = review.CaptureEntryPath + "/preview"

var errNoBrowserSession = errors.New("request has no browsing session")

// Handler serves the browser-facing /app routes.
type Handler struct {
	API      *api.Client
	Previews *preview.Orchestrator
	Reviews  *review.Registry
	Studies  *study.Registry
	Logger   *zap.Logger
}

func (h *Handler) Register(mux *http.ServeMux) {
	// AI capture
	mux.HandleFunc("GET "+review.CaptureEntryPath, h.GetCaptureEntry)
	mux.HandleFunc("POST "+review.CaptureEntryPath, h.SubmitCapture)
	mux.HandleFunc("POST "+review.CaptureEntryPath+"/transcribe", h.TranscribeAudio)

	// Preview review
	mux.HandleFunc("GET "+PreviewPath, h.GetPreview)
	mux.HandleFunc("DELETE "+PreviewPath, h.DiscardPreview)
	mux.HandleFunc("POST "+PreviewPath+"/next", h.NextCard)
	mux.HandleFunc("POST "+PreviewPath+"/prev", h.PrevCard)
	mux.HandleFunc("POST "+PreviewPath+"/flip", h.FlipCard)
	mux.HandleFunc("POST "+PreviewPath+"/ack", h.AcknowledgeError)
	mux.HandleFunc("POST "+PreviewPath+"/regenerate", h.RegeneratePreview)
	mux.HandleFunc("POST "+PreviewPath+"/confirm", h.ConfirmPreview)

	// Decks
	mux.HandleFunc("GET /app/decks", h.ListDecks)
	mux.HandleFunc("POST /app/decks", h.CreateDeck)
	mux.HandleFunc("POST /app/decks/generate", h.GenerateDeck)
	mux.HandleFunc("GET /app/decks/{deckID}", h.GetDeckOverview)
	mux.HandleFunc("PUT /app/decks/{deckID}", h.UpdateDeck)
	mux.HandleFunc("DELETE /app/decks/{deckID}", h.DeleteDeck)
	mux.HandleFunc("GET /app/decks/{deckID}/stats", h.GetDeckStats)

	// Study
	mux.HandleFunc("GET /app/decks/{deckID}/study", h.GetStudySession)
	mux.HandleFunc("DELETE /app/decks/{deckID}/study", h.EndStudySession)
	mux.HandleFunc("POST /app/decks/{deckID}/study/flip", h.FlipStudyCard)
	mux.HandleFunc("POST /app/decks/{deckID}/study/answer", h.AnswerStudyCard)
	mux.HandleFunc("POST /app/decks/{deckID}/study/restart", h.RestartStudySession)

	// Cards
	mux.HandleFunc("GET /app/decks/{deckID}/cards", h.ListCards)
	mux.HandleFunc("POST /app/decks/{deckID}/cards", h.CreateCard)
	mux.HandleFunc("POST /app/decks/{deckID}/cards/{cardID}/answer", h.RecordAnswer)
	mux.HandleFunc("PUT /app/cards/{cardID}", h.UpdateCard)
	mux.HandleFunc("DELETE /app/cards/{cardID}", h.DeleteCard)

	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// browserKey returns the browsing-session id the session middleware put on
// the request.
func (h *Handler) browserKey(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	key, ok := utils.BrowserSessionID(r.Context())
	if !ok {
		h.writeError(w, r, op, errNoBrowserSession)
		return "", false
	}
	return key, true
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
