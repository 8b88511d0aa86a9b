package models

import "time"

type GenerationType string

const (
	GenerationText  GenerationType = "text"
	GenerationImage GenerationType = "image"
	GenerationAudio GenerationType = "audio"
)

// CardPreview is a provisional AI-generated card. It is not a Card until the
// preview session it belongs to is confirmed.
type CardPreview struct {
	ID              uint           `json:"id"`
	UserID          uint           `json:"userId"`
	SessionID       string         `json:"sessionId"`
	DeckTitle       string         `json:"deckTitle"`
	DeckDescription string         `json:"deckDescription"`
	Front           string         `json:"front"`
	Back            string         `json:"back"`
	GenerationType  GenerationType `json:"generationType"`
	OriginalPrompt  string         `json:"originalPrompt"`
	ExpiresAt       time.Time      `json:"expiresAt"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// PreviewResponse is the provisional card set for one preview session. The
// SessionID is the key the backend uses to find the same draft again.
type PreviewResponse struct {
	SessionID       string        `json:"sessionId"`
	DeckTitle       string        `json:"deckTitle"`
	DeckDescription string        `json:"deckDescription"`
	Cards           []CardPreview `json:"cards"`
	ExpiresAt       time.Time     `json:"expiresAt"`
}

type RegenerateInput struct {
	SessionID string `json:"sessionId"`
	Feedback  string `json:"feedback"`
}

type ConfirmPreviewInput struct {
	SessionID string `json:"sessionId"`
}
