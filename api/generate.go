package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrewpaige1/flashcards-web/models"
)

// PreviewRequest is the input to GeneratePreview. Exactly one of Prompt,
// Image or Audio must be set.
type PreviewRequest struct {
	Prompt   string
	Image    *models.Media
	Audio    *models.Media
	MaxCards int
}

func (r PreviewRequest) inputs() int {
	n := 0
	if strings.TrimSpace(r.Prompt) != "" {
		n++
	}
	if r.Image != nil {
		n++
	}
	if r.Audio != nil {
		n++
	}
	return n
}

// TranscribeAudio sends an audio file to the transcription endpoint and
// returns the recognized text.
func (c *Client) TranscribeAudio(ctx context.Context, audio *models.Media) (string, error) {
	const op = "transcribe audio"
	if audio == nil || len(audio.Data) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrNoInput)
	}

	var out struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	err := c.doMultipart(ctx, op, "audio transcription failed", "/api/audio/transcribe",
		nil, []formFile{{field: "audio", media: audio}}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.Text, nil
}

// GeneratePreview asks the backend for a provisional card set.
func (c *Client) GeneratePreview(ctx context.Context, in PreviewRequest) (*models.PreviewResponse, error) {
	const op = "generate preview"
	const fallback = "preview generation failed"

	switch in.inputs() {
	case 0:
		return nil, fmt.Errorf("%s: %w", op, ErrNoInput)
	case 1:
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrAmbiguousInput)
	}

	fields := map[string]string{"maxCards": strconv.Itoa(in.MaxCards)}
	var files []formFile
	switch {
	case in.Image != nil:
		files = append(files, formFile{field: "image", media: in.Image})
	case in.Audio != nil:
		files = append(files, formFile{field: "audio", media: in.Audio})
	default:
		fields["prompt"] = in.Prompt
	}

	var env envelope[*models.PreviewResponse]
	if err := c.doMultipart(ctx, op, fallback, "/api/cards/ai_preview", fields, files, &env); err != nil {
		return nil, err
	}
	return previewFrom(op, fallback, &env)
}

// RegenerateWithFeedback replaces the cards of an existing preview session.
func (c *Client) RegenerateWithFeedback(ctx context.Context, sessionID, feedback string) (*models.PreviewResponse, error) {
	const op = "regenerate preview"
	const fallback = "regeneration failed"

	in := models.RegenerateInput{SessionID: sessionID, Feedback: feedback}
	var env envelope[*models.PreviewResponse]
	if err := c.doJSON(ctx, op, fallback, http.MethodPost, "/api/cards/ai_regenerate", in, &env, false); err != nil {
		return nil, err
	}
	return previewFrom(op, fallback, &env)
}

func previewFrom(op, fallback string, env *envelope[*models.PreviewResponse]) (*models.PreviewResponse, error) {
	preview, err := unwrap(op, fallback, env)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		return nil, fmt.Errorf("%s: %w: missing data", op, ErrMalformedResponse)
	}
	return preview, nil
}

type deckEnvelope struct {
	Deck *struct {
		ID uint `json:"id"`
	} `json:"deck"`
}

func deckIDFrom(op string, data deckEnvelope) (uint, error) {
	if data.Deck == nil || data.Deck.ID == 0 {
		return 0, fmt.Errorf("%s: %w: missing deck id", op, ErrMalformedResponse)
	}
	return data.Deck.ID, nil
}

// ConfirmPreview turns a preview session into a persisted deck and returns
// its id. Calling it twice for the same session is not supported.
func (c *Client) ConfirmPreview(ctx context.Context, sessionID string) (uint, error) {
	const op = "confirm preview"
	const fallback = "preview confirmation failed"

	in := models.ConfirmPreviewInput{SessionID: sessionID}
	var env envelope[deckEnvelope]
	if err := c.doJSON(ctx, op, fallback, http.MethodPost, "/api/cards/ai_confirm", in, &env, false); err != nil {
		return 0, err
	}
	data, err := unwrap(op, fallback, &env)
	if err != nil {
		return 0, err
	}
	return deckIDFrom(op, data)
}

// GenerateDeck creates a new deck straight from a prompt or an image,
// skipping the preview step.
func (c *Client) GenerateDeck(ctx context.Context, prompt string, image *models.Media, maxCards int) (uint, error) {
	const op = "generate deck"
	const fallback = "card generation failed"

	fields := map[string]string{
		"deckOption": "new",
		"deckId":     "",
		"maxCards":   strconv.Itoa(maxCards),
	}
	var files []formFile
	switch {
	case image != nil:
		files = append(files, formFile{field: "image", media: image})
	case strings.TrimSpace(prompt) != "":
		fields["prompt"] = prompt
	default:
		return 0, fmt.Errorf("%s: %w", op, ErrNoInput)
	}

	var env envelope[deckEnvelope]
	if err := c.doMultipart(ctx, op, fallback, "/api/cards/ai_generate", fields, files, &env); err != nil {
		return 0, err
	}
	data, err := unwrap(op, fallback, &env)
	if err != nil {
		return 0, err
	}
	return deckIDFrom(op, data)
}
