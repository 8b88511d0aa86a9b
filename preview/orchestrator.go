package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/models"
)

var (
	ErrEmptyFeedback   = errors.New("feedback is required to regenerate")
	ErrInvalidResponse = errors.New("backend returned an unusable preview")
)

// Backend is the part of the API client the orchestrator needs.
type Backend interface {
	GeneratePreview(ctx context.Context, in api.PreviewRequest) (*models.PreviewResponse, error)
	RegenerateWithFeedback(ctx context.Context, sessionID, feedback string) (*models.PreviewResponse, error)
	ConfirmPreview(ctx context.Context, sessionID string) (uint, error)
}

// Orchestrator shapes preview requests, checks what comes back and keeps the
// current preview in the Store so the review step can pick it up without
// another round trip.
type Orchestrator struct {
	backend Backend
	store   Store
	logger  *zap.Logger
}

func NewOrchestrator(backend Backend, store Store, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{backend: backend, store: store, logger: logger}
}

// Generate requests a new preview for a captured submission and stores it
// under key, replacing any earlier preview for that key.
func (o *Orchestrator) Generate(ctx context.Context, key string, sub capture.Submission) (*models.PreviewResponse, error) {
	maxCards := sub.MaxCards
	if maxCards <= 0 {
		maxCards = capture.DefaultMaxCards
	}

	p, err := o.backend.GeneratePreview(ctx, api.PreviewRequest{
		Prompt:   sub.Prompt,
		Image:    sub.Image,
		Audio:    sub.Audio,
		MaxCards: maxCards,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPreview(p, maxCards); err != nil {
		return nil, err
	}
	if err := o.store.Put(ctx, key, p); err != nil {
		return nil, err
	}

	o.logger.Info("Generate: preview created",
		zap.String("previewSession", p.SessionID),
		zap.String("type", string(sub.GenerationType())),
		zap.Int("cards", len(p.Cards)))
	return p, nil
}

// Load returns the stored preview for key, or ErrNoPreview.
func (o *Orchestrator) Load(ctx context.Context, key string) (*models.PreviewResponse, error) {
	return o.store.Get(ctx, key)
}

// Regenerate replaces the stored preview's cards using feedback. The
// session id must survive the round trip; if it does not, the stored
// preview is kept as it was.
func (o *Orchestrator) Regenerate(ctx context.Context, key, feedback string) (*models.PreviewResponse, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, ErrEmptyFeedback
	}

	current, err := o.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	p, err := o.backend.RegenerateWithFeedback(ctx, current.SessionID, feedback)
	if err != nil {
		return nil, err
	}
	if err := checkPreview(p, 0); err != nil {
		return nil, err
	}
	if p.SessionID != current.SessionID {
		return nil, fmt.Errorf("%w: session changed from %q to %q", ErrInvalidResponse, current.SessionID, p.SessionID)
	}
	// Another tab may have generated a newer preview while this one was
	// being regenerated; that one wins.
	if err := o.store.Replace(ctx, key, current.SessionID, p); err != nil {
		return nil, err
	}

	o.logger.Info("Regenerate: preview replaced",
		zap.String("previewSession", p.SessionID),
		zap.Int("cards", len(p.Cards)))
	return p, nil
}

// Confirm turns the stored preview into a deck and forgets the preview. A
// failed confirm leaves the preview in place so the user can try again.
func (o *Orchestrator) Confirm(ctx context.Context, key string) (uint, error) {
	current, err := o.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	deckID, err := o.backend.ConfirmPreview(ctx, current.SessionID)
	if err != nil {
		return 0, err
	}

	// The session id is spent once confirmed. A newer preview stored in the
	// meantime is left alone.
	switch err := o.store.ClearIf(ctx, key, current.SessionID); {
	case errors.Is(err, ErrPreviewChanged):
		o.logger.Info("Confirm: keeping newer preview",
			zap.String("confirmedSession", current.SessionID))
	case err != nil:
		o.logger.Error("Confirm: failed to clear confirmed preview",
			zap.String("previewSession", current.SessionID),
			zap.Error(err))
	}

	o.logger.Info("Confirm: deck created",
		zap.String("previewSession", current.SessionID),
		zap.Uint("deckID", deckID))
	return deckID, nil
}

// Discard drops the stored preview without confirming it.
func (o *Orchestrator) Discard(ctx context.Context, key string) error {
	return o.store.Clear(ctx, key)
}

func checkPreview(p *models.PreviewResponse, maxCards int) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	case p.SessionID == "":
		return fmt.Errorf("%w: missing session id", ErrInvalidResponse)
	case len(p.Cards) == 0:
		return fmt.Errorf("%w: no cards", ErrInvalidResponse)
	case maxCards > 0 && len(p.Cards) > maxCards:
		return fmt.Errorf("%w: %d cards exceeds the limit of %d", ErrInvalidResponse, len(p.Cards), maxCards)
	}
	return nil
}
