package preview

import (
	"context"
	"errors"
	"sync"

	"github.com/andrewpaige1/flashcards-web/models"
)

var (
	// ErrNoPreview means no provisional preview is stored for the key.
	ErrNoPreview = errors.New("no preview in progress")

	// ErrPreviewChanged means the slot no longer holds the preview session
	// a conditional write expected, e.g. another tab generated a new one.
	ErrPreviewChanged = errors.New("preview was replaced by a newer one")
)

// Store holds at most one provisional preview per browsing session key.
// Put replaces whatever was stored before. Replace and ClearIf only act
// while the slot still holds the preview session sessionID and return
// ErrPreviewChanged otherwise.
type Store interface {
	Put(ctx context.Context, key string, p *models.PreviewResponse) error
	Get(ctx context.Context, key string) (*models.PreviewResponse, error)
	Clear(ctx context.Context, key string) error
	Replace(ctx context.Context, key, sessionID string, p *models.PreviewResponse) error
	ClearIf(ctx context.Context, key, sessionID string) error
}

// MemoryStore is a Store for tests and single-process use.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]models.PreviewResponse
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]models.PreviewResponse)}
}

func (s *MemoryStore) Put(_ context.Context, key string, p *models.PreviewResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = clonePreview(p)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.PreviewResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.slots[key]
	if !ok {
		return nil, ErrNoPreview
	}
	out := clonePreview(&p)
	return &out, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, key, sessionID string, p *models.PreviewResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.slots[key]
	if !ok || current.SessionID != sessionID {
		return ErrPreviewChanged
	}
	s.slots[key] = clonePreview(p)
	return nil
}

func (s *MemoryStore) ClearIf(_ context.Context, key, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.slots[key]
	if !ok || current.SessionID != sessionID {
		return ErrPreviewChanged
	}
	delete(s.slots, key)
	return nil
}

func clonePreview(p *models.PreviewResponse) models.PreviewResponse {
	out := *p
	out.Cards = append([]models.CardPreview(nil), p.Cards...)
	return out
}
