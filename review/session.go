package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/andrewpaige1/flashcards-web/models"
	"github.com/andrewpaige1/flashcards-web/preview"
)

// CaptureEntryPath is where a review with nothing to review sends the user.
const CaptureEntryPath = "/app/cards/create/ai"

var (
	ErrInFlight = errors.New("another request is still in progress")
	ErrNotReady = errors.New("preview is not ready")
)

// RedirectError asks the caller to navigate instead of rendering.
type RedirectError struct {
	To string
}

func (e *RedirectError) Error() string { return "redirect to " + e.To }

func DeckPath(id uint) string {
	return fmt.Sprintf("/app/decks/%d", id)
}

// Flow is the preview orchestration a review drives.
type Flow interface {
	Load(ctx context.Context, key string) (*models.PreviewResponse, error)
	Regenerate(ctx context.Context, key, feedback string) (*models.PreviewResponse, error)
	Confirm(ctx context.Context, key string) (uint, error)
}

// Session is the review of one browsing session's preview. It is safe for
// concurrent use; network calls run without the lock held and the request
// status keeps them from overlapping.
type Session struct {
	mu   sync.Mutex
	flow Flow
	key  string

	state    State
	preview  *models.PreviewResponse
	index    int
	flipped  bool
	feedback string
	lastErr  error
	deckID   uint

	regenerate request
	confirm    request
}

func NewSession(flow Flow, key string) *Session {
	return &Session{flow: flow, key: key, state: StateLoading}
}

// Load reads the stored preview. With nothing stored it returns a
// *RedirectError to the capture page.
func (s *Session) Load(ctx context.Context) error {
	p, err := s.flow.Load(ctx, s.key)
	if errors.Is(err, preview.ErrNoPreview) {
		return &RedirectError{To: CaptureEntryPath}
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = p
	s.index = 0
	s.flipped = false
	s.state = StateReady
	return nil
}

// Refresh re-reads the stored preview for a session that is already showing
// one. Another process or tab may have replaced or removed it since Load. A
// changed preview resets the position; a removed one returns a
// *RedirectError and sends the session back to loading. Sessions with a
// request in flight are left alone.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.refreshable() {
		return nil
	}

	p, err := s.flow.Load(ctx, s.key)
	if err != nil && !errors.Is(err, preview.ErrNoPreview) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refreshableLocked() {
		return nil
	}
	if p == nil {
		s.preview = nil
		s.index = 0
		s.flipped = false
		s.lastErr = nil
		s.state = StateLoading
		return &RedirectError{To: CaptureEntryPath}
	}
	if samePreview(s.preview, p) {
		return nil
	}
	s.preview = p
	s.index = 0
	s.flipped = false
	return nil
}

func (s *Session) refreshable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshableLocked()
}

func (s *Session) refreshableLocked() bool {
	if s.regenerate.pending() || s.confirm.pending() {
		return false
	}
	return s.state == StateReady || s.state == StateError
}

func samePreview(a, b *models.PreviewResponse) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.SessionID == b.SessionID && slices.EqualFunc(a.Cards, b.Cards, func(x, y models.CardPreview) bool {
		return x.Front == y.Front && x.Back == y.Back && x.GenerationType == y.GenerationType
	})
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) browsable() bool {
	return s.preview != nil && s.state != StateLoading && s.state != StateDone
}

// Next moves to the next card. It reports false at the last card.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.browsable() || s.index >= len(s.preview.Cards)-1 {
		return false
	}
	s.index++
	s.flipped = false
	return true
}

// Prev moves to the previous card. It reports false at the first card.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.browsable() || s.index <= 0 {
		return false
	}
	s.index--
	s.flipped = false
	return true
}

func (s *Session) Flip() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.browsable() {
		return false
	}
	s.flipped = !s.flipped
	return true
}

func (s *Session) SetFeedback(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = text
}

// Regenerate asks for a new card set using the current feedback. Blank
// feedback is refused before anything is sent.
func (s *Session) Regenerate(ctx context.Context) error {
	s.mu.Lock()
	if s.regenerate.pending() || s.confirm.pending() {
		s.mu.Unlock()
		return ErrInFlight
	}
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	feedback := strings.TrimSpace(s.feedback)
	if feedback == "" {
		s.mu.Unlock()
		return preview.ErrEmptyFeedback
	}
	s.state = StateRegenerating
	s.regenerate.begin()
	s.mu.Unlock()

	p, err := s.flow.Regenerate(ctx, s.key, feedback)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate.finish(err)
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}
	s.preview = p
	s.index = 0
	s.flipped = false
	s.feedback = ""
	s.state = StateReady
	return nil
}

// Confirm finalizes the preview into a deck and returns its id.
func (s *Session) Confirm(ctx context.Context) (uint, error) {
	s.mu.Lock()
	if s.regenerate.pending() || s.confirm.pending() {
		s.mu.Unlock()
		return 0, ErrInFlight
	}
	if s.state != StateReady {
		s.mu.Unlock()
		return 0, ErrNotReady
	}
	s.state = StateConfirming
	s.confirm.begin()
	s.mu.Unlock()

	deckID, err := s.flow.Confirm(ctx, s.key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirm.finish(err)
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return 0, err
	}
	s.deckID = deckID
	s.preview = nil
	s.state = StateDone
	return deckID, nil
}

// Acknowledge dismisses an error and returns to ready.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateError {
		return
	}
	s.lastErr = nil
	s.state = StateReady
}

// Redirect is the deck page once confirmed, or "".
func (s *Session) Redirect() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDone {
		return ""
	}
	return DeckPath(s.deckID)
}
