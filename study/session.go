package study

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andrewpaige1/flashcards-web/models"
)

var (
	ErrInFlight    = errors.New("an answer is still being recorded")
	ErrNotStudying = errors.New("study session is not in progress")
	ErrNotFlipped  = errors.New("flip the card before answering")
)

// Backend is the part of the API client a study session needs.
type Backend interface {
	GetDeck(ctx context.Context, id uint) (*models.Deck, error)
	ListCards(ctx context.Context, deckID uint) ([]models.Card, error)
	RecordAnswer(ctx context.Context, deckID, cardID uint, in models.RecordAnswerInput) (*models.AnswerRecord, error)
}

// Session walks through a deck's cards once, recording an answer for each.
// It is safe for concurrent use; RecordAnswer runs without the lock held.
type Session struct {
	mu      sync.Mutex
	backend Backend
	deckID  uint
	logger  *zap.Logger
	now     func() time.Time

	state     State
	deck      *models.Deck
	cards     []models.Card
	index     int
	flipped   bool
	shownAt   time.Time
	results   Results
	answering bool
}

func NewSession(backend Backend, deckID uint, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{backend: backend, deckID: deckID, logger: logger, now: time.Now, state: StateLoading}
}

func (s *Session) DeckID() uint { return s.deckID }

// Load fetches the deck and its cards together. A deck without cards puts
// the session in StateEmpty. On error the session stays loading.
func (s *Session) Load(ctx context.Context) error {
	var (
		deck  *models.Deck
		cards []models.Card
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deck, err = s.backend.GetDeck(gctx, s.deckID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.backend.ListCards(gctx, s.deckID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deck = deck
	s.cards = cards
	s.reset()
	if len(cards) == 0 {
		s.state = StateEmpty
	}
	return nil
}

// reset starts a fresh pass over the loaded cards. Callers hold mu.
func (s *Session) reset() {
	s.index = 0
	s.flipped = false
	s.results = Results{}
	s.shownAt = s.now()
	s.state = StateStudying
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Flip() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStudying || s.answering {
		return false
	}
	s.flipped = !s.flipped
	return true
}

// Answer records the verdict for the current card and moves on, completing
// the session after the last card. A failed save is logged and counted in
// Results.Unrecorded but does not stop the session.
func (s *Session) Answer(ctx context.Context, a Answer) error {
	if _, err := ParseAnswer(string(a)); err != nil {
		return err
	}

	s.mu.Lock()
	switch {
	case s.answering:
		s.mu.Unlock()
		return ErrInFlight
	case s.state != StateStudying:
		s.mu.Unlock()
		return ErrNotStudying
	case !s.flipped:
		s.mu.Unlock()
		return ErrNotFlipped
	}
	s.answering = true
	card := s.cards[s.index]
	in := models.RecordAnswerInput{
		IsCorrect: a == AnswerCorrect,
		StudyTime: int(s.now().Sub(s.shownAt).Seconds()),
	}
	s.mu.Unlock()

	_, err := s.backend.RecordAnswer(ctx, s.deckID, card.ID, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.answering = false
	if err != nil {
		s.logger.Warn("Answer: failed to record",
			zap.Uint("deckID", s.deckID),
			zap.Uint("cardID", card.ID),
			zap.Error(err))
		s.results.Unrecorded++
	}
	s.results.add(a)

	if s.index < len(s.cards)-1 {
		s.index++
		s.flipped = false
		s.shownAt = s.now()
		return nil
	}
	s.state = StateComplete
	s.logger.Info("Answer: study session complete",
		zap.Uint("deckID", s.deckID),
		zap.Int("correct", s.results.Correct),
		zap.Int("incorrect", s.results.Incorrect),
		zap.Int("dontKnow", s.results.DontKnow))
	return nil
}

// Restart studies the same cards again from the first one.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.answering:
		return ErrInFlight
	case s.state != StateStudying && s.state != StateComplete:
		return ErrNotStudying
	}
	s.reset()
	return nil
}
