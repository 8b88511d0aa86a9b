package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andrewpaige1/flashcards-web/models"
)

func deckPath(id uint) string {
	return fmt.Sprintf("/api/decks/%d", id)
}

// ListDecks returns the caller's decks. A null or empty body is no decks.
func (c *Client) ListDecks(ctx context.Context) ([]models.Deck, error) {
	decks := []models.Deck{}
	if err := c.doJSON(ctx, "list decks", "failed to fetch decks", http.MethodGet, "/api/decks", nil, &decks, true); err != nil {
		return nil, err
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	return decks, nil
}

func (c *Client) GetDeck(ctx context.Context, id uint) (*models.Deck, error) {
	var deck models.Deck
	if err := c.doJSON(ctx, "get deck", "failed to fetch deck", http.MethodGet, deckPath(id), nil, &deck, false); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) CreateDeck(ctx context.Context, in models.DeckInput) (*models.Deck, error) {
	var deck models.Deck
	if err := c.doJSON(ctx, "create deck", "failed to create deck", http.MethodPost, "/api/decks", in, &deck, false); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) UpdateDeck(ctx context.Context, id uint, in models.DeckInput) (*models.Deck, error) {
	var deck models.Deck
	if err := c.doJSON(ctx, "update deck", "failed to update deck", http.MethodPut, deckPath(id), in, &deck, false); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) DeleteDeck(ctx context.Context, id uint) error {
	return c.doJSON(ctx, "delete deck", "failed to delete deck", http.MethodDelete, deckPath(id), nil, nil, true)
}

func (c *Client) GetDeckStats(ctx context.Context, id uint) (*models.DeckStats, error) {
	var stats models.DeckStats
	if err := c.doJSON(ctx, "get deck stats", "failed to fetch deck stats", http.MethodGet, deckPath(id)+"/stats", nil, &stats, false); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecordAnswer records one study outcome for a card.
func (c *Client) RecordAnswer(ctx context.Context, deckID, cardID uint, in models.RecordAnswerInput) (*models.AnswerRecord, error) {
	var record models.AnswerRecord
	path := fmt.Sprintf("%s/cards/%d/answer", deckPath(deckID), cardID)
	if err := c.doJSON(ctx, "record answer", "failed to record answer", http.MethodPost, path, in, &record, false); err != nil {
		return nil, err
	}
	return &record, nil
}
