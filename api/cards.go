package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andrewpaige1/flashcards-web/models"
)

func cardPath(id uint) string {
	return fmt.Sprintf("/api/cards/%d", id)
}

// ListCards returns the cards of a deck. An empty body is an empty deck.
func (c *Client) ListCards(ctx context.Context, deckID uint) ([]models.Card, error) {
	cards := []models.Card{}
	if err := c.doJSON(ctx, "list cards", "failed to fetch cards for deck", http.MethodGet, deckPath(deckID)+"/cards", nil, &cards, true); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}

func (c *Client) CreateCard(ctx context.Context, deckID uint, in models.CardInput) (*models.Card, error) {
	var card models.Card
	if err := c.doJSON(ctx, "create card", "failed to create card", http.MethodPost, deckPath(deckID)+"/cards", in, &card, false); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, cardID uint, in models.CardInput) (*models.Card, error) {
	var card models.Card
	if err := c.doJSON(ctx, "update card", "failed to update card", http.MethodPut, cardPath(cardID), in, &card, false); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteCard(ctx context.Context, cardID uint) error {
	return c.doJSON(ctx, "delete card", "failed to delete card", http.MethodDelete, cardPath(cardID), nil, nil, true)
}
