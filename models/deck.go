package models

import "time"

// Deck is a persisted collection of cards owned by a user. It only exists on
// the backend; this service never creates one except through confirmation or
// an explicit create call.
type Deck struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      uint      `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeckInput is the body for creating or editing a deck.
type DeckInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type DeckStats struct {
	DeckID          uint       `json:"deckId"`
	TotalCards      int        `json:"totalCards"`
	MasteredCards   int        `json:"masteredCards"`
	LearningCards   int        `json:"learningCards"`
	NewCards        int        `json:"newCards"`
	AccuracyRate    float64    `json:"accuracyRate"`
	StudyStreak     int        `json:"studyStreak"`
	TotalStudyTime  int        `json:"totalStudyTime"` // seconds
	LastStudiedAt   *time.Time `json:"lastStudiedAt"`
	ProgressPercent float64    `json:"progressPercent"`
}
