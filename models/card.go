package models

import "time"

type CardStatus string

const (
	CardStatusNew      CardStatus = "new"
	CardStatusLearning CardStatus = "learning"
	CardStatusMastered CardStatus = "mastered"
)

// Card is a persisted front/back study unit. Status and ReviewCount are
// owned by the backend's study recording and are only ever read here.
type Card struct {
	ID             uint       `json:"id"`
	DeckID         uint       `json:"deckId"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Hint           string     `json:"hint,omitempty"`
	Status         CardStatus `json:"status"`
	ReviewCount    int        `json:"reviewCount"`
	LastReview     *time.Time `json:"lastReview"`
	GenerationType string     `json:"generationType,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CardInput struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// RecordAnswerInput is one study outcome for a card.
type RecordAnswerInput struct {
	IsCorrect bool `json:"isCorrect"`
	StudyTime int  `json:"studyTime"` // seconds
}

type AnswerRecord struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"userId"`
	DeckID     uint      `json:"deckId"`
	CardID     uint      `json:"cardId"`
	IsCorrect  bool      `json:"isCorrect"`
	StudyTime  int       `json:"studyTime"`
	AnswerDate time.Time `json:"answerDate"`
}
