package models

import "gorm.io/gorm"

// PreviewSlot holds the serialized PreviewResponse for one browsing session.
// There is at most one slot per browsing session.
type PreviewSlot struct {
	gorm.Model
	BrowserSessionID string `gorm:"not null;size:64;uniqueIndex"`
	PreviewSessionID string `gorm:"size:100;index"`
	Payload          string `gorm:"type:text;not null"`
}
