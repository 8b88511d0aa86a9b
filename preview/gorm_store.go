package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/flashcards-web/models"
)

// GormStore keeps previews in the preview_slots table, one row per browsing
// session. A row whose payload no longer decodes is deleted on read.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{db: db, logger: logger}
}

func (s *GormStore) Put(ctx context.Context, key string, p *models.PreviewResponse) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	slot := models.PreviewSlot{
		BrowserSessionID: key,
		PreviewSessionID: p.SessionID,
		Payload:          string(payload),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "browser_session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preview_session_id", "payload", "updated_at", "deleted_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("store preview: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, key string) (*models.PreviewResponse, error) {
	var slot models.PreviewSlot
	err := s.db.WithContext(ctx).Where("browser_session_id = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPreview
	}
	if err != nil {
		return nil, fmt.Errorf("load preview: %w", err)
	}

	var p models.PreviewResponse
	if err := json.Unmarshal([]byte(slot.Payload), &p); err != nil {
		s.logger.Warn("GormStore: discarding unreadable preview",
			zap.String("browserSession", key),
			zap.Error(err))
		if clearErr := s.Clear(ctx, key); clearErr != nil {
			return nil, clearErr
		}
		return nil, ErrNoPreview
	}
	return &p, nil
}

func (s *GormStore) Clear(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Unscoped().Where("browser_session_id = ?", key).Delete(&models.PreviewSlot{}).Error
	if err != nil {
		return fmt.Errorf("clear preview: %w", err)
	}
	return nil
}

func (s *GormStore) Replace(ctx context.Context, key, sessionID string, p *models.PreviewResponse) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.PreviewSlot{}).
		Where("browser_session_id = ? AND preview_session_id = ?", key, sessionID).
		Updates(map[string]any{
			"preview_session_id": p.SessionID,
			"payload":            string(payload),
		})
	if result.Error != nil {
		return fmt.Errorf("replace preview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPreviewChanged
	}
	return nil
}

func (s *GormStore) ClearIf(ctx context.Context, key, sessionID string) error {
	result := s.db.WithContext(ctx).Unscoped().
		Where("browser_session_id = ? AND preview_session_id = ?", key, sessionID).
		Delete(&models.PreviewSlot{})
	if result.Error != nil {
		return fmt.Errorf("clear preview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPreviewChanged
	}
	return nil
}
