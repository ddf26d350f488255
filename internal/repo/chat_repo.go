package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// CreateChatMessage appends a message to userID's log at the given time.
func CreateChatMessage(ctx context.Context, db *gorm.DB, userID, role, content string, at time.Time) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: at.UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// CountChatMessages returns the size of userID's log.
func CountChatMessages(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListChatMessagesPage returns a slice of userID's log ordered (CreatedAt ASC, ID ASC).
func ListChatMessagesPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetChatMessages fetches the given messages owned by userID in log order.
func GetChatMessages(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
