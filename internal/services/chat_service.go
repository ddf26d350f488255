// Package services – ChatService
//
// This file implements ChatService, which owns a user's append-only chat
// log. Every user message is answered synchronously with a fixed assistant
// reply persisted in the same transaction; there is no generation step.
package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"
	"github.com/tbourn/trainflow-backend/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CannedReply is the assistant's answer to every message.
const CannedReply = "I logged your update. Want me to adjust your plan or schedule a new session?"

// DefaultMaxMessageRunes caps user message length.
const DefaultMaxMessageRunes = 2000

// chatTick spaces consecutive messages; Postgres keeps microseconds.
const chatTick = time.Microsecond

// ChatService appends to and pages through chat logs.
type ChatService struct {
	DB *gorm.DB

	// MaxMessageRunes caps content length; <= 0 disables the check.
	MaxMessageRunes int
	// Reply is the assistant text; empty falls back to CannedReply.
	Reply string
	// Now is the clock used for message timestamps.
	Now func() time.Time
}

// NewChatService constructs a ChatService with default limits.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{
		DB:              db,
		MaxMessageRunes: DefaultMaxMessageRunes,
		Reply:           CannedReply,
		Now:             time.Now,
	}
}

// Send trims and validates content, then appends the user message followed
// by the assistant reply. Both rows are written atomically and returned in
// log order; the reply is timestamped strictly after the user message.
func (s *ChatService) Send(ctx context.Context, userID, content string) ([]domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Send", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(content) > s.MaxMessageRunes {
		return nil, ErrMessageTooLong
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	reply := s.Reply
	if reply == "" {
		reply = CannedReply
	}

	var out []domain.ChatMessage
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Each message sorts strictly after the user's previous one, so a
		// reply always directly follows its own message.
		at := now().UTC().Truncate(chatTick)
		last, err := repo.ChatVersion(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !last.Latest.IsZero() && !at.After(last.Latest) {
			at = last.Latest.UTC().Add(chatTick)
		}
		u, err := repo.CreateChatMessage(ctx, tx, userID, domain.RoleUser, content, at)
		if err != nil {
			return err
		}
		a, err := repo.CreateChatMessage(ctx, tx, userID, domain.RoleAssistant, reply, at.Add(chatTick))
		if err != nil {
			return err
		}
		out = []domain.ChatMessage{*u, *a}
		return nil
	})
	if err != nil {
		return nil, err
	}

	chatMessages.WithLabelValues(domain.RoleUser).Inc()
	chatMessages.WithLabelValues(domain.RoleAssistant).Inc()
	return out, nil
}

// ListPage returns a page of userID's log in ascending order and the total
// number of messages.
func (s *ChatService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := utils.Offset(page, pageSize)

	total, err := repo.CountChatMessages(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ChatMessage{}, 0, nil
	}

	items, err := repo.ListChatMessagesPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Get returns the listed messages owned by userID in log order. Used to
// replay an idempotent Send.
func (s *ChatService) Get(ctx context.Context, userID string, ids []string) ([]domain.ChatMessage, error) {
	return repo.GetChatMessages(ctx, s.DB, userID, ids)
}
