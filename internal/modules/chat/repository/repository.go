package repository

import (
	"context"

	"github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
)

// Repository is the messaging platform as seen by the analytics engine.
// Implementations may block on network round-trips; identifiers are returned
// as the platform reports them.
type Repository interface {
	OperatorID(ctx context.Context) (string, error)
	GetChats(ctx context.Context) ([]*domain.Chat, error)
	// FetchMessages returns up to limit most recent messages, oldest first. A limit of 0 means the whole history.
	FetchMessages(ctx context.Context, chatID string, limit int) ([]*domain.Message, error)
	// GetMessageInfo returns delivery metadata; only available for messages the operator sent.
	GetMessageInfo(ctx context.Context, chatID, messageID string) (*domain.MessageInfo, error)
	// RemoveParticipants is irreversible. Callers must refuse admins and the operator beforehand.
	RemoveParticipants(ctx context.Context, chatID string, ids []string) error
}

// Invalidator is implemented by repositories that keep platform data between calls.
type Invalidator interface {
	Invalidate()
}
