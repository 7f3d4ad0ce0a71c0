package service

import (
	"context"

	"github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/reshetovitsme/community-analytics/internal/modules/chat/repository"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service is the only path from the messaging platform into the engine.
// Every identifier leaving it has been through domain.NormalizeID.
type Service struct {
	repo repository.Repository
}

// New creates a new chat service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Refresh drops whatever the repository keeps between calls so the next
// reads are fresh fetches.
func (s *Service) Refresh() {
	if inv, ok := s.repo.(repository.Invalidator); ok {
		inv.Invalidate()
	}
}

// OperatorID returns the normalized identity of the operator account.
// configured takes precedence over what the platform reports.
func (s *Service) OperatorID(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return domain.NormalizeID(configured), nil
	}
	id, err := s.repo.OperatorID(ctx)
	if err != nil {
		return "", oops.With("context", "failed to resolve operator id").Wrap(err)
	}
	return domain.NormalizeID(id), nil
}

// GetChats retrieves all chats
func (s *Service) GetChats(ctx context.Context) ([]*domain.Chat, error) {
	chats, err := s.repo.GetChats(ctx)
	if err != nil {
		return nil, oops.With("context", "failed to enumerate chats").Wrap(err)
	}

	for _, chat := range chats {
		chat.ParentID = domain.NormalizeID(chat.ParentID)
		for _, p := range chat.Participants {
			p.ID = domain.NormalizeID(p.ID)
		}
		chat.Participants = lo.UniqBy(chat.Participants, func(p *domain.ChatParticipant) string {
			return p.ID
		})
	}
	return chats, nil
}

// GetMessages retrieves up to limit recent messages of a chat
func (s *Service) GetMessages(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	msgs, err := s.repo.FetchMessages(ctx, chatID, limit)
	if err != nil {
		return nil, oops.With("chat_id", chatID, "context", "failed to fetch messages").Wrap(err)
	}

	for _, m := range msgs {
		if m.Author != "" {
			m.Author = domain.NormalizeID(m.Author)
		}
		m.Subjects = domain.NormalizeIDs(m.Subjects)
	}
	return msgs, nil
}

// GetMessageInfo retrieves the read and delivered receipts of an operator message
func (s *Service) GetMessageInfo(ctx context.Context, chatID, messageID string) (*domain.MessageInfo, error) {
	info, err := s.repo.GetMessageInfo(ctx, chatID, messageID)
	if err != nil {
		return nil, oops.With("chat_id", chatID, "message_id", messageID, "context", "failed to fetch message info").Wrap(err)
	}
	return &domain.MessageInfo{
		Read:      domain.NormalizeIDs(info.Read),
		Delivered: domain.NormalizeIDs(info.Delivered),
	}, nil
}

// RemoveParticipants removes participants from a chat. Policy checks happen upstream.
func (s *Service) RemoveParticipants(ctx context.Context, chatID string, ids []string) error {
	if err := s.repo.RemoveParticipants(ctx, chatID, ids); err != nil {
		return oops.With("chat_id", chatID, "count", len(ids), "context", "failed to remove participants").Wrap(err)
	}
	return nil
}
