package testutil

import (
	"context"
	"sync"

	"github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/samber/oops"
)

// FakeRepository implements the chat repository in memory and records calls.
type FakeRepository struct {
	mu sync.Mutex

	Operator  string
	Chats     []*domain.Chat
	Messages  map[string][]*domain.Message
	Infos     map[string]*domain.MessageInfo
	FetchErrs map[string]error
	InfoErrs  map[string]error

	InfoCalls   []string
	FetchCalls  []string
	RemoveCalls []RemoveCall
}

type RemoveCall struct {
	ChatID string
	IDs    []string
}

func NewFakeRepository(operator string) *FakeRepository {
	return &FakeRepository{
		Operator:  operator,
		Messages:  make(map[string][]*domain.Message),
		Infos:     make(map[string]*domain.MessageInfo),
		FetchErrs: make(map[string]error),
		InfoErrs:  make(map[string]error),
	}
}

func (f *FakeRepository) OperatorID(_ context.Context) (string, error) {
	return f.Operator, nil
}

func (f *FakeRepository) GetChats(ctx context.Context) ([]*domain.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Chat(nil), f.Chats...), nil
}

func (f *FakeRepository) FetchMessages(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCalls = append(f.FetchCalls, chatID)
	if err := f.FetchErrs[chatID]; err != nil {
		return nil, err
	}
	msgs := f.Messages[chatID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]*domain.Message(nil), msgs...), nil
}

func (f *FakeRepository) GetMessageInfo(ctx context.Context, chatID, messageID string) (*domain.MessageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InfoCalls = append(f.InfoCalls, messageID)
	if err := f.InfoErrs[messageID]; err != nil {
		return nil, err
	}
	if info, ok := f.Infos[messageID]; ok {
		return info, nil
	}
	return &domain.MessageInfo{}, nil
}

func (f *FakeRepository) RemoveParticipants(ctx context.Context, chatID string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Chats {
		if c.ID == chatID {
			f.RemoveCalls = append(f.RemoveCalls, RemoveCall{ChatID: chatID, IDs: append([]string(nil), ids...)})
			return nil
		}
	}
	return oops.With("chat_id", chatID).New("chat not found")
}

// Group builds a member group of the community with plain (non-admin) participants.
func Group(id, name, communityID string, members ...string) *domain.Chat {
	chat := &domain.Chat{ID: id, Name: name, IsGroup: true, ParentID: communityID}
	for _, m := range members {
		chat.Participants = append(chat.Participants, &domain.ChatParticipant{ID: m, Name: "name-" + m})
	}
	return chat
}

// Community builds the parent community chat.
func Community(id, name string, admins ...string) *domain.Chat {
	chat := &domain.Chat{ID: id, Name: name, IsGroup: true, IsCommunity: true}
	for _, a := range admins {
		chat.Participants = append(chat.Participants, &domain.ChatParticipant{ID: a, IsAdmin: true})
	}
	return chat
}
