package service

import (
	"context"

	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
)

// InfoFetcher looks up delivery metadata of an operator message.
type InfoFetcher interface {
	GetMessageInfo(ctx context.Context, chatID, messageID string) (*chatDomain.MessageInfo, error)
}

// ReceiptTracker accumulates who has read and who has received operator messages.
// It is not safe for concurrent use; each chat scan owns its tracker and
// trackers are merged afterwards.
type ReceiptTracker struct {
	read      map[string]struct{}
	delivered map[string]struct{}
	checked   int
}

// NewReceiptTracker creates an empty tracker
func NewReceiptTracker() *ReceiptTracker {
	return &ReceiptTracker{
		read:      make(map[string]struct{}),
		delivered: make(map[string]struct{}),
	}
}

// Track fetches the receipts of msg when the operator sent it. Messages by
// anyone else are ignored: the platform has no receipts for them.
func (t *ReceiptTracker) Track(ctx context.Context, fetcher InfoFetcher, msg *chatDomain.Message) (bool, error) {
	if !msg.FromMe {
		return false, nil
	}

	info, err := fetcher.GetMessageInfo(ctx, msg.ChatID, msg.ID)
	if err != nil {
		return false, err
	}
	t.Add(info)
	return true, nil
}

// Add unions the receipts of one message into the tracker.
func (t *ReceiptTracker) Add(info *chatDomain.MessageInfo) {
	for _, id := range info.Read {
		t.read[id] = struct{}{}
	}
	for _, id := range info.Delivered {
		t.delivered[id] = struct{}{}
	}
	t.checked++
}

// Merge unions another tracker into t.
func (t *ReceiptTracker) Merge(other *ReceiptTracker) {
	for id := range other.read {
		t.read[id] = struct{}{}
	}
	for id := range other.delivered {
		t.delivered[id] = struct{}{}
	}
	t.checked += other.checked
}

// HasRead reports whether the user read at least one operator message.
func (t *ReceiptTracker) HasRead(id string) bool {
	_, ok := t.read[id]
	return ok
}

// HasReceived reports whether at least one operator message was delivered to the user.
func (t *ReceiptTracker) HasReceived(id string) bool {
	_, ok := t.delivered[id]
	return ok
}

// Checked returns the number of operator messages whose receipts were added.
func (t *ReceiptTracker) Checked() int {
	return t.checked
}
