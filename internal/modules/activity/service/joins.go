package service

import (
	"github.com/reshetovitsme/community-analytics/internal/modules/activity/domain"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/samber/lo"
)

// JoinDetector picks recent joins through allowed paths out of a chat history.
type JoinDetector struct {
	window   domain.Window
	subtypes map[chatDomain.JoinSubtype]struct{}
}

// NewJoinDetector creates a detector for the join-recency window and allowed join subtypes
func NewJoinDetector(window domain.Window, subtypes []chatDomain.JoinSubtype) *JoinDetector {
	return &JoinDetector{
		window:   window,
		subtypes: lo.Keyify(subtypes),
	}
}

// Detect returns one join event per joining user, in history order.
func (d *JoinDetector) Detect(history []*chatDomain.Message) []domain.JoinEvent {
	var events []domain.JoinEvent
	for _, msg := range history {
		if !msg.IsGroupNotification() {
			continue
		}
		subtype, err := chatDomain.ParseJoinSubtype(msg.Subtype)
		if err != nil || !IsCountable(subtype, d.subtypes) {
			continue
		}
		if !IsRecent(msg.Timestamp, d.window) {
			continue
		}
		for _, subject := range msg.Subjects {
			events = append(events, domain.JoinEvent{
				Subject:   subject,
				ChatID:    msg.ChatID,
				MessageID: msg.ID,
				Timestamp: msg.Timestamp,
				Subtype:   subtype,
			})
		}
	}
	return events
}
