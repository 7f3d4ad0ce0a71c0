package domain

import (
	"time"

	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
)

// Source tells what produced an activity point.
type Source int

const (
	SourceMessage Source = iota
	SourceJoin
)

func (s Source) String() string {
	if s == SourceJoin {
		return "join"
	}
	return "message"
}

// Point is one unit of activity attributed to a user.
type Point struct {
	UserID    string
	ChatID    string
	ChatName  string
	MessageID string
	Timestamp time.Time
	Source    Source
	Kind      chatDomain.ContentKind
	Preview   string
}

// JoinEvent is a user joining a group through an allowed path.
type JoinEvent struct {
	Subject   string
	ChatID    string
	MessageID string
	Timestamp time.Time
	Subtype   chatDomain.JoinSubtype
}

// Point converts the join into an activity point of its subject.
func (j JoinEvent) Point(chatName string) Point {
	return Point{
		UserID:    j.Subject,
		ChatID:    j.ChatID,
		ChatName:  chatName,
		MessageID: j.MessageID,
		Timestamp: j.Timestamp,
		Source:    SourceJoin,
		Kind:      chatDomain.ContentKindGp2,
	}
}

// Window is a recency cutoff. The zero Window admits everything.
type Window struct {
	Cutoff time.Time
}

// NewWindow returns the window of the last days days before now.
// A non-positive days disables the cutoff.
func NewWindow(now time.Time, days int) Window {
	if days <= 0 {
		return Window{}
	}
	return Window{Cutoff: now.AddDate(0, 0, -days)}
}

// Unbounded reports whether the window has no cutoff.
func (w Window) Unbounded() bool {
	return w.Cutoff.IsZero()
}
