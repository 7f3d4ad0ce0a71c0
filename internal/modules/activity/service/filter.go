package service

import (
	"time"

	"github.com/reshetovitsme/community-analytics/internal/modules/activity/domain"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/samber/lo"
)

// IsRecent reports whether ts is at or after the window cutoff.
func IsRecent(ts time.Time, w domain.Window) bool {
	return w.Unbounded() || !ts.Before(w.Cutoff)
}

// IsCountable reports whether value is in the allow-set.
func IsCountable[T comparable](value T, allowed map[T]struct{}) bool {
	_, ok := allowed[value]
	return ok
}

// Filter decides which ordinary messages count as activity.
type Filter struct {
	window domain.Window
	kinds  map[chatDomain.ContentKind]struct{}
}

// NewFilter creates a message filter for the given window and allowed content kinds
func NewFilter(window domain.Window, kinds []chatDomain.ContentKind) *Filter {
	return &Filter{
		window: window,
		kinds:  lo.Keyify(kinds),
	}
}

// Counts reports whether msg is an authored, allowed and recent message.
// System messages never count.
func (f *Filter) Counts(msg *chatDomain.Message) bool {
	if msg.IsSystem() {
		return false
	}
	return IsCountable(msg.Kind, f.kinds) && IsRecent(msg.Timestamp, f.window)
}

// Window returns the filter's recency window.
func (f *Filter) Window() domain.Window {
	return f.window
}
