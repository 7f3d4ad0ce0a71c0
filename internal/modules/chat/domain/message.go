package domain

import "time"

// Message is one entry of a chat's history. Group notifications (joins,
// leaves, promotions) are messages of kind gp2 with no author.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chat_id"`
	Author    string      `json:"author,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      ContentKind `json:"kind"`
	Subtype   string      `json:"subtype,omitempty"`
	FromMe    bool        `json:"from_me"`
	Body      string      `json:"body,omitempty"`
	Subjects  []string    `json:"subjects,omitempty"`
}

// IsSystem reports whether the message has no identifiable author.
func (m *Message) IsSystem() bool {
	return m.Author == ""
}

// IsGroupNotification reports whether the message is a membership notification.
func (m *Message) IsGroupNotification() bool {
	return m.Kind == ContentKindGp2
}

// Preview returns the body truncated to maxLen characters.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Body)
	if len(runes) <= maxLen {
		return m.Body
	}
	return string(runes[:maxLen]) + "..."
}

// MessageInfo is the delivery metadata of an operator-authored message.
type MessageInfo struct {
	Read      []string `json:"read"`
	Delivered []string `json:"delivered"`
}
