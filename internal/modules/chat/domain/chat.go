package domain

// Chat is a conversation as enumerated by the messaging platform.
type Chat struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	IsGroup      bool               `json:"is_group"`
	IsCommunity  bool               `json:"is_community"`
	ParentID     string             `json:"parent_id,omitempty"`
	AnnounceOnly bool               `json:"announce_only"`
	Participants []*ChatParticipant `json:"participants"`
}

// ChatParticipant is one member entry of a chat's participant list
type ChatParticipant struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// HasAdminRights reports whether the participant holds admin or super-admin rights in the chat.
func (p *ChatParticipant) HasAdminRights() bool {
	return p.IsAdmin || p.IsSuperAdmin
}

// MemberIDs returns the participant identifiers in list order.
func (c *Chat) MemberIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// BelongsTo reports whether the chat is a member group of the given community.
func (c *Chat) BelongsTo(communityID string) bool {
	return c.IsGroup && !c.IsCommunity && c.ParentID == communityID
}
