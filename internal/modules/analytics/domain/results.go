package domain

import (
	activityDomain "github.com/reshetovitsme/community-analytics/internal/modules/activity/domain"
	participantDomain "github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
)

// UserTally is the number of countable messages a user sent in one group.
type UserTally struct {
	UserID   string
	Messages int
}

// GroupTally lists the most active users of one group, most active first.
type GroupTally struct {
	Group string
	Users []UserTally
}

// InactiveUser is a non-admin participant with no counted activity.
type InactiveUser struct {
	Participant  *participantDomain.Participant
	MessageCount int
}

// UnknownAuthor collects activity from identifiers missing from the registry.
type UnknownAuthor struct {
	UserID string
	Points []activityDomain.Point
}

// InactivityResult is the outcome of one classification run.
// Undelivered ⊆ Unread ⊆ Inactive always holds.
type InactivityResult struct {
	Groups          []string
	Candidates      int
	Inactive        []InactiveUser
	Unread          []InactiveUser
	Undelivered     []InactiveUser
	Activity        map[string][]activityDomain.Point
	Unknown         []UnknownAuthor
	TopActive       []GroupTally
	Skipped         []string
	ReceiptsChecked int
}

// MessageCount returns the accumulated activity of a registry participant.
func (r *InactivityResult) MessageCount(userID string) int {
	return len(r.Activity[userID])
}

// Matrix is the row-relative overlap of group memberships.
// Ratios[i][j] = |members(i) ∩ members(j)| / |members(i)|.
type Matrix struct {
	Groups []string
	Sizes  []int
	Ratios [][]float64
}

// Ratio looks a cell up by group names.
func (m *Matrix) Ratio(row, col string) (float64, bool) {
	i, j := m.index(row), m.index(col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Ratios[i][j], true
}

func (m *Matrix) index(name string) int {
	for i, g := range m.Groups {
		if g == name {
			return i
		}
	}
	return -1
}

// ExclusiveUser is a participant found in exactly one substantive group.
type ExclusiveUser struct {
	UserID string
	Name   string
	Group  string
}
