package service

import (
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
	"github.com/samber/lo"
)

// Registry consolidates group member lists into one record per user.
// It is built once per loaded community and only read afterwards.
type Registry struct {
	order        []string
	participants map[string]*domain.Participant
	admins       map[string]*domain.Participant
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*domain.Participant),
		admins:       make(map[string]*domain.Participant),
	}
}

// Merge records a sighting of a user in groupName.
//
// Merge rules for an already known user: a non-empty name replaces the
// stored one, admin flags take the value of the latest sighting, and
// groupName is appended to Groups unless already present. Admin status is
// additionally tracked in the admins map, where it is never revoked.
func (r *Registry) Merge(groupName string, s domain.Sighting) *domain.Participant {
	id := chatDomain.NormalizeID(s.ID)

	if s.HasAdminRights() {
		r.recordAdmin(id, s)
	}

	existing, ok := r.participants[id]
	if !ok {
		p := &domain.Participant{
			ID:           id,
			Name:         s.Name,
			IsAdmin:      s.IsAdmin,
			IsSuperAdmin: s.IsSuperAdmin,
			Groups:       []string{groupName},
		}
		r.participants[id] = p
		r.order = append(r.order, id)
		return p
	}

	if s.Name != "" {
		existing.Name = s.Name
	}
	existing.IsAdmin = s.IsAdmin
	existing.IsSuperAdmin = s.IsSuperAdmin
	if !existing.InGroup(groupName) {
		existing.Groups = append(existing.Groups, groupName)
	}
	return existing
}

// RecordCommunityAdmin marks a user as admin because of their rights in the
// community chat itself. No group membership is recorded.
func (r *Registry) RecordCommunityAdmin(s domain.Sighting) {
	if !s.HasAdminRights() {
		return
	}
	r.recordAdmin(chatDomain.NormalizeID(s.ID), s)
}

func (r *Registry) recordAdmin(id string, s domain.Sighting) {
	if _, ok := r.admins[id]; ok {
		return
	}
	r.admins[id] = &domain.Participant{
		ID:           id,
		Name:         s.Name,
		IsAdmin:      s.IsAdmin,
		IsSuperAdmin: s.IsSuperAdmin,
	}
}

// Get returns a copy of the participant with the given identifier.
func (r *Registry) Get(id string) (*domain.Participant, bool) {
	p, ok := r.participants[chatDomain.NormalizeID(id)]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Has reports whether the identifier is a known participant.
func (r *Registry) Has(id string) bool {
	_, ok := r.participants[chatDomain.NormalizeID(id)]
	return ok
}

// IsAdmin reports whether the user is admin in any group or in the community chat.
func (r *Registry) IsAdmin(id string) bool {
	_, ok := r.admins[chatDomain.NormalizeID(id)]
	return ok
}

// GetAll returns every participant in first-seen order.
func (r *Registry) GetAll() []*domain.Participant {
	return lo.Map(r.order, func(id string, _ int) *domain.Participant {
		return r.participants[id].Clone()
	})
}

// GetAdmins returns the admin records, keyed by identifier.
func (r *Registry) GetAdmins() map[string]*domain.Participant {
	return lo.MapValues(r.admins, func(p *domain.Participant, _ string) *domain.Participant {
		return p.Clone()
	})
}

// GetNonAdmins returns participants never seen with admin rights, in first-seen order.
func (r *Registry) GetNonAdmins() []*domain.Participant {
	return lo.FilterMap(r.order, func(id string, _ int) (*domain.Participant, bool) {
		if _, admin := r.admins[id]; admin {
			return nil, false
		}
		return r.participants[id].Clone(), true
	})
}

// Len returns the number of participants.
func (r *Registry) Len() int {
	return len(r.order)
}

// AdminCount returns the number of distinct admins.
func (r *Registry) AdminCount() int {
	return len(r.admins)
}
