package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	participantDomain "github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
	participantService "github.com/reshetovitsme/community-analytics/internal/modules/participant/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// ChatSource is the part of the chat service the community needs.
type ChatSource interface {
	Refresh()
	OperatorID(ctx context.Context, configured string) (string, error)
	GetChats(ctx context.Context) ([]*chatDomain.Chat, error)
	RemoveParticipants(ctx context.Context, chatID string, ids []string) error
}

// Snapshot is the community as loaded at one point in time.
type Snapshot struct {
	Community  *chatDomain.Chat
	Groups     []*chatDomain.Chat
	Registry   *participantService.Registry
	OperatorID string
	LoadedAt   time.Time
}

// Group returns the member group with the given display name.
func (s *Snapshot) Group(name string) (*chatDomain.Chat, error) {
	group, ok := lo.Find(s.Groups, func(g *chatDomain.Chat) bool { return g.Name == name })
	if !ok {
		return nil, oops.With("group", name).Wrap(errors.ErrGroupNotFound)
	}
	return group, nil
}

// GroupNames returns the display names of the member groups, largest group first.
func (s *Snapshot) GroupNames() []string {
	return lo.Map(s.Groups, func(g *chatDomain.Chat, _ int) string { return g.Name })
}

// Service loads the configured community and guards participant removal.
type Service struct {
	chats       ChatSource
	communityID string
	operatorID  string
	logger      *slog.Logger

	mu      sync.RWMutex
	current *Snapshot
}

// New creates a new community service
func New(chats ChatSource, communityID, operatorID string, logger *slog.Logger) *Service {
	return &Service{
		chats:       chats,
		communityID: chatDomain.NormalizeID(communityID),
		operatorID:  operatorID,
		logger:      logger.With("community_id", communityID),
	}
}

// Current returns the loaded snapshot, loading the community on first use.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil {
		return current, nil
	}
	return s.Load(ctx)
}

// Load enumerates the chats, locates the community and rebuilds the
// participant registry from scratch. Cached receipts are dropped first.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	s.chats.Refresh()

	operatorID, err := s.chats.OperatorID(ctx, s.operatorID)
	if err != nil {
		return nil, err
	}

	chats, err := s.chats.GetChats(ctx)
	if err != nil {
		return nil, err
	}

	community, ok := lo.Find(chats, func(c *chatDomain.Chat) bool {
		return c.ID == s.communityID && c.IsCommunity
	})
	if !ok {
		return nil, oops.With("community_id", s.communityID).Wrap(errors.ErrCommunityNotFound)
	}

	groups := lo.Filter(chats, func(c *chatDomain.Chat, _ int) bool {
		return c.BelongsTo(s.communityID)
	})
	s.logger.Info("Loaded chats that are part of the community", "community", community.Name, "groups", len(groups))

	slices.SortStableFunc(groups, func(a, b *chatDomain.Chat) int {
		return len(b.Participants) - len(a.Participants)
	})

	// Groups are looked up and reported by display name
	for _, name := range lo.FindDuplicates(lo.Map(groups, func(g *chatDomain.Chat, _ int) string { return g.Name })) {
		s.logger.Warn("Duplicate group name, only the largest group is reachable by name", "group", name)
	}

	registry := participantService.NewRegistry()

	communityAdmins := lo.Filter(community.Participants, func(p *chatDomain.ChatParticipant, _ int) bool {
		return p.HasAdminRights()
	})
	for _, p := range communityAdmins {
		registry.RecordCommunityAdmin(sighting(p))
	}

	for _, group := range groups {
		admins := lo.CountBy(group.Participants, func(p *chatDomain.ChatParticipant) bool { return p.HasAdminRights() })
		users := len(group.Participants) - admins
		s.logger.Info("Group members", "group", group.Name, "users", users, "admins", admins)
		if users == 0 {
			s.logger.Warn("Group has no users, is the operator a member of the group?", "group", group.Name)
		}

		for _, p := range group.Participants {
			registry.Merge(group.Name, sighting(p))
		}
	}

	s.logger.Info("Loaded participants",
		"participants", registry.Len(),
		"admins", registry.AdminCount(),
		"community_admins", len(communityAdmins),
	)

	snapshot := &Snapshot{
		Community:  community,
		Groups:     groups,
		Registry:   registry,
		OperatorID: operatorID,
		LoadedAt:   time.Now(),
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

func sighting(p *chatDomain.ChatParticipant) participantDomain.Sighting {
	return participantDomain.Sighting{
		ID:           p.ID,
		Name:         p.Name,
		IsAdmin:      p.IsAdmin,
		IsSuperAdmin: p.IsSuperAdmin,
	}
}

// Group returns the member group with the given display name.
func (s *Service) Group(ctx context.Context, name string) (*chatDomain.Chat, error) {
	snapshot, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Group(name)
}
