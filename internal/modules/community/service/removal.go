package service

import (
	"context"
	"strings"

	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	participantDomain "github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// SkippedRemoval is a requested user that will not be removed.
type SkippedRemoval struct {
	UserID string
	Reason error
}

// RemovalPlan is a checked removal request waiting for confirmation.
type RemovalPlan struct {
	CommunityID string
	Users       []*participantDomain.Participant
	Skipped     []SkippedRemoval
}

// IDs returns the identifiers that will be removed.
func (p *RemovalPlan) IDs() []string {
	return lo.Map(p.Users, func(u *participantDomain.Participant, _ int) string { return u.ID })
}

// PlanRemoval checks a removal request against the loaded community.
// Admins, super-admins and the operator are refused outright with
// ErrRemovalRefused. Users missing from the registry or without a display
// name are skipped.
func (s *Service) PlanRemoval(ctx context.Context, ids []string) (*RemovalPlan, error) {
	snapshot, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	ids = chatDomain.NormalizeIDs(lo.Compact(lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) })))
	if len(ids) == 0 {
		return nil, oops.Wrapf(errors.ErrParticipantNotFound, "no user ids given")
	}

	for _, id := range ids {
		if id == snapshot.OperatorID {
			return nil, oops.With("user_id", id).Wrapf(errors.ErrRemovalRefused, "cannot remove the operator account")
		}
		if snapshot.Registry.IsAdmin(id) {
			return nil, oops.With("user_id", id).Wrapf(errors.ErrRemovalRefused, "cannot remove an admin")
		}
	}

	plan := &RemovalPlan{CommunityID: snapshot.Community.ID}
	for _, id := range ids {
		user, ok := snapshot.Registry.Get(id)
		switch {
		case !ok:
			s.logger.Warn("User not found in community, skipping", "user_id", id)
			plan.Skipped = append(plan.Skipped, SkippedRemoval{UserID: id, Reason: errors.ErrParticipantNotFound})
		case user.Name == "":
			s.logger.Warn("User has no display name, skipping", "user_id", id)
			plan.Skipped = append(plan.Skipped, SkippedRemoval{UserID: id, Reason: errors.ErrMissingDisplayName})
		default:
			plan.Users = append(plan.Users, user)
		}
	}
	return plan, nil
}

// Remove executes a confirmed plan against the community chat. The registry
// keeps the removed users until the community is reloaded.
func (s *Service) Remove(ctx context.Context, plan *RemovalPlan) error {
	if plan == nil {
		return errors.ErrNoPendingRemoval
	}
	if len(plan.Users) == 0 {
		s.logger.Info("Nothing to remove", "skipped", len(plan.Skipped))
		return nil
	}

	ids := plan.IDs()
	if err := s.chats.RemoveParticipants(ctx, plan.CommunityID, ids); err != nil {
		return err
	}
	for _, u := range plan.Users {
		s.logger.Info("Removed user from community", "user_id", u.ID, "name", u.Name, "groups", u.Groups)
	}
	return nil
}
