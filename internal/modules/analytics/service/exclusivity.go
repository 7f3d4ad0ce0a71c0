package service

import (
	"github.com/reshetovitsme/community-analytics/internal/modules/analytics/domain"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	participantDomain "github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
	"github.com/samber/lo"
)

// Exclusive returns the participants whose groups, announce-only groups
// excluded, come down to exactly one.
func Exclusive(participants []*participantDomain.Participant, groups []*chatDomain.Chat) []domain.ExclusiveUser {
	announce := lo.SliceToMap(
		lo.Filter(groups, func(g *chatDomain.Chat, _ int) bool { return g.AnnounceOnly }),
		func(g *chatDomain.Chat) (string, struct{}) { return g.Name, struct{}{} },
	)

	return lo.FilterMap(participants, func(p *participantDomain.Participant, _ int) (domain.ExclusiveUser, bool) {
		substantive := lo.Reject(p.Groups, func(name string, _ int) bool {
			_, ok := announce[name]
			return ok
		})
		if len(substantive) != 1 {
			return domain.ExclusiveUser{}, false
		}
		return domain.ExclusiveUser{UserID: p.ID, Name: p.Name, Group: substantive[0]}, true
	})
}
