package service

import (
	"github.com/reshetovitsme/community-analytics/internal/modules/analytics/domain"
	"github.com/samber/lo"
)

// GroupMembers is the full member list of one group, admins included.
type GroupMembers struct {
	Name    string
	Members []string
}

// Intersections computes the pairwise overlap matrix. The denominator is
// always the row group's size, so the matrix is asymmetric. An empty group
// has 1 on its diagonal and 0 elsewhere.
func Intersections(groups []GroupMembers) *domain.Matrix {
	sets := lo.Map(groups, func(g GroupMembers, _ int) map[string]struct{} {
		return lo.Keyify(g.Members)
	})

	m := &domain.Matrix{
		Groups: lo.Map(groups, func(g GroupMembers, _ int) string { return g.Name }),
		Sizes:  lo.Map(sets, func(s map[string]struct{}, _ int) int { return len(s) }),
		Ratios: make([][]float64, len(groups)),
	}

	for i, row := range sets {
		m.Ratios[i] = make([]float64, len(groups))
		for j, col := range sets {
			switch {
			case i == j:
				m.Ratios[i][j] = 1
			case len(row) == 0:
				m.Ratios[i][j] = 0
			default:
				m.Ratios[i][j] = float64(overlap(row, col)) / float64(len(row))
			}
		}
	}
	return m
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}
