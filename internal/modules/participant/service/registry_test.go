package service

import (
	"testing"

	"github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_MergeNewUser(t *testing.T) {
	r := NewRegistry()
	r.Merge("G1", domain.Sighting{ID: "u1@c.us", Name: "Ann"})

	p, ok := r.Get("u1@c.us")
	require.True(t, ok)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, []string{"G1"}, p.Groups)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_MergeSameGroupTwiceIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Merge("X", domain.Sighting{ID: "u1@c.us"})
	r.Merge("X", domain.Sighting{ID: "u1@c.us"})

	p, ok := r.Get("u1@c.us")
	require.True(t, ok)
	assert.Equal(t, []string{"X"}, p.Groups)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_MergeAcrossGroupsUnionsInOrder(t *testing.T) {
	r := NewRegistry()
	r.Merge("G2", domain.Sighting{ID: "u1@c.us", Name: "Old"})
	r.Merge("G1", domain.Sighting{ID: "u1@c.us", Name: "New"})
	r.Merge("G3", domain.Sighting{ID: "u1@c.us"})

	p, _ := r.Get("u1@c.us")
	assert.Equal(t, []string{"G2", "G1", "G3"}, p.Groups)
	assert.Equal(t, "New", p.Name, "empty name does not erase a known one")
}

func TestRegistry_MergeNormalizesDeviceSuffix(t *testing.T) {
	r := NewRegistry()
	r.Merge("G1", domain.Sighting{ID: "32456:3@s.whatsapp.net"})
	r.Merge("G2", domain.Sighting{ID: "32456@s.whatsapp.net"})

	require.Equal(t, 1, r.Len())
	p, ok := r.Get("32456@s.whatsapp.net")
	require.True(t, ok)
	assert.Equal(t, []string{"G1", "G2"}, p.Groups)
}

func TestRegistry_AdminInAnyGroupIsAdmin(t *testing.T) {
	r := NewRegistry()
	r.Merge("G1", domain.Sighting{ID: "u1@c.us", IsAdmin: true})
	r.Merge("G2", domain.Sighting{ID: "u1@c.us", IsAdmin: false})
	r.Merge("G1", domain.Sighting{ID: "u2@c.us"})

	assert.True(t, r.IsAdmin("u1@c.us"))
	assert.False(t, r.IsAdmin("u2@c.us"))

	p, _ := r.Get("u1@c.us")
	assert.False(t, p.IsAdmin, "participant record keeps the latest sighting")

	nonAdmins := r.GetNonAdmins()
	require.Len(t, nonAdmins, 1)
	assert.Equal(t, "u2@c.us", nonAdmins[0].ID)
	assert.Len(t, r.GetAdmins(), 1)
}

func TestRegistry_SuperAdminCountsAsAdmin(t *testing.T) {
	r := NewRegistry()
	r.Merge("G1", domain.Sighting{ID: "owner@c.us", IsSuperAdmin: true})
	assert.True(t, r.IsAdmin("owner@c.us"))
	assert.Empty(t, r.GetNonAdmins())
}

func TestRegistry_CommunityAdminWithoutGroups(t *testing.T) {
	r := NewRegistry()
	r.RecordCommunityAdmin(domain.Sighting{ID: "boss@c.us", IsAdmin: true})
	r.RecordCommunityAdmin(domain.Sighting{ID: "member@c.us"})
	r.Merge("G1", domain.Sighting{ID: "boss@c.us"})

	assert.True(t, r.IsAdmin("boss@c.us"))
	assert.False(t, r.IsAdmin("member@c.us"))
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, r.GetNonAdmins())
}

func TestRegistry_GetAllPreservesFirstSeenOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c@c.us", "a@c.us", "b@c.us", "a@c.us"} {
		r.Merge("G", domain.Sighting{ID: id})
	}

	ids := make([]string, 0)
	for _, p := range r.GetAll() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c@c.us", "a@c.us", "b@c.us"}, ids)
}

func TestRegistry_ReadsReturnCopies(t *testing.T) {
	r := NewRegistry()
	r.Merge("G1", domain.Sighting{ID: "u1@c.us"})

	all := r.GetAll()
	all[0].Groups[0] = "mutated"

	p, _ := r.Get("u1@c.us")
	assert.Equal(t, []string{"G1"}, p.Groups)
}
