package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	activityDomain "github.com/reshetovitsme/community-analytics/internal/modules/activity/domain"
	"github.com/reshetovitsme/community-analytics/internal/modules/analytics/domain"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	chatService "github.com/reshetovitsme/community-analytics/internal/modules/chat/service"
	participantDomain "github.com/reshetovitsme/community-analytics/internal/modules/participant/domain"
	participantService "github.com/reshetovitsme/community-analytics/internal/modules/participant/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
	"github.com/reshetovitsme/community-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testOptions() ClassifierOptions {
	return ClassifierOptions{
		ActivityWindow: activityDomain.NewWindow(now, 30),
		JoinWindow:     activityDomain.NewWindow(now, 7),
		CountableKinds: []chatDomain.ContentKind{chatDomain.ContentKindChat, chatDomain.ContentKindImage},
		JoinSubtypes:   []chatDomain.JoinSubtype{chatDomain.JoinSubtypeInvite, chatDomain.JoinSubtypeAdd},
		TopActiveUsers: 10,
		Concurrency:    1,
	}
}

func text(id, author string, ts time.Time) *chatDomain.Message {
	return &chatDomain.Message{ID: id, Author: author, Kind: chatDomain.ContentKindChat, Timestamp: ts, Body: "hello " + id}
}

type fixture struct {
	fake     *testutil.FakeRepository
	registry *participantService.Registry
	groups   []*chatDomain.Chat
}

// scenarioFixture: G1={u1,u2,u3}, G2={u2,u3,u4}, no admins.
func scenarioFixture() *fixture {
	fake := testutil.NewFakeRepository("me@c.us")
	g1 := testutil.Group("g1", "G1", "root", "u1", "u2", "u3")
	g2 := testutil.Group("g2", "G2", "root", "u2", "u3", "u4")
	fake.Chats = []*chatDomain.Chat{g1, g2}

	registry := participantService.NewRegistry()
	for _, g := range fake.Chats {
		for _, p := range g.Participants {
			registry.Merge(g.Name, participantDomain.Sighting{ID: p.ID, Name: p.Name})
		}
	}
	return &fixture{fake: fake, registry: registry, groups: fake.Chats}
}

func (f *fixture) classify(t *testing.T, opts ClassifierOptions) *domain.InactivityResult {
	t.Helper()
	c := NewClassifier(chatService.New(f.fake), opts, metrics.New(false), slog.Default())
	result, err := c.Classify(context.Background(), f.registry, f.groups)
	require.NoError(t, err)
	return result
}

func inactiveIDs(users []domain.InactiveUser) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.Participant.ID)
	}
	return ids
}

func TestClassifier_Scenario(t *testing.T) {
	f := scenarioFixture()
	f.fake.Messages["g1"] = []*chatDomain.Message{text("m1", "u1", now.Add(-time.Hour))}

	result := f.classify(t, testOptions())

	assert.Equal(t, []string{"u2", "u3", "u4"}, inactiveIDs(result.Inactive))
	assert.Equal(t, 1, result.MessageCount("u1"))
	assert.Equal(t, 4, result.Candidates)
	assert.Equal(t, []string{"G2"}, result.Skipped, "G2 had nothing countable")
}

func TestClassifier_ZeroActivityIsInactiveAndJoinFlipsIt(t *testing.T) {
	f := scenarioFixture()
	f.fake.Messages["g1"] = []*chatDomain.Message{text("m1", "u1", now.Add(-time.Hour))}

	before := f.classify(t, testOptions())
	assert.Contains(t, inactiveIDs(before.Inactive), "u4")

	f.fake.Messages["g2"] = []*chatDomain.Message{{
		ID: "j1", Kind: chatDomain.ContentKindGp2, Subtype: "invite",
		Timestamp: now.AddDate(0, 0, -1), Subjects: []string{"u4"},
	}}

	after := f.classify(t, testOptions())
	assert.NotContains(t, inactiveIDs(after.Inactive), "u4")
	assert.Equal(t, activityDomain.SourceJoin, after.Activity["u4"][0].Source)
	assert.Empty(t, after.Skipped)
}

func TestClassifier_OldJoinOutsideJoinWindowDoesNotCount(t *testing.T) {
	f := scenarioFixture()
	f.fake.Messages["g2"] = []*chatDomain.Message{
		text("m1", "u2", now.Add(-time.Hour)),
		{ID: "j1", Kind: chatDomain.ContentKindGp2, Subtype: "add", Timestamp: now.AddDate(0, 0, -10), Subjects: []string{"u4"}},
	}

	result := f.classify(t, testOptions())
	assert.Contains(t, inactiveIDs(result.Inactive), "u4")
}

func TestClassifier_AdminsAreNeverCandidates(t *testing.T) {
	f := scenarioFixture()
	f.registry.Merge("G1", participantDomain.Sighting{ID: "u3", IsAdmin: true})
	f.fake.Messages["g1"] = []*chatDomain.Message{text("m1", "u1", now)}

	result := f.classify(t, testOptions())
	assert.Equal(t, []string{"u2", "u4"}, inactiveIDs(result.Inactive))
	assert.Equal(t, 3, result.Candidates)
}

func TestClassifier_ReceiptPartitionsNest(t *testing.T) {
	f := scenarioFixture()
	mine := text("m0", "me@c.us", now.Add(-2*time.Hour))
	mine.FromMe = true
	f.fake.Messages["g1"] = []*chatDomain.Message{mine, text("m1", "u1", now.Add(-time.Hour))}
	f.fake.Infos["m0"] = &chatDomain.MessageInfo{
		Read:      []string{"u2"},
		Delivered: []string{"u2", "u3"},
	}

	result := f.classify(t, testOptions())

	assert.Equal(t, []string{"u2", "u3", "u4"}, inactiveIDs(result.Inactive))
	assert.Equal(t, []string{"u3", "u4"}, inactiveIDs(result.Unread))
	assert.Equal(t, []string{"u4"}, inactiveIDs(result.Undelivered))
	assert.Equal(t, 1, result.ReceiptsChecked)
	assert.Equal(t, []string{"m0"}, f.fake.InfoCalls, "only operator messages are looked up")

	inactive := inactiveIDs(result.Inactive)
	unread := inactiveIDs(result.Unread)
	for _, id := range unread {
		assert.Contains(t, inactive, id)
	}
	for _, id := range inactiveIDs(result.Undelivered) {
		assert.Contains(t, unread, id)
	}
}

func TestClassifier_UnknownAuthorsAreBucketed(t *testing.T) {
	f := scenarioFixture()
	f.fake.Messages["g1"] = []*chatDomain.Message{
		text("m1", "stranger", now),
		text("m2", "stranger", now),
		text("m3", "u1", now),
	}

	result := f.classify(t, testOptions())
	require.Len(t, result.Unknown, 1)
	assert.Equal(t, "stranger", result.Unknown[0].UserID)
	assert.Len(t, result.Unknown[0].Points, 2)
	assert.NotContains(t, result.Activity, "stranger")
}

func TestClassifier_FiltersByKindAndWindow(t *testing.T) {
	f := scenarioFixture()
	old := text("m1", "u1", now.AddDate(0, 0, -40))
	revoked := text("m2", "u2", now)
	revoked.Kind = chatDomain.ContentKindRevoked
	system := &chatDomain.Message{ID: "m3", Kind: chatDomain.ContentKindChat, Timestamp: now}
	f.fake.Messages["g1"] = []*chatDomain.Message{old, revoked, system, text("m4", "u3", now)}

	result := f.classify(t, testOptions())
	assert.Equal(t, []string{"u1", "u2", "u4"}, inactiveIDs(result.Inactive))
}

func TestClassifier_TopActiveStableOnTies(t *testing.T) {
	f := scenarioFixture()
	f.fake.Messages["g1"] = []*chatDomain.Message{
		text("m1", "u3", now),
		text("m2", "u1", now),
		text("m3", "u2", now),
		text("m4", "u2", now),
		text("m5", "u1", now),
	}
	opts := testOptions()
	opts.TopActiveUsers = 2

	result := f.classify(t, opts)
	require.Len(t, result.TopActive, 1)
	assert.Equal(t, "G1", result.TopActive[0].Group)
	assert.Equal(t, []domain.UserTally{{UserID: "u1", Messages: 2}, {UserID: "u2", Messages: 2}}, result.TopActive[0].Users)
}

func TestClassifier_FetchFailureSkipsGroup(t *testing.T) {
	f := scenarioFixture()
	f.fake.FetchErrs["g1"] = errors.New("not a member")
	f.fake.Messages["g2"] = []*chatDomain.Message{text("m1", "u4", now)}

	result := f.classify(t, testOptions())
	assert.Equal(t, []string{"G1"}, result.Skipped)
	assert.Equal(t, []string{"u1", "u2", "u3"}, inactiveIDs(result.Inactive))
}

func TestClassifier_ReceiptFailureDoesNotAbort(t *testing.T) {
	f := scenarioFixture()
	mine := text("m0", "me@c.us", now)
	mine.FromMe = true
	f.fake.Messages["g1"] = []*chatDomain.Message{mine, text("m1", "u1", now)}
	f.fake.InfoErrs["m0"] = errors.New("timeout")

	result := f.classify(t, testOptions())
	assert.Equal(t, 1, result.MessageCount("u1"))
	assert.Equal(t, 0, result.ReceiptsChecked)
}

func TestClassifier_ConcurrentScanIsDeterministic(t *testing.T) {
	f := scenarioFixture()
	for i := 3; i <= 6; i++ {
		id := string(rune('0' + i))
		f.groups = append(f.groups, testutil.Group("g"+id, "G"+id, "root", "u1"))
	}
	f.fake.Chats = f.groups
	f.fake.Messages["g1"] = []*chatDomain.Message{text("m1", "u1", now)}
	f.fake.Messages["g2"] = []*chatDomain.Message{text("m2", "u2", now)}

	sequential := f.classify(t, testOptions())

	opts := testOptions()
	opts.Concurrency = 4
	parallel := f.classify(t, opts)

	assert.Equal(t, sequential.Groups, parallel.Groups)
	assert.Equal(t, sequential.Skipped, parallel.Skipped)
	assert.Equal(t, sequential.TopActive, parallel.TopActive)
	assert.Equal(t, inactiveIDs(sequential.Inactive), inactiveIDs(parallel.Inactive))
}

func TestClassifier_CancelledContextAborts(t *testing.T) {
	f := scenarioFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClassifier(chatService.New(f.fake), testOptions(), metrics.New(false), slog.Default())
	result, err := c.Classify(ctx, f.registry, f.groups)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}
