package service

import (
	"context"
	"errors"
	"testing"

	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/reshetovitsme/community-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptTracker_OnlyOperatorMessagesAreLookedUp(t *testing.T) {
	fake := testutil.NewFakeRepository("me@c.us")
	fake.Infos["mine"] = &chatDomain.MessageInfo{Read: []string{"a@c.us"}, Delivered: []string{"a@c.us", "b@c.us"}}

	tracker := NewReceiptTracker()
	tracked, err := tracker.Track(context.Background(), fake, &chatDomain.Message{ID: "theirs", ChatID: "g1", Author: "a@c.us"})
	require.NoError(t, err)
	assert.False(t, tracked)

	tracked, err = tracker.Track(context.Background(), fake, &chatDomain.Message{ID: "mine", ChatID: "g1", Author: "me@c.us", FromMe: true})
	require.NoError(t, err)
	assert.True(t, tracked)

	assert.Equal(t, []string{"mine"}, fake.InfoCalls)
	assert.True(t, tracker.HasRead("a@c.us"))
	assert.False(t, tracker.HasRead("b@c.us"))
	assert.True(t, tracker.HasReceived("b@c.us"))
	assert.Equal(t, 1, tracker.Checked())
}

func TestReceiptTracker_PropagatesFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	fake := testutil.NewFakeRepository("me@c.us")
	fake.InfoErrs["mine"] = boom

	tracker := NewReceiptTracker()
	_, err := tracker.Track(context.Background(), fake, &chatDomain.Message{ID: "mine", FromMe: true})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, tracker.Checked())
}

func TestReceiptTracker_Merge(t *testing.T) {
	a := NewReceiptTracker()
	a.Add(&chatDomain.MessageInfo{Read: []string{"x@c.us"}})
	b := NewReceiptTracker()
	b.Add(&chatDomain.MessageInfo{Delivered: []string{"y@c.us"}})

	a.Merge(b)
	assert.True(t, a.HasRead("x@c.us"))
	assert.True(t, a.HasReceived("y@c.us"))
	assert.Equal(t, 2, a.Checked())
}
