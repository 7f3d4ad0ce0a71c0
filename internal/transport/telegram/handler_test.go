package telegram

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	analyticsService "github.com/reshetovitsme/community-analytics/internal/modules/analytics/service"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	chatService "github.com/reshetovitsme/community-analytics/internal/modules/chat/service"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	reportRepo "github.com/reshetovitsme/community-analytics/internal/modules/report/repository"
	reportService "github.com/reshetovitsme/community-analytics/internal/modules/report/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
	"github.com/reshetovitsme/community-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:test-token"

type sentRequest struct {
	Method   string
	Text     string
	Filename string
	Document string
}

// telegramAPI records bot API calls and answers them with an empty message.
type telegramAPI struct {
	mu   sync.Mutex
	sent []sentRequest
}

func (api *telegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := sentRequest{Method: r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		req.Text = r.FormValue("text")
		if f, header, err := r.FormFile("document"); err == nil {
			data, _ := io.ReadAll(f)
			f.Close()
			req.Filename = header.Filename
			req.Document = string(data)
		}
	}

	api.mu.Lock()
	api.sent = append(api.sent, req)
	api.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
}

func (api *telegramAPI) requests() []sentRequest {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]sentRequest(nil), api.sent...)
}

func (api *telegramAPI) texts() []string {
	var texts []string
	for _, r := range api.requests() {
		if r.Method == "sendMessage" {
			texts = append(texts, r.Text)
		}
	}
	return texts
}

type handlerFixture struct {
	fake    *testutil.FakeRepository
	api     *telegramAPI
	bot     *bot.Bot
	handler *Handler
}

func newHandlerFixture(t *testing.T, allowed ...int64) *handlerFixture {
	t.Helper()
	fake := testutil.NewFakeRepository("me@c.us")
	g1 := testutil.Group("g1", "Book Club", "root", "u1", "u2", "u3")
	g2 := testutil.Group("g2", "G2", "root", "u2", "u4", "admin")
	g2.Participants[2].IsAdmin = true
	fake.Chats = []*chatDomain.Chat{testutil.Community("root", "Root"), g1, g2}
	fake.Messages["g1"] = []*chatDomain.Message{
		{ID: "m1", Author: "u1", Kind: chatDomain.ContentKindChat, Timestamp: time.Now()},
	}

	chats := chatService.New(fake)
	community := communityService.New(chats, "root", "", slog.Default())
	repo, err := reportRepo.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	reports := reportService.New(repo, metrics.New(false), slog.Default())
	analytics := analyticsService.New(community, chats, reports, metrics.New(false), slog.Default(), analyticsService.Options{
		ActivityWindowDays: 30,
		CountableKinds:     []chatDomain.ContentKind{chatDomain.ContentKindChat},
		TopActiveUsers:     10,
		Concurrency:        1,
	})

	api := &telegramAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := bot.New(testToken, bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	return &handlerFixture{
		fake:    fake,
		api:     api,
		bot:     b,
		handler: New(allowed, analytics, community, reports, slog.Default()),
	}
}

func message(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   1,
		Chat: models.Chat{ID: 42, Type: "private"},
		From: &models.User{ID: userID},
		Text: text,
	}}
}

func TestCommandArgs(t *testing.T) {
	cmd, args := commandArgs("/inactive@analytics_bot  Book Club ")
	assert.Equal(t, "/inactive", cmd)
	assert.Equal(t, "Book Club", args)

	cmd, args = commandArgs("/inactiveall")
	assert.Equal(t, "/inactiveall", cmd)
	assert.Empty(t, args)
}

func TestHandler_Unauthorized(t *testing.T) {
	f := newHandlerFixture(t, 7)

	f.handler.handleIntersections(context.Background(), f.bot, message(8, "/intersections"))

	assert.Equal(t, []string{"❌ Unauthorized"}, f.api.texts())
	assert.Empty(t, f.fake.FetchCalls)
}

func TestHandler_UnlistedUserCannotRemove(t *testing.T) {
	f := newHandlerFixture(t, 7)
	ctx := context.Background()

	f.handler.handleRemove(ctx, f.bot, message(999999, "/remove u4"))
	f.handler.handleConfirm(ctx, f.bot, message(999999, "/confirm"))

	assert.Empty(t, f.fake.RemoveCalls)
	assert.Equal(t, []string{"❌ Unauthorized", "❌ Unauthorized"}, f.api.texts())
}

func TestHandler_EmptyAllowListDeniesEveryone(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.handleRemove(ctx, f.bot, message(999999, "/remove u4"))
	f.handler.handleConfirm(ctx, f.bot, message(999999, "/confirm"))
	f.handler.handleReload(ctx, f.bot, message(999999, "/reload"))
	f.handler.handleIntersections(ctx, f.bot, message(999999, "/intersections"))

	assert.Empty(t, f.fake.RemoveCalls)
	assert.Empty(t, f.fake.FetchCalls)
	assert.Equal(t, []string{"❌ Unauthorized", "❌ Unauthorized", "❌ Unauthorized", "❌ Unauthorized"}, f.api.texts())
}

func TestHandler_Status(t *testing.T) {
	f := newHandlerFixture(t, 7)

	f.handler.handleStatus(context.Background(), f.bot, message(7, "/status"))

	texts := f.api.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Groups: 2")
	assert.Contains(t, texts[0], "1. Book Club (3)")
}

func TestHandler_InactiveSendsReports(t *testing.T) {
	f := newHandlerFixture(t, 7)

	f.handler.handleInactive(context.Background(), f.bot, message(7, "/inactive Book Club"))

	var documents []sentRequest
	for _, r := range f.api.requests() {
		if r.Method == "sendDocument" {
			documents = append(documents, r)
		}
	}
	require.NotEmpty(t, documents)
	assert.True(t, strings.HasSuffix(documents[0].Filename, "-inactive.csv"))
	assert.True(t, strings.HasPrefix(documents[0].Document, "\"User ID\",\"Messages\",\"Groups\"\n"))
	assert.Equal(t, []string{"g1"}, f.fake.FetchCalls)
}

func TestHandler_InactiveUsage(t *testing.T) {
	f := newHandlerFixture(t, 7)

	f.handler.handleInactive(context.Background(), f.bot, message(7, "/inactive"))
	assert.Contains(t, f.api.texts()[0], "Usage: /inactive")

	f.handler.handleInactive(context.Background(), f.bot, message(7, "/inactive Nowhere"))
	texts := f.api.texts()
	assert.Contains(t, texts[len(texts)-1], "No such group")
}

func TestHandler_RemoveConfirmFlow(t *testing.T) {
	f := newHandlerFixture(t, 7)
	ctx := context.Background()

	f.handler.handleConfirm(ctx, f.bot, message(7, "/confirm"))
	f.handler.handleRemove(ctx, f.bot, message(7, "/remove u4, ghost"))
	assert.Empty(t, f.fake.RemoveCalls, "nothing is removed before confirmation")

	f.handler.handleConfirm(ctx, f.bot, message(7, "/confirm"))
	require.Len(t, f.fake.RemoveCalls, 1)
	assert.Equal(t, []string{"u4"}, f.fake.RemoveCalls[0].IDs)

	texts := f.api.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0], "no pending removal")
	assert.Contains(t, texts[1], "Skipping ghost")
	assert.Contains(t, texts[1], "Send /confirm")
	assert.Contains(t, texts[2], "Removed 1 user(s)")
}

func TestHandler_RemoveCancelAndRefusal(t *testing.T) {
	f := newHandlerFixture(t, 7)
	ctx := context.Background()

	f.handler.handleRemove(ctx, f.bot, message(7, "/remove u4"))
	f.handler.handleCancel(ctx, f.bot, message(7, "/cancel"))
	f.handler.handleConfirm(ctx, f.bot, message(7, "/confirm"))
	f.handler.handleRemove(ctx, f.bot, message(7, "/remove admin"))

	assert.Empty(t, f.fake.RemoveCalls)
	texts := f.api.texts()
	require.Len(t, texts, 4)
	assert.Equal(t, "Removal cancelled.", texts[1])
	assert.Contains(t, texts[3], "Refused")
}
