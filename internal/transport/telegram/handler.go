package telegram

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	analyticsService "github.com/reshetovitsme/community-analytics/internal/modules/analytics/service"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	reportDomain "github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/samber/lo"
)

// Analytics runs the reports offered by the bot.
type Analytics interface {
	Intersections(ctx context.Context) (*analyticsService.IntersectionReport, error)
	Inactive(ctx context.Context, groupNames ...string) (*analyticsService.InactivityReport, error)
	Exclusive(ctx context.Context) (*analyticsService.ExclusivityReport, error)
}

// Community loads the community and performs confirmed removals.
type Community interface {
	Current(ctx context.Context) (*communityService.Snapshot, error)
	Load(ctx context.Context) (*communityService.Snapshot, error)
	PlanRemoval(ctx context.Context, ids []string) (*communityService.RemovalPlan, error)
	Remove(ctx context.Context, plan *communityService.RemovalPlan) error
}

// Reports reads written reports back so they can be sent as documents.
type Reports interface {
	GetReport(name string) (*reportDomain.ReportFile, []byte, error)
}

// Handler handles Telegram bot interactions
type Handler struct {
	allowedUsers []int64
	analytics    Analytics
	community    Community
	reports      Reports
	logger       *slog.Logger

	mu      sync.Mutex
	pending map[int64]*communityService.RemovalPlan
}

// New creates a new Telegram handler
func New(allowedUsers []int64, analytics Analytics, community Community, reports Reports, logger *slog.Logger) *Handler {
	return &Handler{
		allowedUsers: allowedUsers,
		analytics:    analytics,
		community:    community,
		reports:      reports,
		logger:       logger,
		pending:      make(map[int64]*communityService.RemovalPlan),
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, h.handleStatus)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/intersections", bot.MatchTypeExact, h.handleIntersections)
	// also serves /inactiveall
	b.RegisterHandler(bot.HandlerTypeMessageText, "/inactive", bot.MatchTypePrefix, h.handleInactive)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/exclusive", bot.MatchTypeExact, h.handleExclusive)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/remove", bot.MatchTypePrefix, h.handleRemove)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/confirm", bot.MatchTypeExact, h.handleConfirm)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, h.handleCancel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/reload", bot.MatchTypeExact, h.handleReload)
}

// HandleUpdate receives every update no command matched
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.logger.Debug("Ignoring message", "user_id", update.Message.From.ID)
}

// checkAuthorization allows only listed users. An empty list denies everyone.
func (h *Handler) checkAuthorization(userID int64) bool {
	return lo.Contains(h.allowedUsers, userID)
}

// authorize answers unauthorized users and reports whether the command may run.
func (h *Handler) authorize(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	if h.checkAuthorization(update.Message.From.ID) {
		return true
	}
	h.logger.Warn("Unauthorized bot user", "user_id", update.Message.From.ID, "error", errors.ErrUnauthorized)
	h.reply(ctx, b, update, "❌ Unauthorized")
	return false
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	}); err != nil {
		h.logger.Error("Failed to send message", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

func (h *Handler) replyError(ctx context.Context, b *bot.Bot, update *models.Update, err error) {
	h.logger.Error("Bot command failed", "text", update.Message.Text, "error", err)

	var text string
	switch {
	case stderrors.Is(err, errors.ErrRemovalRefused):
		text = fmt.Sprintf("⛔ Refused: %v", err)
	case stderrors.Is(err, errors.ErrGroupNotFound):
		text = fmt.Sprintf("❌ No such group: %v", err)
	case stderrors.Is(err, errors.ErrEmptyReport):
		text = fmt.Sprintf("📭 Nothing to report: %v", err)
	default:
		text = fmt.Sprintf("❌ Failed: %v", err)
	}
	h.reply(ctx, b, update, text)
}

func (h *Handler) sendReport(ctx context.Context, b *bot.Bot, update *models.Update, file *reportDomain.ReportFile) {
	_, data, err := h.reports.GetReport(file.Name)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	if _, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   update.Message.Chat.ID,
		Document: &models.InputFileUpload{Filename: file.Name, Data: bytes.NewReader(data)},
		Caption:  fmt.Sprintf("%s (%d rows)", file.Kind, file.Rows),
	}); err != nil {
		h.logger.Error("Failed to send report", "file", file.Name, "error", err)
	}
}

// commandArgs returns the text after the command word.
func commandArgs(text string) (string, string) {
	command, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	command, _, _ = strings.Cut(command, "@")
	return command, strings.TrimSpace(args)
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	text := `👋 Community analytics bot

Available commands:
/status - Show the loaded community
/intersections - Report group intersections
/inactive <group> - Report inactive users in one group
/inactiveall - Report inactive users across all groups
/exclusive - Report users only in one group
/remove <id1,id2> - Prepare removal of users from the community
/confirm - Execute the prepared removal
/cancel - Drop the prepared removal
/reload - Reload the community`

	h.reply(ctx, b, update, text)
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	snapshot, err := h.community.Current(ctx)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📊 %s\n\nGroups: %d\nParticipants: %d (Admins: %d)\nLoaded: %s\n\n",
		snapshot.Community.Name, len(snapshot.Groups), snapshot.Registry.Len(), snapshot.Registry.AdminCount(),
		snapshot.LoadedAt.Format("2006-01-02 15:04:05")))
	for i, g := range snapshot.Groups {
		text.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, g.Name, len(g.Participants)))
	}
	h.reply(ctx, b, update, text.String())
}

func (h *Handler) handleIntersections(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	report, err := h.analytics.Intersections(ctx)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}
	h.sendReport(ctx, b, update, report.File)
}

func (h *Handler) handleInactive(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	command, group := commandArgs(update.Message.Text)
	var groups []string
	switch command {
	case "/inactiveall":
	case "/inactive":
		if group == "" {
			h.reply(ctx, b, update, "Usage: /inactive <group name>\nUse /inactiveall to check every group.")
			return
		}
		groups = []string{group}
	default:
		return
	}

	h.reply(ctx, b, update, "⏳ Scanning message history, this can take a while...")

	report, err := h.analytics.Inactive(ctx, groups...)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	r := report.Result
	h.reply(ctx, b, update, fmt.Sprintf("✅ %d of %d candidates inactive\nUnread: %d\nUndelivered: %d\nUnknown authors: %d\nSkipped groups: %d",
		len(r.Inactive), r.Candidates, len(r.Unread), len(r.Undelivered), len(r.Unknown), len(r.Skipped)))
	for _, file := range report.Files {
		h.sendReport(ctx, b, update, file)
	}
}

func (h *Handler) handleExclusive(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	report, err := h.analytics.Exclusive(ctx)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}
	h.sendReport(ctx, b, update, report.File)
}

func (h *Handler) handleRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	_, args := commandArgs(update.Message.Text)
	ids := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' })
	if len(ids) == 0 {
		h.reply(ctx, b, update, "Usage: /remove <id1,id2,...>")
		return
	}

	plan, err := h.community.PlanRemoval(ctx, ids)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	var text strings.Builder
	for _, s := range plan.Skipped {
		text.WriteString(fmt.Sprintf("⚠️ Skipping %s: %v\n", s.UserID, s.Reason))
	}
	if len(plan.Users) == 0 {
		text.WriteString("Nothing to remove.")
		h.reply(ctx, b, update, text.String())
		return
	}

	h.mu.Lock()
	h.pending[update.Message.Chat.ID] = plan
	h.mu.Unlock()

	text.WriteString("About to remove from the community:\n")
	for _, u := range plan.Users {
		text.WriteString(fmt.Sprintf("• %s (%s) in %s\n", u.ID, u.Name, strings.Join(u.Groups, ", ")))
	}
	text.WriteString("\nSend /confirm to remove or /cancel to keep them.")
	h.reply(ctx, b, update, text.String())
}

func (h *Handler) takePending(chatID int64) *communityService.RemovalPlan {
	h.mu.Lock()
	defer h.mu.Unlock()
	plan := h.pending[chatID]
	delete(h.pending, chatID)
	return plan
}

func (h *Handler) handleConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	plan := h.takePending(update.Message.Chat.ID)
	if plan == nil {
		h.replyError(ctx, b, update, errors.ErrNoPendingRemoval)
		return
	}

	if err := h.community.Remove(ctx, plan); err != nil {
		h.replyError(ctx, b, update, err)
		return
	}
	h.reply(ctx, b, update, fmt.Sprintf("✅ Removed %d user(s)", len(plan.Users)))
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	if h.takePending(update.Message.Chat.ID) == nil {
		h.reply(ctx, b, update, "Nothing to cancel.")
		return
	}
	h.reply(ctx, b, update, "Removal cancelled.")
}

func (h *Handler) handleReload(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	snapshot, err := h.community.Load(ctx)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}
	h.reply(ctx, b, update, fmt.Sprintf("🔄 Reloaded %s: %d groups, %d participants",
		snapshot.Community.Name, len(snapshot.Groups), snapshot.Registry.Len()))
}
