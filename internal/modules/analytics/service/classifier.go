package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	activityDomain "github.com/reshetovitsme/community-analytics/internal/modules/activity/domain"
	activityService "github.com/reshetovitsme/community-analytics/internal/modules/activity/service"
	"github.com/reshetovitsme/community-analytics/internal/modules/analytics/domain"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	participantService "github.com/reshetovitsme/community-analytics/internal/modules/participant/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const previewLength = 100

// MessageSource is what the classifier needs from the messaging platform.
type MessageSource interface {
	activityService.InfoFetcher
	GetMessages(ctx context.Context, chatID string, limit int) ([]*chatDomain.Message, error)
}

// ClassifierOptions configures one classification run.
type ClassifierOptions struct {
	ActivityWindow activityDomain.Window
	JoinWindow     activityDomain.Window
	CountableKinds []chatDomain.ContentKind
	JoinSubtypes   []chatDomain.JoinSubtype
	TopActiveUsers int
	MessageLimit   int
	// Concurrency is the number of chats scanned at once; 1 scans sequentially.
	Concurrency int
}

// Classifier partitions registry participants into active and inactive.
type Classifier struct {
	source  MessageSource
	filter  *activityService.Filter
	joins   *activityService.JoinDetector
	opts    ClassifierOptions
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewClassifier creates a classifier
func NewClassifier(source MessageSource, opts ClassifierOptions, m metrics.Recorder, logger *slog.Logger) *Classifier {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.TopActiveUsers < 1 {
		opts.TopActiveUsers = 10
	}
	return &Classifier{
		source:  source,
		filter:  activityService.NewFilter(opts.ActivityWindow, opts.CountableKinds),
		joins:   activityService.NewJoinDetector(opts.JoinWindow, opts.JoinSubtypes),
		opts:    opts,
		metrics: m,
		logger:  logger,
	}
}

// chatScan is everything one chat contributes. It is owned by the goroutine
// scanning the chat until the group finishes.
type chatScan struct {
	chat     *chatDomain.Chat
	points   []activityDomain.Point
	top      []domain.UserTally
	receipts *activityService.ReceiptTracker
	messages int
	joins    int
	skipped  bool
}

// Classify scans the target groups and classifies every non-admin participant.
// Only cancellation of ctx aborts the run; per-chat and per-message failures
// are logged and skipped. Results are merged in target order so the outcome
// does not depend on which chat finishes first.
func (c *Classifier) Classify(ctx context.Context, registry *participantService.Registry, targets []*chatDomain.Chat) (*domain.InactivityResult, error) {
	started := time.Now()
	scans := make([]*chatScan, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, chat := range targets {
		g.Go(func() error {
			scan, err := c.scanChat(gctx, chat)
			if err != nil {
				return err
			}
			scans[i] = scan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := c.merge(registry, scans)
	c.metrics.ObserveScanDuration(time.Since(started))

	c.logger.Info("Classification finished",
		"candidates", result.Candidates,
		"inactive", len(result.Inactive),
		"unread", len(result.Unread),
		"undelivered", len(result.Undelivered),
		"unknown_authors", len(result.Unknown),
		"receipts_checked", result.ReceiptsChecked,
		"duration", time.Since(started),
	)
	return result, nil
}

func (c *Classifier) scanChat(ctx context.Context, chat *chatDomain.Chat) (*chatScan, error) {
	logger := c.logger.With("group", chat.Name)
	scan := &chatScan{chat: chat, receipts: activityService.NewReceiptTracker()}

	logger.Info("Checking recent messages", "limit", c.opts.MessageLimit)
	history, err := c.source.GetMessages(ctx, chat.ID, c.opts.MessageLimit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("Failed to fetch messages, skipping group", "error", err)
		scan.skipped = true
		c.metrics.IncChatsSkipped()
		return scan, nil
	}

	var order []string
	perUser := make(map[string]int)

	for _, msg := range history {
		if !c.filter.Counts(msg) {
			continue
		}
		scan.messages++
		scan.points = append(scan.points, activityDomain.Point{
			UserID:    msg.Author,
			ChatID:    chat.ID,
			ChatName:  chat.Name,
			MessageID: msg.ID,
			Timestamp: msg.Timestamp,
			Source:    activityDomain.SourceMessage,
			Kind:      msg.Kind,
			Preview:   msg.Preview(previewLength),
		})

		if _, seen := perUser[msg.Author]; !seen {
			order = append(order, msg.Author)
		}
		perUser[msg.Author]++

		// Receipt lookups stay in history order: each one mutates the chat's tracker.
		tracked, err := scan.receipts.Track(ctx, c.source, msg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Failed to fetch receipts", "message_id", msg.ID, "error", err)
			continue
		}
		if tracked {
			c.metrics.IncReceiptLookups()
		}
	}

	for _, ev := range c.joins.Detect(history) {
		scan.joins++
		scan.points = append(scan.points, ev.Point(chat.Name))
	}

	logger.Debug("Filtered history",
		"fetched", len(history),
		"countable_messages", scan.messages,
		"join_events", scan.joins,
	)

	if scan.messages == 0 && scan.joins == 0 {
		logger.Warn("Found no countable messages, is the operator a member of this group?")
		scan.skipped = true
		c.metrics.IncChatsSkipped()
		return scan, nil
	}

	scan.top = topActive(order, perUser, c.opts.TopActiveUsers)
	for _, u := range scan.top {
		logger.Debug("Active user", "user_id", u.UserID, "messages", u.Messages)
	}
	logger.Info("Checked operator messages for read status", "count", scan.receipts.Checked())

	c.metrics.IncChatsScanned()
	c.metrics.AddMessagesCounted(scan.messages)
	c.metrics.AddJoinEventsCounted(scan.joins)
	return scan, nil
}

// topActive ranks users by message count; ties keep encounter order.
func topActive(order []string, counts map[string]int, n int) []domain.UserTally {
	tallies := lo.Map(order, func(id string, _ int) domain.UserTally {
		return domain.UserTally{UserID: id, Messages: counts[id]}
	})
	slices.SortStableFunc(tallies, func(a, b domain.UserTally) int {
		return b.Messages - a.Messages
	})
	if len(tallies) > n {
		tallies = tallies[:n]
	}
	return tallies
}

func (c *Classifier) merge(registry *participantService.Registry, scans []*chatScan) *domain.InactivityResult {
	result := &domain.InactivityResult{
		Activity: make(map[string][]activityDomain.Point),
	}
	receipts := activityService.NewReceiptTracker()
	unknownIndex := make(map[string]int)

	for _, scan := range scans {
		result.Groups = append(result.Groups, scan.chat.Name)
		if scan.skipped {
			result.Skipped = append(result.Skipped, scan.chat.Name)
			continue
		}
		receipts.Merge(scan.receipts)
		result.TopActive = append(result.TopActive, domain.GroupTally{Group: scan.chat.Name, Users: scan.top})

		for _, p := range scan.points {
			if registry.Has(p.UserID) {
				result.Activity[p.UserID] = append(result.Activity[p.UserID], p)
				continue
			}
			c.logger.Warn("Activity from user not found in community, check this number",
				"user_id", p.UserID,
				"group", p.ChatName,
				"source", p.Source.String(),
				"preview", p.Preview,
			)
			idx, ok := unknownIndex[p.UserID]
			if !ok {
				idx = len(result.Unknown)
				unknownIndex[p.UserID] = idx
				result.Unknown = append(result.Unknown, domain.UnknownAuthor{UserID: p.UserID})
			}
			result.Unknown[idx].Points = append(result.Unknown[idx].Points, p)
		}
	}
	result.ReceiptsChecked = receipts.Checked()

	candidates := registry.GetNonAdmins()
	result.Candidates = len(candidates)
	c.logger.Info("Considering participants as potentially inactive",
		"participants", registry.Len(),
		"candidates", len(candidates),
	)

	for _, p := range candidates {
		count := len(result.Activity[p.ID])
		if count > 0 {
			continue
		}
		user := domain.InactiveUser{Participant: p, MessageCount: count}
		result.Inactive = append(result.Inactive, user)

		// Undelivered implies unread, so the second partition nests inside the first.
		if receipts.HasRead(p.ID) {
			continue
		}
		result.Unread = append(result.Unread, user)
		if !receipts.HasReceived(p.ID) {
			result.Undelivered = append(result.Undelivered, user)
		}
	}

	return result
}
