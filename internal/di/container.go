package di

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-telegram/bot"
	analyticsService "github.com/reshetovitsme/community-analytics/internal/modules/analytics/service"
	chatRepo "github.com/reshetovitsme/community-analytics/internal/modules/chat/repository"
	chatService "github.com/reshetovitsme/community-analytics/internal/modules/chat/service"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	reportRepo "github.com/reshetovitsme/community-analytics/internal/modules/report/repository"
	reportService "github.com/reshetovitsme/community-analytics/internal/modules/report/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/cache"
	"github.com/reshetovitsme/community-analytics/internal/shared/config"
	"github.com/reshetovitsme/community-analytics/internal/shared/metrics"
	"github.com/reshetovitsme/community-analytics/internal/transport/console"
	httpServer "github.com/reshetovitsme/community-analytics/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/community-analytics/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container. Providers run lazily
// on first invocation, so the config is read when something first needs it.
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (metrics.Recorder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return metrics.New(cfg.MetricsEnabled), nil
	})

	// Register Receipt Cache
	do.Provide(injector, func(i do.Injector) (cache.Cache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg.CacheSizeMB, cfg.ReceiptCacheTTL), nil
	})

	// Register Chat Repository
	do.Provide(injector, func(i do.Injector) (chatRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		storage, err := chatRepo.NewSnapshotStorage(cfg.SnapshotPath)
		if err != nil {
			return nil, oops.With("snapshot_path", cfg.SnapshotPath, "context", "failed to initialize chat repository").Wrap(err)
		}
		return chatRepo.NewCachedRepository(storage, do.MustInvoke[cache.Cache](i), do.MustInvoke[metrics.Recorder](i)), nil
	})

	// Register Chat Service
	do.Provide(injector, func(i do.Injector) (*chatService.Service, error) {
		return chatService.New(do.MustInvoke[chatRepo.Repository](i)), nil
	})

	// Register Community Service
	do.Provide(injector, func(i do.Injector) (*communityService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		chats := do.MustInvoke[*chatService.Service](i)
		return communityService.New(chats, cfg.CommunityID, cfg.OperatorID, slog.Default()), nil
	})

	// Register Report Repository
	do.Provide(injector, func(i do.Injector) (reportRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := reportRepo.NewFileStorage(cfg.ReportsPath)
		if err != nil {
			return nil, oops.With("reports_path", cfg.ReportsPath, "context", "failed to initialize report repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Report Service
	do.Provide(injector, func(i do.Injector) (*reportService.Service, error) {
		repo := do.MustInvoke[reportRepo.Repository](i)
		return reportService.New(repo, do.MustInvoke[metrics.Recorder](i), slog.Default()), nil
	})

	// Register Analytics Service
	do.Provide(injector, func(i do.Injector) (*analyticsService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return analyticsService.New(
			do.MustInvoke[*communityService.Service](i),
			do.MustInvoke[*chatService.Service](i),
			do.MustInvoke[*reportService.Service](i),
			do.MustInvoke[metrics.Recorder](i),
			slog.Default(),
			analyticsService.Options{
				ActivityWindowDays: cfg.ActivityWindowDays,
				JoinWindowDays:     cfg.JoinWindowDays,
				CountableKinds:     cfg.CountableKinds,
				JoinSubtypes:       cfg.JoinSubtypes,
				TopActiveUsers:     cfg.TopActiveUsers,
				MessageLimit:       cfg.MessageLimit,
				Concurrency:        cfg.ScanConcurrency,
				GroupsSeparator:    cfg.GroupsSeparator,
			},
		), nil
	})

	// Register Console
	do.Provide(injector, func(i do.Injector) (*console.Console, error) {
		return console.New(
			os.Stdin,
			os.Stdout,
			do.MustInvoke[*analyticsService.Service](i),
			do.MustInvoke[*communityService.Service](i),
			slog.Default(),
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		reports := do.MustInvoke[*reportService.Service](i)
		return httpServer.New(cfg.HTTPPort, reports, do.MustInvoke[metrics.Recorder](i).Handler(), slog.Default()), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return telegramHandler.New(
			cfg.AllowedUsers,
			do.MustInvoke[*analyticsService.Service](i),
			do.MustInvoke[*communityService.Service](i),
			do.MustInvoke[*reportService.Service](i),
			slog.Default(),
		), nil
	})

	// Register Bot; only invoked when a token is configured
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		handler.RegisterCommands(b)
		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down the services that were started
func Shutdown(ctx context.Context, injector do.Injector) error {
	if cfg, err := do.Invoke[*config.Config](injector); err == nil && cfg.TelegramBotToken != "" {
		if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
			b.Close(ctx)
		}
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to stop http server").Wrap(err)
		}
	}

	return nil
}
