package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/community-analytics/internal/di"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/config"
	"github.com/reshetovitsme/community-analytics/internal/transport/console"
	httpServer "github.com/reshetovitsme/community-analytics/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	os.Exit(run())
}

// newLogger fans out to a text handler on stdout and a JSON handler on stderr
// that only carries errors.
func newLogger(level slog.Leveler, addSource bool) *slog.Logger {
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(slogmulti.Fanout(textHandler, jsonHandler))
}

func run() int {
	level := new(slog.LevelVar)
	slog.SetDefault(newLogger(level, false))

	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		return 1
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		slog.Warn("Invalid log level, keeping info", "log_level", cfg.LogLevel)
	}
	if cfg.AppEnv == config.AppEnvLocal || cfg.AppEnv == config.AppEnvDevelopment {
		slog.SetDefault(newLogger(level, true))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := di.Shutdown(shutdownCtx, injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	community, err := do.Invoke[*communityService.Service](injector)
	if err != nil {
		slog.Error("Failed to initialize community service", "error", err)
		return 1
	}
	snapshot, err := community.Load(ctx)
	if err != nil {
		slog.Error("Failed to load community", "community_id", cfg.CommunityID, "error", err)
		return 1
	}
	slog.Info("Community loaded",
		"community", snapshot.Community.Name,
		"groups", len(snapshot.Groups),
		"participants", snapshot.Registry.Len(),
		"env", cfg.AppEnv.String(),
	)

	serving := false

	if cfg.HTTPEnabled {
		server := do.MustInvoke[*httpServer.Server](injector)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("Failed to start HTTP server", "error", err)
				cancel()
			}
		}()
		serving = true
	}

	if cfg.TelegramBotToken != "" {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			slog.Error("Failed to start telegram bot", "error", err)
			return 1
		}
		go b.Start(ctx)
		slog.Info("Telegram bot started", "allowed_users", len(cfg.AllowedUsers))
		serving = true
	}

	menu := do.MustInvoke[*console.Console](injector)
	err = menu.Run(ctx)
	switch {
	case errors.Is(err, io.EOF) && serving:
		slog.Info("Console input closed, serving until interrupted")
		<-ctx.Done()
	case err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil:
		slog.Error("Console failed", "error", err)
		return 1
	}

	slog.Info("Shutting down...")
	return 0
}
