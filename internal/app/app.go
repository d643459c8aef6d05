// Package app provides the top-level application lifecycle for the
// adjudicator. It wires together all dependencies (snapshot store, price
// cache, platform clients, archival, notifications) and dispatches the
// requested command.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soothsayer/adjudicator/internal/config"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, dispatches the
// requested command, and returns its result. On return the caller should
// invoke Close to release resources.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("app: no command given (expected scan, resolve, leaderboard, all, or market)")
	}

	a.logger.InfoContext(ctx, "starting adjudicator",
		slog.String("command", args[0]),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch args[0] {
	case "scan":
		return a.Scan(ctx, deps)
	case "resolve":
		return a.Resolve(ctx, deps)
	case "leaderboard":
		return a.Leaderboard(ctx, deps)
	case "all":
		return a.All(ctx, deps)
	case "market":
		return a.Market(ctx, deps, args[1:])
	default:
		return fmt.Errorf("app: unknown command %q", args[0])
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
