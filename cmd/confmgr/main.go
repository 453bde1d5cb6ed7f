// Command confmgr manages conference rooms and the events scheduled in them.
// Each invocation loads the stored snapshot, applies the requested operation
// through the scheduling services, and saves the result back.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/conference-manager/internal/application"
	"github.com/example/conference-manager/internal/config"
	"github.com/example/conference-manager/internal/persistence"
)

var rootCmd = &cobra.Command{
	Use:           "confmgr",
	Short:         "Manage conference rooms, events, speakers, and enrollment.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// withEngine loads the snapshot into a fresh engine, runs fn, and saves the
// state back when save is set and fn succeeded.
func withEngine(save bool, fn func(ctx context.Context, engine *application.Engine) error) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	repo, err := newSnapshotRepository(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Error("failed to close snapshot store", "error", cerr)
		}
	}()

	engine := application.NewEngine(uuid.NewString, time.Now, logger,
		application.WithSuggestionCacheTTL(cfg.SuggestionCacheTTL))

	snap, err := repo.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, persistence.ErrNoSnapshot):
		// First run against an empty store.
	case err != nil:
		return err
	default:
		if err := engine.Restore(snap.DomainRooms(), snap.DomainEvents()); err != nil {
			return err
		}
		if err := engine.Directory.Restore(snap.DomainUsers()); err != nil {
			return err
		}
	}

	if err := fn(ctx, engine); err != nil {
		return err
	}

	if save {
		rooms, events := engine.State()
		out := persistence.SnapshotFromDomain(rooms, events, time.Now().UTC()).
			WithUsers(engine.Directory.Export())
		return repo.SaveSnapshot(ctx, out)
	}
	return nil
}
