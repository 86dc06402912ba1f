package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hqtrivia-bot/internal/app"
	"hqtrivia-bot/internal/config"
	"hqtrivia-bot/internal/domain"
	"hqtrivia-bot/internal/transport/ws"
)

const noShowRetryDelay = 2 * time.Minute

// NewRunCmd builds the CLI subcommand that drives the live session loop.
func NewRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the live broadcast and play",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd.Context(), *configPath)
		},
	}
}

func runLive(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
	}

	store, closeStore, err := buildRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cacheStore := buildCacheStore(cfg)
	fetcher := buildFetcher(cfg, cacheStore)
	machine := app.NewSessionStateMachine(store, fetcher)

	headers := authHeaders(cfg)
	api := ws.NewShowsAPI(nil, cfg.API.BaseURL, cfg.Auth.UserID, headers)

	messageLog, err := openMessageLog(cfg)
	if err != nil {
		return err
	}
	defer messageLog.Close()
	client := ws.NewClient(headers, messageLog)

	for {
		if err := ctx.Err(); err != nil {
			log.Println("shutting down")
			return nil
		}
		machine.Reset()

		socketURL, next, err := api.SocketURL(ctx)
		if err != nil {
			log.Printf("shows lookup failed: %v", err)
			if !sleep(ctx, noShowRetryDelay) {
				return nil
			}
			continue
		}
		if socketURL == "" {
			if next != nil {
				log.Printf("no live broadcast; next show on %s for %s", next.Time, next.Prize)
			}
			if !sleep(ctx, noShowRetryDelay) {
				return nil
			}
			continue
		}

		if err := consumeBroadcast(ctx, client, machine, socketURL); err != nil {
			return fmt.Errorf("session aborted: %w", err)
		}
	}
}

// consumeBroadcast keeps one broadcast's event loop alive across
// reconnects until the session reports a clean end. Handler errors are
// fatal and bubble up.
func consumeBroadcast(ctx context.Context, client *ws.Client, machine *app.SessionStateMachine, socketURL string) error {
	handle := func(event domain.Event) error {
		return machine.Handle(ctx, event)
	}
	for !machine.Finished() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		err := client.Consume(ctx, socketURL, handle, machine.Finished)
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		if errors.Is(err, ws.ErrConnectionLost) {
			log.Println("connection lost, reconnecting")
			continue
		}
		return err
	}
	return nil
}

func openMessageLog(cfg config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.Games.Dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.Games.Dir, "messages.log")
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// sleep waits for the delay unless the context ends first.
func sleep(ctx context.Context, delay time.Duration) bool {
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}
