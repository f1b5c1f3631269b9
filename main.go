package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/bot"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/camera"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/config"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/history"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/llm"
)

var version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	tg, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	tg.Debug = false
	log.Info().Str("username", tg.Self.UserName).Msg("authorized on account")

	bot.RegisterCommands(tg)

	// History snapshots are encrypted at rest only when a passphrase is set.
	var encryptionKey []byte
	if cfg.HistoryPassphrase != "" {
		encryptionKey, err = history.DeriveKey(cfg.HistoryPassphrase)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to derive history encryption key")
		}
	}

	store, err := history.NewSQLiteStore(cfg.DBPath, encryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize history store")
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.DBPath).Bool("encrypted", encryptionKey != nil).Msg("history store initialized")

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gemini, err := llm.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gemini analyzer")
	}
	analyzer := llm.NewCachedAnalyzer(gemini, store)
	log.Info().Msg("gemini analyzer initialized with caching")

	var cam *camera.Camera
	if cfg.CameraSnapshotURL != "" {
		cam = camera.New(cfg.CameraSnapshotURL)
		log.Info().Str("url", cfg.CameraSnapshotURL).Msg("live capture enabled")
	} else {
		log.Info().Msg("no camera configured, live capture disabled")
	}

	b := bot.NewBot(tg, store, analyzer, cam)
	b.SetVersion(version)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runBot(ctx, tg, b)
	})

	if cam != nil {
		monitor := camera.NewMonitor(cam, cfg.CameraProbeInterval)
		g.Go(func() error {
			monitor.Run(ctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}

	// Component teardown is a camera exit path too.
	if cam != nil {
		cam.Stop()
	}
}

func runBot(ctx context.Context, tg *tgbotapi.BotAPI, b *bot.Bot) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := tg.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping bot update loop")
			tg.StopReceivingUpdates()
			log.Info().Msg("waiting for active handlers to finish")
			wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				log.Warn().Msg("updates channel closed")
				wg.Wait()
				return nil
			}
			wg.Add(1)
			go func(u tgbotapi.Update) {
				defer wg.Done()
				b.HandleUpdate(ctx, u)
			}(update)
		}
	}
}
