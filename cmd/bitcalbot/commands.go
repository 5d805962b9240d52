package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/bitcalbot/internal/bot"
	"github.com/edgard/bitcalbot/internal/calendar"
	"github.com/edgard/bitcalbot/internal/config"
	"github.com/edgard/bitcalbot/internal/formatter"
	"github.com/edgard/bitcalbot/internal/logger"
	"github.com/edgard/bitcalbot/internal/metrics"
	"github.com/edgard/bitcalbot/internal/telegram"
)

type options struct {
	configPath string
	dryRun     bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bitcalbot",
		Short: "Post today's Bitcoin history events to a Telegram channel",
		Long: "bitcalbot fetches the Bitcoin Calendar events that happened on today's date\n" +
			"and posts them to the configured Telegram channel, one per interval.\n" +
			"Without a subcommand it performs a single run, like the run command.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional YAML config file; environment variables take precedence")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "format and log messages without posting them")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Fetch and post today's events once, then exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runOnce(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Stay running and post every day on the configured SCHEDULE",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runScheduled(cmd.Context(), opts)
			},
		},
	)
	return root
}

// app holds the components shared by both commands.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
	poster *bot.Poster
}

// setup loads the configuration and wires the poster. Configuration errors
// are returned before any network activity.
func setup(opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", opts.configPath, "error", err)
		return nil, err
	}

	log, closer, err := logger.New(logger.Options{
		Level:    cfg.LogLevel,
		JSON:     cfg.LogFormat == "json",
		FilePath: cfg.LogFilePath(),
	})
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return nil, err
	}
	log.Info("Bot initialized",
		"language", cfg.Language,
		"target", cfg.TargetName,
		"target_chat", cfg.TargetChatID,
		"test_mode", cfg.TestMode,
		"dry_run", opts.dryRun)

	publisher, err := newPublisher(cfg, log, opts.dryRun)
	if err != nil {
		closer.Close()
		return nil, err
	}

	var recorder *metrics.Recorder
	if cfg.PushgatewayURL != "" {
		recorder = metrics.New(cfg.Language)
	}

	poster := bot.NewPoster(bot.PosterDeps{
		Logger:         log,
		Source:         calendar.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.Language, cfg.FetchTimeout, log),
		Formatter:      formatter.New(cfg.Language),
		Publisher:      publisher,
		Today:          cfg.TodayParts,
		Interval:       cfg.PostInterval,
		Metrics:        recorder,
		PushgatewayURL: cfg.PushgatewayURL,
	})

	return &app{cfg: cfg, log: log, closer: closer, poster: poster}, nil
}

func newPublisher(cfg *config.Config, log *slog.Logger, dryRun bool) (bot.Publisher, error) {
	if dryRun {
		return telegram.NewDryRunPublisher(log), nil
	}
	tg, err := telegram.NewTelegramBot(cfg.TelegramToken, log, tgbot.WithSkipGetMe())
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return nil, err
	}
	return telegram.NewPublisher(tg, cfg.ChatID(), log), nil
}

// runOnce performs a single posting run.
func runOnce(ctx context.Context, opts *options) error {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	return runPoster(ctx, a.log, a.poster)
}

// runPoster runs p once. Cancellation is a graceful stop; any other failure,
// a panic included, is logged and returned.
func runPoster(ctx context.Context, log *slog.Logger, p *bot.Poster) (err error) {
	defer recoverRun(log, &err)

	report, err := p.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("Run interrupted, remaining events abandoned",
			"posted", report.Posted, "failed", report.Failed, "fetched", report.Fetched)
		return nil
	case err != nil:
		log.Error("Bot failed to run", "error", err)
		return err
	}
	return nil
}

// runScheduled keeps posting every day until the process is stopped.
func runScheduled(ctx context.Context, opts *options) (err error) {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer a.closer.Close()
	defer recoverRun(a.log, &err)

	sched, err := bot.NewScheduler(a.log, a.cfg.Location(), bot.PosterJob(a.poster, a.cfg.Schedule))
	if err != nil {
		a.log.Error("Failed to create scheduler", "error", err)
		return err
	}
	return bot.NewService(a.log, sched).Run(ctx)
}

// recoverRun turns a panic during a run into a logged failure.
func recoverRun(log *slog.Logger, err *error) {
	if r := recover(); r != nil {
		log.Error("Bot failed to run", "panic", r)
		*err = fmt.Errorf("panic: %v", r)
	}
}
