package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/bitcalbot/internal/calendar"
	"github.com/edgard/bitcalbot/internal/formatter"
	"github.com/edgard/bitcalbot/internal/metrics"
)

// metricsPushTimeout bounds the Pushgateway call made at the end of a run.
const metricsPushTimeout = 10 * time.Second

// Formatter renders one event.
type Formatter interface {
	Format(e calendar.Event) formatter.Message
}

// Publisher sends one formatted event and reports whether it was accepted.
type Publisher interface {
	Publish(ctx context.Context, msg formatter.Message) bool
}

// PosterDeps contains all dependencies required by a Poster.
type PosterDeps struct {
	Logger    *slog.Logger
	Source    calendar.Source
	Formatter Formatter
	Publisher Publisher

	// Today returns the month and day to query for the given instant.
	Today func(now time.Time) (month, day string)
	// Interval separates two consecutive posts.
	Interval time.Duration
	// Delayer defaults to TimerDelayer.
	Delayer Delayer
	// Now defaults to time.Now.
	Now func() time.Time

	// Metrics and PushgatewayURL are optional.
	Metrics        *metrics.Recorder
	PushgatewayURL string
}

// Report summarises one run.
type Report struct {
	Fetched     int
	Posted      int
	Failed      int
	Interrupted bool
}

// Poster runs the daily fetch, format, publish loop.
type Poster struct {
	deps PosterDeps
	log  *slog.Logger
}

// NewPoster creates a Poster, filling in defaults for optional dependencies.
func NewPoster(deps PosterDeps) *Poster {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Delayer == nil {
		deps.Delayer = TimerDelayer{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Today == nil {
		deps.Today = func(now time.Time) (string, string) {
			return fmt.Sprintf("%02d", int(now.Month())), fmt.Sprintf("%02d", now.Day())
		}
	}
	return &Poster{
		deps: deps,
		log:  deps.Logger.With("component", "poster"),
	}
}

// Run performs one posting run. Events are posted in the order the source
// returned them, with deps.Interval between consecutive posts. A failed post
// is logged and skipped. Run returns an error only when ctx is cancelled
// before the last event was posted.
func (p *Poster) Run(ctx context.Context) (Report, error) {
	var report Report
	start := p.deps.Now()

	defer func() {
		p.deps.Metrics.RunFinished(start, !report.Interrupted)
		p.pushMetrics(ctx)
	}()

	month, day := p.deps.Today(start)
	p.log.InfoContext(ctx, "Starting daily Bitcoin events posting", "month", month, "day", day)

	events := p.deps.Source.FetchEvents(ctx, month, day)
	report.Fetched = len(events)
	p.deps.Metrics.EventsFetched(len(events))

	if len(events) == 0 {
		p.log.InfoContext(ctx, "No events found for today")
		return report, nil
	}
	p.log.InfoContext(ctx, "Found events for today", "count", len(events))

	for i, event := range events {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			return report, fmt.Errorf("run interrupted before event %d of %d: %w", i+1, len(events), err)
		}

		log := p.log.With("event", i+1, "total", len(events), "title", event.Title.Or("Unknown"))
		log.InfoContext(ctx, "Processing event")

		msg := p.deps.Formatter.Format(event)
		log.DebugContext(ctx, "Formatted message",
			"length", len(msg.Body),
			"media_url", msg.MediaURL,
			"media_kind", string(msg.MediaKind))

		ok := p.deps.Publisher.Publish(ctx, msg)
		p.deps.Metrics.PostResult(ok)
		if ok {
			report.Posted++
			log.InfoContext(ctx, "Posted event")
		} else {
			report.Failed++
			log.ErrorContext(ctx, "Failed to post event")
		}

		if i < len(events)-1 {
			log.InfoContext(ctx, "Waiting before posting next event", "delay", p.deps.Interval)
			if err := p.deps.Delayer.Wait(ctx, p.deps.Interval); err != nil {
				report.Interrupted = true
				return report, fmt.Errorf("run interrupted after event %d of %d: %w", i+1, len(events), err)
			}
		}
	}

	p.log.InfoContext(ctx, "Daily posting completed", "posted", report.Posted, "failed", report.Failed)
	return report, nil
}

func (p *Poster) pushMetrics(ctx context.Context) {
	if p.deps.Metrics == nil || p.deps.PushgatewayURL == "" {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsPushTimeout)
	defer cancel()
	if err := p.deps.Metrics.Push(pushCtx, p.deps.PushgatewayURL); err != nil {
		p.log.WarnContext(ctx, "Failed to push run metrics", "error", err)
	}
}
