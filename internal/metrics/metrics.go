// Package metrics records the outcome of posting runs as Prometheus metrics.
// A batch run does not live long enough to be scraped, so the collected
// values are pushed to a Pushgateway when one is configured.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job the metrics are grouped under.
const JobName = "bitcalbot"

// Post results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder collects run metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	language string
	reg      *prometheus.Registry

	eventsFetched prometheus.Gauge
	posts         *prometheus.CounterVec
	runDuration   prometheus.Gauge
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// New creates a recorder with its own registry.
func New(language string) *Recorder {
	r := &Recorder{
		language: language,
		reg:      prometheus.NewRegistry(),
	}

	r.eventsFetched = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bitcalbot",
		Name:      "events_fetched",
		Help:      "Events returned by the content API in the last run",
	})
	r.posts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcalbot",
		Name:      "posts_total",
		Help:      "Publish attempts by result",
	}, []string{"result"})
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bitcalbot",
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run",
	})
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bitcalbot",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
	r.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bitcalbot",
		Name:      "last_run_success",
		Help:      "1 if the last run completed without being interrupted",
	})

	r.reg.MustRegister(r.eventsFetched, r.posts, r.runDuration, r.lastRun, r.lastSuccess)
	r.posts.WithLabelValues(ResultSuccess)
	r.posts.WithLabelValues(ResultFailure)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// EventsFetched records how many events a run received.
func (r *Recorder) EventsFetched(n int) {
	if r == nil {
		return
	}
	r.eventsFetched.Set(float64(n))
}

// PostResult counts one publish attempt.
func (r *Recorder) PostResult(ok bool) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	r.posts.WithLabelValues(result).Inc()
}

// RunFinished records the end of a run that started at start.
func (r *Recorder) RunFinished(start time.Time, completed bool) {
	if r == nil {
		return
	}
	now := time.Now()
	r.runDuration.Set(now.Sub(start).Seconds())
	r.lastRun.Set(float64(now.Unix()))
	if completed {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}
}

// Push sends the collected metrics to the Pushgateway at url, grouped by language.
func (r *Recorder) Push(ctx context.Context, url string) error {
	if r == nil || url == "" {
		return nil
	}
	err := push.New(url, JobName).
		Grouping("language", r.language).
		Gatherer(r.reg).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
