// Package metrics exposes Prometheus counters for game activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trivia"

// Recorder records game and HTTP metrics into its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	gamesCreated     prometheus.Counter
	playersJoined    prometheus.Counter
	gamesStarted     prometheus.Counter
	answersSubmitted *prometheus.CounterVec
	updateConflicts  *prometheus.CounterVec
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		gamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Games created.",
		}),
		playersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_joined_total",
			Help:      "Players added to a game.",
		}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games moved to the started state.",
		}),
		answersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_submitted_total",
			Help:      "Answers recorded, by correctness.",
		}, []string{"correct"}),
		updateConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_update_conflicts_total",
			Help:      "Game writes rejected because another writer updated the game first.",
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.gamesCreated,
		r.playersJoined,
		r.gamesStarted,
		r.answersSubmitted,
		r.updateConflicts,
		r.requests,
		r.requestDuration,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) GameCreated() {
	if r == nil {
		return
	}
	r.gamesCreated.Inc()
}

func (r *Recorder) PlayerJoined() {
	if r == nil {
		return
	}
	r.playersJoined.Inc()
}

func (r *Recorder) GameStarted() {
	if r == nil {
		return
	}
	r.gamesStarted.Inc()
}

func (r *Recorder) AnswerSubmitted(correct bool) {
	if r == nil {
		return
	}
	r.answersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// UpdateConflict counts a rejected compare-and-swap write for the named operation
func (r *Recorder) UpdateConflict(operation string) {
	if r == nil {
		return
	}
	r.updateConflicts.WithLabelValues(operation).Inc()
}

// ObserveRequest records one served HTTP request. Route is the matched
// route template, not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
