package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI provider requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	AnalysesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total number of completed skill analyses",
		},
	)
	SkillsMatchedHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_skills_matched",
			Help:    "Distribution of matched skill counts per analysis document",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"document"},
	)
	CoachTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_turns_total",
			Help: "Total number of coaching turns by engine",
		},
		[]string{"engine"},
	)
)

var registered bool

// InitMetrics registers all collectors. Safe to call once per process.
func InitMetrics() {
	if registered {
		return
	}
	registered = true
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(SkillsMatchedHistogram)
	prometheus.MustRegister(CoachTurnsTotal)
}

// ObserveAnalysis records one completed analysis.
func ObserveAnalysis(jdMatched, resumeMatched int) {
	AnalysesTotal.Inc()
	SkillsMatchedHistogram.WithLabelValues("jd").Observe(float64(jdMatched))
	SkillsMatchedHistogram.WithLabelValues("resume").Observe(float64(resumeMatched))
}

// ObserveCoachTurn records one coaching exchange.
func ObserveCoachTurn(engine string) {
	CoachTurnsTotal.WithLabelValues(engine).Inc()
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}
