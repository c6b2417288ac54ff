package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hourkeep_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hourkeep_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	AssessmentsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hourkeep_assessments_finalized_total",
			Help: "Assessments finalized, by recommended compliance method",
		},
		[]string{"method"},
	)

	AutosaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hourkeep_autosave_failures_total",
			Help: "Progress autosaves that failed and were dropped",
		},
	)

	FinalizeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hourkeep_finalize_failures_total",
			Help: "Finalizations whose result could not be persisted",
		},
	)

	LogEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hourkeep_log_entries_total",
			Help: "Log entries written at warning level or above",
		},
		[]string{"level"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AssessmentsFinalized)
	prometheus.MustRegister(AutosaveFailures)
	prometheus.MustRegister(FinalizeFailures)
	prometheus.MustRegister(LogEntries)
}

// Middleware records request counts and latency. endpoint maps a request to
// its route pattern so path parameters do not explode label cardinality.
func Middleware(endpoint func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			name := endpoint(r)
			RequestCounter.WithLabelValues(r.Method, name, strconv.Itoa(rec.status)).Inc()
			RequestDuration.WithLabelValues(r.Method, name).Observe(time.Since(start).Seconds())
		})
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogHook counts warning and error log entries.
type LogHook struct{}

func (LogHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (LogHook) Fire(entry *logrus.Entry) error {
	LogEntries.WithLabelValues(entry.Level.String()).Inc()
	return nil
}
