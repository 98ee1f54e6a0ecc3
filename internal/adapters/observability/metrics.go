package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelverse", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotelverse", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelverse", Name: "store_operations_total", Help: "Document store operations."},
		[]string{"driver", "op", "status"},
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotelverse", Name: "store_operation_duration_seconds",
			Help:    "Document store operation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "op"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelverse", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	Quotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelverse", Name: "quotes_total", Help: "Booking quotes computed."},
		[]string{"weekend"},
	)
	SeedInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelverse", Name: "seed_inserted_total", Help: "Documents inserted by seeding."},
		[]string{"collection"},
	)
)

// Serve exposes reg on a dedicated listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StoreOperations, StoreLatency, CacheEvents, Quotes, SeedInserted)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStore(driver, op string, err error, dur time.Duration) {
	StoreOperations.WithLabelValues(driver, op, statusLabel(err)).Inc()
	StoreLatency.WithLabelValues(driver, op).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveQuote(weekend bool) {
	Quotes.WithLabelValues(strconv.FormatBool(weekend)).Inc()
}

func ObserveSeed(collection string, inserted int) {
	SeedInserted.WithLabelValues(collection).Add(float64(inserted))
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
