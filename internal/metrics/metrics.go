package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	ChatMessages    *prometheus.CounterVec // по intent
	OrdersPlaced    prometheus.Counter
	OrderFailures   *prometheus.CounterVec // по reason
	OrdersCancelled prometheus.Counter

	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	chat := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bites",
		Name:      "chat_messages_total",
		Help:      "Chat messages by classified intent.",
	}, []string{"intent"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bites",
		Name:      "orders_placed_total",
		Help:      "Orders persisted.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bites",
		Name:      "order_failures_total",
		Help:      "Rejected or failed order placements.",
	}, []string{"reason"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bites",
		Name:      "orders_cancelled_total",
		Help:      "Cancel requests.",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bites",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bites",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"handler"})

	r.MustRegister(chat, placed, failures, cancelled, requests, latency)
	return &Registry{
		reg:             r,
		ChatMessages:    chat,
		OrdersPlaced:    placed,
		OrderFailures:   failures,
		OrdersCancelled: cancelled,
		Requests:        requests,
		LatencyMS:       latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
