package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by route, method, and status.",
	}, []string{"route", "method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// ObserveRequest records a completed request.
func (h *HTTPMetrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// CheckoutMetrics records sale outcomes for the checkout pipeline.
type CheckoutMetrics struct {
	completed  *prometheus.CounterVec
	itemsSold  prometheus.Counter
	stockShort prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sales_total",
		Help: "Completed checkouts by outcome.",
	}, []string{"outcome"})
	itemsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_items_sold_total",
		Help: "Units decremented from inventory by completed sales.",
	})
	stockShort := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_insufficient_stock_total",
		Help: "Checkout attempts rejected for insufficient stock.",
	})
	reg.MustRegister(completed, itemsSold, stockShort)
	return &CheckoutMetrics{
		completed:  completed,
		itemsSold:  itemsSold,
		stockShort: stockShort,
	}
}

// IncCompleted increments the completed-sale counter.
func (c *CheckoutMetrics) IncCompleted(units int) {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.WithLabelValues("completed").Inc()
	c.itemsSold.Add(float64(units))
}

// IncRejected increments the rejected-sale counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.WithLabelValues(normalizeLabel(reason)).Inc()
	if reason == "insufficient_stock" {
		c.stockShort.Inc()
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
