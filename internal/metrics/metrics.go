package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "perkakas",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "perkakas",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ProductsCreatedTotal counts products created through the API.
	ProductsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "perkakas",
		Name:      "products_created_total",
		Help:      "Products created through the API",
	})

	// SeedInsertedTotal counts products inserted by seeding.
	SeedInsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "perkakas",
		Name:      "seed_inserted_total",
		Help:      "Products inserted by catalog seeding",
	})

	// SearchResults observes how many products each search returned.
	SearchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "perkakas",
		Name:      "search_results",
		Help:      "Number of products returned per search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	// StoreErrorsTotal counts store failures by operation.
	StoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perkakas",
		Name:      "store_errors_total",
		Help:      "Store failures by operation",
	}, []string{"operation"})
)

func init() {
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		ProductsCreatedTotal,
		SeedInsertedTotal,
		SearchResults,
		StoreErrorsTotal,
	)
}

// Middleware records HTTP request duration and count, labelled by route
// pattern to keep cardinality bounded.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		if path == "" {
			path = "unknown"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(labels...).Inc()
		return err
	}
}
