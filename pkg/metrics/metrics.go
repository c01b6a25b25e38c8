package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	RidesBookedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rides_booked_total",
			Help: "Total number of rides booked",
		},
		[]string{"service", "ride_type"},
	)

	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_assignments_total",
			Help: "Total number of rider assignment attempts by outcome",
		},
		[]string{"service", "outcome"},
	)

	AssignmentDistanceKm = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ride_assignment_distance_km",
			Help:    "Distance between pickup and the selected rider in kilometers",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50},
		},
	)

	GeocodeLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Total number of geocoding lookups",
		},
		[]string{"service", "status"},
	)

	GeocodeLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocode_lookup_duration_seconds",
			Help:    "Geocoding lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	ActiveRidersGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "active_riders_total",
			Help: "Current number of active riders with a known location",
		},
		[]string{"service"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordAssignment records the outcome of one assignment attempt.
func RecordAssignment(service, outcome string, distanceKm float64) {
	AssignmentsTotal.WithLabelValues(service, outcome).Inc()
	if outcome == "assigned" {
		AssignmentDistanceKm.Observe(distanceKm)
	}
}

// RecordGeocodeLookup records geocoding lookup metrics
func RecordGeocodeLookup(service string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GeocodeLookupsTotal.WithLabelValues(service, status).Inc()
	GeocodeLookupDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueriesTotal.WithLabelValues(service, operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status).Inc()
}
