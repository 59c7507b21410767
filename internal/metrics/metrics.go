package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all convene metrics
const namespace = "convene"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// UsersRegistered counts successful account registrations
var UsersRegistered = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of accounts created",
	},
)

// EventsCreated counts successful event creations
var EventsCreated = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of events created",
	},
)

// EventsUpdated counts successful event updates
var EventsUpdated = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_updated_total",
		Help:      "Total number of events updated",
	},
)

// EventsDeleted counts successful event deletions
var EventsDeleted = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_deleted_total",
		Help:      "Total number of events deleted",
	},
)

// EventRegistrations counts successful participant registrations
var EventRegistrations = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_registrations_total",
		Help:      "Total number of participants registered to events",
	},
)

// EmailsSent counts notification emails handed off successfully, by kind
var EmailsSent = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of notification emails sent",
	},
	[]string{"kind"},
)

// EmailsFailed counts notification emails that could not be delivered, by kind
var EmailsFailed = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_failed_total",
		Help:      "Total number of notification emails that failed to send",
	},
	[]string{"kind"},
)

// NotificationsDropped counts notifications discarded because the dispatch
// queue was full
var NotificationsDropped = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped due to a full queue",
	},
)

// Init sets the application info metric and registers runtime collectors.
func Init(version, commit, buildDate string) {
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
