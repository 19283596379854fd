package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const statusSuccess = "success"

var registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "credauth_registrations_total",
		Help: "Total number of registration attempts by outcome",
	},
	[]string{"status"},
)

var logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "credauth_logins_total",
		Help: "Total number of login attempts by outcome",
	},
	[]string{"status"},
)

var hashDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "credauth_password_hash_seconds",
		Help:    "Time spent deriving password hashes",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	},
)

// RegisterMetrics registers the auth metrics with reg. Panics if any of them
// is already registered.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(registrations)
	reg.MustRegister(logins)
	reg.MustRegister(hashDuration)
}

func recordRegistration(err error) {
	registrations.WithLabelValues(outcome(err)).Inc()
}

func recordLogin(err error) {
	logins.WithLabelValues(outcome(err)).Inc()
}

func observeHashDuration(start time.Time) {
	hashDuration.Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if err == nil {
		return statusSuccess
	}
	return KindOf(err).String()
}
