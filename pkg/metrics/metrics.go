// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TradeTransitions counts committed trade state transitions by event.
	TradeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapdeck_trade_transitions_total",
		Help: "Number of committed trade offer state transitions.",
	}, []string{"event"})

	// TransitionConflicts counts transitions rejected by the state guard.
	TransitionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapdeck_trade_transition_conflicts_total",
		Help: "Number of trade transitions rejected because the offer was no longer in the expected state.",
	})

	// NotificationsEmitted counts emitted notifications by type.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapdeck_notifications_emitted_total",
		Help: "Number of notifications appended to user logs.",
	}, []string{"type"})

	// SwipesRecorded counts recorded swipes by direction.
	SwipesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapdeck_swipes_recorded_total",
		Help: "Number of swipe decisions recorded.",
	}, []string{"direction"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
