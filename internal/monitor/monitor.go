// internal/monitor/monitor.go
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor owns the server's Prometheus metrics. It carries its own registry
// rather than the package-level default so independent instances never
// collide on metric names.
type Monitor struct {
	registry *prometheus.Registry

	activeRooms      prometheus.Gauge
	connectedPlayers prometheus.Gauge
	commandsReceived *prometheus.CounterVec
	gamesStarted     *prometheus.CounterVec
}

// New builds and registers all metrics under the given namespace.
func New(namespace string) *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of rooms currently tracked by the server.",
		}),
		connectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_players",
			Help:      "Number of open WebSocket connections.",
		}),
		commandsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_received_total",
			Help:      "Commands received over WebSocket, by message type.",
		}, []string{"type"}),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started, by game type.",
		}, []string{"game_type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.activeRooms,
		m.connectedPlayers,
		m.commandsReceived,
		m.gamesStarted,
	)
	return m
}

// Handler serves the metrics endpoint.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetActiveRooms records the current room count.
func (m *Monitor) SetActiveRooms(n int) { m.activeRooms.Set(float64(n)) }

// SetConnectedPlayers records the current connection count.
func (m *Monitor) SetConnectedPlayers(n int) { m.connectedPlayers.Set(float64(n)) }

// IncCommandsReceived counts one inbound command of the given type.
func (m *Monitor) IncCommandsReceived(msgType string) {
	m.commandsReceived.WithLabelValues(msgType).Inc()
}

// IncGamesStarted counts one started game of the given type.
func (m *Monitor) IncGamesStarted(gameType string) {
	m.gamesStarted.WithLabelValues(gameType).Inc()
}
