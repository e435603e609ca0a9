package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hunterbot_submissions_total", Help: "Trade lists submitted"},
		[]string{"source"},
	)
	InstructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hunterbot_instructions_submitted_total", Help: "Trade instructions submitted"},
		[]string{"direction"},
	)
	BotGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hunterbot_bot_generations_total", Help: "Mock bot generations started"},
		[]string{"strategy"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "hunterbot_active_sessions", Help: "Open trade screen sessions"},
	)
)

func init() {
	prometheus.MustRegister(SubmissionsTotal, InstructionsTotal, BotGenerationsTotal, ActiveSessions)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DirectionLabel maps the neutral direction to a non-empty label value.
func DirectionLabel(direction string) string {
	if direction == "" {
		return "NEUTRAL"
	}
	return direction
}
