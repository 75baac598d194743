package app

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the session's prometheus collectors
type Metrics struct {
	VotesCast          prometheus.Counter
	VoteRejections     *prometheus.CounterVec
	Eliminations       prometheus.Counter
	RoundTransitions   *prometheus.CounterVec
	PostmortemMessages prometheus.Counter
	EliminatedPlayers  prometheus.Gauge
	AdminLogins        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightfall",
			Name:      "votes_cast_total",
			Help:      "Accepted votes.",
		}),
		VoteRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nightfall",
			Name:      "vote_rejections_total",
			Help:      "Rejected votes by reason.",
		}, []string{"reason"}),
		Eliminations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightfall",
			Name:      "eliminations_total",
			Help:      "Players newly eliminated.",
		}),
		RoundTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nightfall",
			Name:      "round_transitions_total",
			Help:      "Round controller transitions.",
		}, []string{"transition"}),
		PostmortemMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightfall",
			Name:      "postmortem_messages_total",
			Help:      "Stored post-mortem messages.",
		}),
		EliminatedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nightfall",
			Name:      "eliminated_players",
			Help:      "Players eliminated in the current game.",
		}),
		AdminLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nightfall",
			Name:      "admin_logins_total",
			Help:      "Admin login attempts by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.VotesCast,
			m.VoteRejections,
			m.Eliminations,
			m.RoundTransitions,
			m.PostmortemMessages,
			m.EliminatedPlayers,
			m.AdminLogins,
		)
	}
	return m
}

// RecordLogin counts an admin login attempt
func (m *Metrics) RecordLogin(outcome string) {
	m.AdminLogins.WithLabelValues(outcome).Inc()
}
