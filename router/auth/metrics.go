package auth

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeAccepted = "accepted"
	outcomeDenied   = "denied"
)

var decisionCounterVec = getDecisionCounterVec()

func getDecisionCounterVec() *prometheus.CounterVec {
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_auth_decisions_total",
			Help: "Total authentication decisions by method and outcome",
		},
		[]string{"authmethod", "outcome"},
	)

	prometheus.MustRegister(decisions)
	return decisions
}

func countDecision(authmethod, outcome string) {
	decisionCounterVec.WithLabelValues(authmethod, outcome).Inc()
}
