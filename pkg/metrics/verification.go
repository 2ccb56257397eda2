package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// VerificationMetrics records review outcomes and the tokens they issue.
type VerificationMetrics struct {
	decisions    *prometheus.CounterVec
	tokensIssued prometheus.Counter
}

// NewVerificationMetrics registers the verification metrics on the provided registerer.
func NewVerificationMetrics(reg prometheus.Registerer) *VerificationMetrics {
	if reg == nil {
		return &VerificationMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submission_decisions_total",
		Help: "Submission review decisions by outcome.",
	}, []string{"outcome"})
	tokensIssued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reward_tokens_issued_total",
		Help: "Total BORLA tokens credited by verified submissions.",
	})
	reg.MustRegister(decisions, tokensIssued)
	return &VerificationMetrics{
		decisions:    decisions,
		tokensIssued: tokensIssued,
	}
}

// IncDecision increments the counter for the named review outcome.
func (m *VerificationMetrics) IncDecision(outcome string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddTokensIssued accumulates the token amount credited by a verification.
func (m *VerificationMetrics) AddTokensIssued(amount float64) {
	if m == nil || m.tokensIssued == nil {
		return
	}
	if amount < 0 {
		return
	}
	m.tokensIssued.Add(amount)
}

func normalizeLabel(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
