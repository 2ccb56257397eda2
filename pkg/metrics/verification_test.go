package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestVerificationMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewVerificationMetrics(reg)

	metrics.IncDecision("verified")
	metrics.IncDecision("verified")
	metrics.IncDecision("rejected")
	metrics.AddTokensIssued(12.5)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "submission_decisions_total", "outcome", "verified"); err != nil {
		t.Fatalf("fetch verified: %v", err)
	} else if got != 2 {
		t.Fatalf("expected verified=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "submission_decisions_total", "outcome", "rejected"); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "reward_tokens_issued_total")
	if mf == nil {
		t.Fatal("reward_tokens_issued_total not exported")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 12.5 {
		t.Fatalf("expected 12.5 tokens issued, got %f", got)
	}
}

func TestVerificationMetricsNilSafe(t *testing.T) {
	var metrics *VerificationMetrics
	metrics.IncDecision("verified")
	metrics.AddTokensIssued(1)

	empty := NewVerificationMetrics(nil)
	empty.IncDecision("rejected")
	empty.AddTokensIssued(-3)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
