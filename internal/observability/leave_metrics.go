package observability

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// LeaveMetrics counts workflow transitions and ledger postings. A nil
// *LeaveMetrics is valid and records nothing.
type LeaveMetrics struct {
	transitions    *prometheus.CounterVec
	ledgerPostings *prometheus.CounterVec
}

func NewLeaveMetrics(mc *MetricsCollector) *LeaveMetrics {
	return &LeaveMetrics{
		transitions: mc.NewCounter(
			"leave_transitions_total",
			"Leave workflow operations by action and result",
			[]string{"action", "result"},
		),
		ledgerPostings: mc.NewCounter(
			"ledger_postings_total",
			"Ledger entries appended by action",
			[]string{"action"},
		),
	}
}

func (m *LeaveMetrics) ObserveTransition(action, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, result).Inc()
}

func (m *LeaveMetrics) ObservePosting(action string) {
	if m == nil {
		return
	}
	m.ledgerPostings.WithLabelValues(action).Inc()
}
