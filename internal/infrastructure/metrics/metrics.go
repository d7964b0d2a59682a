package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ContractMetrics holds all metric vectors for the token service.
type ContractMetrics struct {
	SettlementsTotal       prometheus.CounterVec
	SettlementAmountTotal  prometheus.CounterVec
	SettlementErrorsTotal  prometheus.CounterVec
	AffiliateRequestsTotal prometheus.CounterVec
	ChainsScheduledTotal   prometheus.CounterVec
	ChainsCompletedTotal   prometheus.CounterVec
	ChainStepDuration      prometheus.HistogramVec
	RefundsTotal           prometheus.CounterVec
	RefundAmountTotal      prometheus.CounterVec
}

func NewContractMetrics() *ContractMetrics {
	return &ContractMetrics{
		SettlementsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_total",
				Help: "Settlement computations served to the marketplace",
			},
			[]string{"affiliate"},
		),

		SettlementAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_amount_total",
				Help: "Total settled sale amount",
			},
			[]string{"affiliate"},
		),

		SettlementErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_errors_total",
				Help: "Settlement calls rejected before computation",
			},
			[]string{"reason"},
		),

		AffiliateRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_requests_total",
				Help: "Affiliate enrollment requests by outcome",
			},
			[]string{"outcome"},
		),

		ChainsScheduledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_chains_scheduled_total",
				Help: "External call chains scheduled",
			},
			[]string{"kind"},
		),

		ChainsCompletedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "call_chains_completed_total",
				Help: "External call chains completed by outcome",
			},
			[]string{"kind", "status"},
		),

		ChainStepDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "call_chain_step_duration_seconds",
				Help:    "Duration of individual external chain steps",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"kind", "step"},
		),

		RefundsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refunds_total",
				Help: "Deposit refunds issued",
			},
			[]string{"reason"},
		),

		RefundAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refund_amount_total",
				Help: "Total deposit amount refunded",
			},
			[]string{"reason"},
		),
	}
}

func (m *ContractMetrics) RecordSettlement(affiliate bool, price uint64) {
	label := "false"
	if affiliate {
		label = "true"
	}
	m.SettlementsTotal.WithLabelValues(label).Inc()
	m.SettlementAmountTotal.WithLabelValues(label).Add(float64(price))
}

func (m *ContractMetrics) RecordSettlementError(reason string) {
	m.SettlementErrorsTotal.WithLabelValues(reason).Inc()
}

func (m *ContractMetrics) RecordRefund(reason string, amount uint64) {
	m.RefundsTotal.WithLabelValues(reason).Inc()
	m.RefundAmountTotal.WithLabelValues(reason).Add(float64(amount))
}
