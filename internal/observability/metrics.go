package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CreditTransactions counts ledger entries by type.
	CreditTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelcorps_credit_transactions_total",
		Help: "Total number of credit ledger entries by type",
	}, []string{"type"})

	// CreditsSpent accumulates debited credits by generation kind.
	CreditsSpent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelcorps_credits_spent_total",
		Help: "Total credits debited by generation kind",
	}, []string{"kind"})

	// GenerationJobs counts generation job outcomes by kind and status.
	GenerationJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelcorps_generation_jobs_total",
		Help: "Total generation jobs by kind and terminal status",
	}, []string{"kind", "status"})

	// VerificationDecisions counts admin verification outcomes.
	VerificationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelcorps_verification_decisions_total",
		Help: "Total verification request decisions by outcome",
	}, []string{"outcome"})

	// GateDenials counts requests rejected by the verified-member gate,
	// labeled by route path.
	GateDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelcorps_membership_gate_denials_total",
		Help: "Total requests denied by the verified membership gate",
	}, []string{"path"})

	// WebSocketBackpressureDrops counts events dropped because a client's
	// send buffer was full or its channel already closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelcorps_websocket_backpressure_drops_total",
		Help: "Total websocket events dropped due to client backpressure",
	}, []string{"reason"})
)
