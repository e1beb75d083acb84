package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the issuance core. A nil *Metrics
// records nothing.
type Metrics struct {
	AuthorizationsCreated prometheus.Counter
	CredentialsIssued     *prometheus.CounterVec
	RedeemFailures        *prometheus.CounterVec
	StatusUpdates         *prometheus.CounterVec
	ConfigChanges         *prometheus.CounterVec
	GuardDenials          *prometheus.CounterVec
	ValidityChecks        *prometheus.CounterVec
	RedeemLatency         prometheus.Histogram
	Withdrawals           prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		AuthorizationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycmint_authorizations_created_total",
			Help: "Mint authorizations recorded by the mint authorizer",
		}),
		CredentialsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_credentials_issued_total",
			Help: "Credentials issued by redemption, labeled by tier",
		}, []string{"tier"}),
		RedeemFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_redeem_failures_total",
			Help: "Rejected redemptions, labeled by error code",
		}, []string{"code"}),
		StatusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_credential_status_updates_total",
			Help: "Credential status changes, labeled by field",
		}, []string{"field"}),
		ConfigChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_contract_config_changes_total",
			Help: "Owner configuration changes, labeled by setting",
		}, []string{"setting"}),
		GuardDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_guard_denials_total",
			Help: "Calls rejected by a role guard, labeled by role",
		}, []string{"role"}),
		ValidityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycmint_validity_checks_total",
			Help: "Validity lookups, labeled by outcome",
		}, []string{"valid"}),
		RedeemLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycmint_redeem_latency_seconds",
			Help:    "Latency of redemptions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycmint_withdrawals_total",
			Help: "Balance withdrawals by the owner",
		}),
	}
}

func (m *Metrics) IncAuthorizationsCreated() {
	if m == nil {
		return
	}
	m.AuthorizationsCreated.Inc()
}

func (m *Metrics) IncCredentialsIssued(tier string) {
	if m == nil {
		return
	}
	m.CredentialsIssued.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncRedeemFailure(code string) {
	if m == nil {
		return
	}
	m.RedeemFailures.WithLabelValues(code).Inc()
}

func (m *Metrics) IncStatusUpdate(field string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(field).Inc()
}

func (m *Metrics) IncConfigChange(setting string) {
	if m == nil {
		return
	}
	m.ConfigChanges.WithLabelValues(setting).Inc()
}

func (m *Metrics) IncGuardDenial(role string) {
	if m == nil {
		return
	}
	m.GuardDenials.WithLabelValues(role).Inc()
}

func (m *Metrics) IncValidityCheck(valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.ValidityChecks.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveRedeemLatency(seconds float64) {
	if m == nil {
		return
	}
	m.RedeemLatency.Observe(seconds)
}

func (m *Metrics) IncWithdrawals() {
	if m == nil {
		return
	}
	m.Withdrawals.Inc()
}
