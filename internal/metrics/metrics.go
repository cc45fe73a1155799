package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Ledger Metrics
var (
	DepositsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDepositsTotal,
			Help: HelpTextDepositsTotal,
		},
		[]string{LabelLockTier},
	)

	DepositedUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDepositedUnits,
			Help: HelpTextDepositedUnits,
		},
	)

	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWithdrawalsTotal,
			Help: HelpTextWithdrawalsTotal,
		},
		[]string{LabelKind},
	)

	WithdrawnUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWithdrawnUnits,
			Help: HelpTextWithdrawnUnits,
		},
	)

	CompoundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCompoundsTotal,
			Help: HelpTextCompoundsTotal,
		},
	)

	CompoundedUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCompoundedUnits,
			Help: HelpTextCompoundedUnits,
		},
	)

	CommissionUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommissionUnits,
			Help: HelpTextCommissionUnits,
		},
		[]string{LabelSource},
	)

	ReserveFundedUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReserveFundedUnits,
			Help: HelpTextReserveFundedUnits,
		},
	)

	SkillGrantsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSkillGrantsApplied,
			Help: HelpTextSkillGrantsApplied,
		},
		[]string{LabelSkillType},
	)

	SkillGrantsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSkillGrantsRemoved,
			Help: HelpTextSkillGrantsRemoved,
		},
	)
)

// Pool Gauges - refreshed from pool stats by the sweep worker and from
// lifecycle events
var (
	PoolBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePoolBalance,
			Help: HelpTextPoolBalance,
		},
	)

	RewardReserve = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRewardReserve,
			Help: HelpTextRewardReserve,
		},
	)

	UniqueAccounts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameUniqueAccounts,
			Help: HelpTextUniqueAccounts,
		},
	)

	LedgerPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLedgerPaused,
			Help: HelpTextLedgerPaused,
		},
	)
)
