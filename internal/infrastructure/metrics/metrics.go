package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's business metrics. It satisfies the use-case
// layer's MetricsRecorder so services stay decoupled from Prometheus.
type Metrics struct {
	accountsCreated    prometheus.Counter
	expensesRecorded   prometheus.Counter
	expenseLegs        prometheus.Histogram
	expenseGrossCost   prometheus.Histogram
	expensesReversed   prometheus.Counter
	unbalancedRejected prometheus.Counter
	balanceCacheHits   prometheus.Counter
	balanceCacheMisses prometheus.Counter
}

// New creates the ledger metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		accountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		expensesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		expenseLegs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_expense_legs",
			Help:    "Number of entries per recorded expense",
			Buckets: []float64{2, 3, 4, 5, 8, 12, 20},
		}),
		expenseGrossCost: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_expense_gross_cost",
			Help:    "Gross cost of recorded expenses",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		expensesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_expenses_reversed_total",
			Help: "Total number of expenses reversed",
		}),
		unbalancedRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_unbalanced_rejected_total",
			Help: "Total number of transactions rejected as unbalanced",
		}),
		balanceCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_balance_cache_hits_total",
			Help: "Balance lookups served from cache",
		}),
		balanceCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_balance_cache_misses_total",
			Help: "Balance lookups that fell through to the database",
		}),
	}
}

// AccountCreated counts a successfully created account.
func (m *Metrics) AccountCreated() {
	m.accountsCreated.Inc()
}

// ExpenseRecorded counts a recorded expense and observes its shape.
func (m *Metrics) ExpenseRecorded(legs int, grossCost float64) {
	m.expensesRecorded.Inc()
	m.expenseLegs.Observe(float64(legs))
	m.expenseGrossCost.Observe(grossCost)
}

// ExpenseReversed counts a reversal.
func (m *Metrics) ExpenseReversed() {
	m.expensesReversed.Inc()
}

// UnbalancedRejected counts a transaction rejected for a non-zero sum.
func (m *Metrics) UnbalancedRejected() {
	m.unbalancedRejected.Inc()
}

// BalanceCacheHit counts a balance served from the cache.
func (m *Metrics) BalanceCacheHit() {
	m.balanceCacheHits.Inc()
}

// BalanceCacheMiss counts a balance recomputed from the database.
func (m *Metrics) BalanceCacheMiss() {
	m.balanceCacheMisses.Inc()
}
