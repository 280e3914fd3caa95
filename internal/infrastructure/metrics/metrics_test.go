package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	m.AccountCreated()
	m.ExpenseRecorded(4, 100)
	m.ExpenseReversed()
	m.UnbalancedRejected()
	m.BalanceCacheHit()
	m.BalanceCacheMiss()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.accountsCreated); got != 1 {
		t.Fatalf("expected one created account, got %v", got)
	}
	if got := testutil.ToFloat64(m.expensesRecorded); got != 1 {
		t.Fatalf("expected one recorded expense, got %v", got)
	}
	if got := testutil.ToFloat64(m.balanceCacheHits); got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}
}

func TestExpenseRecordedObservesShape(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ExpenseRecorded(3, 90)
	m.ExpenseRecorded(4, 10)

	if got := testutil.CollectAndCount(m.expenseLegs); got != 1 {
		t.Fatalf("expected legs histogram to be collectable, got %d series", got)
	}
	if got := testutil.ToFloat64(m.expensesRecorded); got != 2 {
		t.Fatalf("expected two recorded expenses, got %v", got)
	}
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	// Each New call registers against its own registry, so parallel test
	// setups and multiple services in one process stay independent.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.AccountCreated()

	if got := testutil.ToFloat64(b.accountsCreated); got != 0 {
		t.Fatalf("expected isolated registries, got %v", got)
	}
}
