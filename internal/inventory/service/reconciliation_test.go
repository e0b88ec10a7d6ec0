package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
)

type reconFixture struct {
	count *CountService
	recon *ReconciliationService
	store *memReconStore
}

func newReconFixture(t *testing.T, products *memProductStore, stock *memStockStore) *reconFixture {
	t.Helper()
	countStore := newMemCountStore()
	reconStore := newMemReconStore()
	locks := newSessionLocks()
	matcher := NewMatcherService(products)
	return &reconFixture{
		count: NewCountService(countStore, products, matcher),
		recon: NewReconciliationService(countStore, stock, products, reconStore, locks),
		store: reconStore,
	}
}

func committedSessionWithLines(t *testing.T, f *reconFixture, lines map[string]float64) string {
	t.Helper()
	session := mustCreateSession(t, f.count)
	for productID, qty := range lines {
		if _, err := f.count.AddLine(context.Background(), session.ID, AddLineRequest{ProductID: productID, Quantity: qty}); err != nil {
			t.Fatalf("add line %s: %v", productID, err)
		}
	}
	if _, err := f.count.CommitSession(context.Background(), session.ID); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return session.ID
}

func TestReconcileDeltaAndSeverity(t *testing.T) {
	products := newMemProductStore(
		entity.Product{ID: "p-exact", Name: "Exact", UnitCost: f64Ptr(2.0), Active: true},
		entity.Product{ID: "p-short", Name: "Short", UnitCost: f64Ptr(1.5), Active: true},
		entity.Product{ID: "p-missing", Name: "Missing", UnitCost: f64Ptr(4.0), Active: true},
	)
	stock := newMemStockStore(
		entity.StockOnHand{ProductID: "p-exact", LocationID: testLocation, QuantityOnHand: 9},
		entity.StockOnHand{ProductID: "p-short", LocationID: testLocation, QuantityOnHand: 12},
	)
	f := newReconFixture(t, products, stock)

	sessionID := committedSessionWithLines(t, f, map[string]float64{
		"p-exact":   9,  // matches the system quantity
		"p-short":   9,  // 3 units short of the expected 12
		"p-missing": 25, // no stock row, expected treated as 0
	})

	results, err := f.recon.Reconcile(context.Background(), sessionID, DefaultReconcileConfig())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("result count = %d, want 3", len(results))
	}

	byProduct := make(map[string]entity.ReconciliationResult)
	for _, r := range results {
		byProduct[r.ProductID] = r
	}

	exact := byProduct["p-exact"]
	if exact.DeltaQuantity != 0 || exact.Severity != entity.SeverityOK {
		t.Errorf("exact: delta=%v severity=%s, want 0/OK", exact.DeltaQuantity, exact.Severity)
	}

	short := byProduct["p-short"]
	if short.DeltaQuantity != 3 {
		t.Errorf("short: delta = %v, want 3 (expected minus counted)", short.DeltaQuantity)
	}
	if short.Severity != entity.SeverityWarning {
		t.Errorf("short: severity = %s, want WARNING", short.Severity)
	}
	if short.DeltaValue == nil || *short.DeltaValue != 4.5 {
		t.Errorf("short: delta value = %v, want 4.5", short.DeltaValue)
	}

	missing := byProduct["p-missing"]
	if missing.ExpectedQuantity != 0 {
		t.Errorf("missing: expected = %v, want 0 for absent stock row", missing.ExpectedQuantity)
	}
	if missing.DeltaQuantity != -25 || missing.Severity != entity.SeverityCritical {
		t.Errorf("missing: delta=%v severity=%s, want -25/CRITICAL", missing.DeltaQuantity, missing.Severity)
	}
}

// Unknown unit cost leaves the value impact empty rather than zero.
func TestReconcileNilDeltaValueWithoutUnitCost(t *testing.T) {
	products := newMemProductStore(
		entity.Product{ID: "p-nocost", Name: "No Cost", Active: true},
	)
	stock := newMemStockStore(
		entity.StockOnHand{ProductID: "p-nocost", LocationID: testLocation, QuantityOnHand: 10},
	)
	f := newReconFixture(t, products, stock)
	sessionID := committedSessionWithLines(t, f, map[string]float64{"p-nocost": 5})

	results, err := f.recon.Reconcile(context.Background(), sessionID, DefaultReconcileConfig())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if results[0].DeltaValue != nil {
		t.Errorf("delta value = %v, want nil without unit cost", *results[0].DeltaValue)
	}
}

// Recomputing replaces the previous run instead of appending to it.
func TestReconcileOverwritesPreviousRun(t *testing.T) {
	products := newMemProductStore(entity.Product{ID: "p1", Name: "One", Active: true})
	stock := newMemStockStore(entity.StockOnHand{ProductID: "p1", LocationID: testLocation, QuantityOnHand: 8})
	f := newReconFixture(t, products, stock)
	sessionID := committedSessionWithLines(t, f, map[string]float64{"p1": 8})

	if _, err := f.recon.Reconcile(context.Background(), sessionID, DefaultReconcileConfig()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	looser := ReconcileConfig{WarningThresholdQty: 5, CriticalThresholdQty: 50}
	if _, err := f.recon.Reconcile(context.Background(), sessionID, looser); err != nil {
		t.Fatalf("second run: %v", err)
	}

	results, err := f.recon.Results(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("result count after rerun = %d, want 1", len(results))
	}
}

func TestReconcileRequiresCommittedSession(t *testing.T) {
	products := newMemProductStore(entity.Product{ID: "p1", Name: "One", Active: true})
	f := newReconFixture(t, products, newMemStockStore())

	session := mustCreateSession(t, f.count)
	_, err := f.recon.Reconcile(context.Background(), session.ID, DefaultReconcileConfig())
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for draft session, got %v", err)
	}
}

func TestReconcileUnknownSession(t *testing.T) {
	f := newReconFixture(t, newMemProductStore(), newMemStockStore())

	if _, err := f.recon.Reconcile(context.Background(), "missing", DefaultReconcileConfig()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReconcileRejectsBadThresholds(t *testing.T) {
	products := newMemProductStore(entity.Product{ID: "p1", Name: "One", Active: true})
	f := newReconFixture(t, products, newMemStockStore())
	sessionID := committedSessionWithLines(t, f, map[string]float64{"p1": 1})

	bad := ReconcileConfig{WarningThresholdQty: 10, CriticalThresholdQty: 3}
	if _, err := f.recon.Reconcile(context.Background(), sessionID, bad); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	// Rejected configs must not have written anything.
	results, err := f.recon.Results(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results written despite invalid config: %d", len(results))
	}
}
