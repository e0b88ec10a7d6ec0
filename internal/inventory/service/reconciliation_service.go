package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/google/uuid"
)

// ReconciliationService 盘点对账：实盘 vs 系统库存，分级并落库。
// 同一盘点单重算覆盖旧结果；写入整体成功或整体失败。
type ReconciliationService struct {
	countStore   CountStore
	stockStore   StockStore
	productStore ProductStore
	reconStore   ReconciliationStore
	locks        *sessionLocks
}

func NewReconciliationService(
	countStore CountStore,
	stockStore StockStore,
	productStore ProductStore,
	reconStore ReconciliationStore,
	locks *sessionLocks,
) *ReconciliationService {
	return &ReconciliationService{
		countStore:   countStore,
		stockStore:   stockStore,
		productStore: productStore,
		reconStore:   reconStore,
		locks:        locks,
	}
}

// Reconcile 对已提交盘点单逐行计算差异。
// delta = 系统应有量 - 实盘量（全工程统一此符号约定）。
func (s *ReconciliationService) Reconcile(ctx context.Context, sessionID string, cfg ReconcileConfig) ([]entity.ReconciliationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	session, err := s.countStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusCommitted {
		return nil, fmt.Errorf("%w: session %s is %s, reconciliation requires committed",
			ErrInvalidState, sessionID, session.Status)
	}

	// 单写者：同一盘点单的重算串行化，覆盖语义不被并发交错破坏
	unlock := s.locks.acquire(sessionID)
	defer unlock()

	lines, err := s.countStore.ListLines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list count lines: %w", err)
	}

	results := make([]entity.ReconciliationResult, 0, len(lines))
	for _, line := range lines {
		expected := 0.0
		stock, err := s.stockStore.Get(ctx, line.ProductID, session.LocationID)
		switch {
		case err == nil:
			expected = stock.QuantityOnHand
		case errors.Is(err, ErrNotFound):
			// 无库存行视为应有量0
		default:
			return nil, fmt.Errorf("load stock for product %s: %w", line.ProductID, err)
		}

		delta := expected - line.CountedQuantity

		// 单价未知时金额留空，报表侧不得按0处理
		var deltaValue *float64
		product, err := s.productStore.GetByID(ctx, line.ProductID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load product %s: %w", line.ProductID, err)
		}
		if err == nil && product.UnitCost != nil {
			v := delta * *product.UnitCost
			deltaValue = &v
		}

		results = append(results, entity.ReconciliationResult{
			ID:               uuid.New().String(),
			SessionID:        sessionID,
			ProductID:        line.ProductID,
			ExpectedQuantity: expected,
			CountedQuantity:  line.CountedQuantity,
			DeltaQuantity:    delta,
			DeltaValue:       deltaValue,
			Severity:         classifySeverity(delta, cfg),
		})
	}

	if err := s.reconStore.ReplaceForSession(ctx, sessionID, results); err != nil {
		return nil, fmt.Errorf("persist reconciliation results: %w", err)
	}
	return results, nil
}

// Results 查询某盘点单的对账结果
func (s *ReconciliationService) Results(ctx context.Context, sessionID string) ([]entity.ReconciliationResult, error) {
	if _, err := s.countStore.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.reconStore.ListBySession(ctx, sessionID)
}
