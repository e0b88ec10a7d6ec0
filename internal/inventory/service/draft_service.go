package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/google/uuid"
)

// DraftService 把已采纳的补货建议按供应商组装成订单草稿，
// 并维护 DRAFT → EXPORTED → FINALIZED → SENT 的单向生命周期
type DraftService struct {
	countStore    CountStore
	proposalStore ProposalStore
	productStore  ProductStore
	draftStore    DraftStore
	locks         *sessionLocks
}

func NewDraftService(
	countStore CountStore,
	proposalStore ProposalStore,
	productStore ProductStore,
	draftStore DraftStore,
	locks *sessionLocks,
) *DraftService {
	return &DraftService{
		countStore:    countStore,
		proposalStore: proposalStore,
		productStore:  productStore,
		draftStore:    draftStore,
		locks:         locks,
	}
}

// CreateDraftsRequest 草稿生成请求
type CreateDraftsRequest struct {
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date"`
	// ClearPrevious true 时先删除该盘点单已有草稿再重建（幂等重生成）
	ClearPrevious bool `json:"clear_previous"`
}

// CreateOrderDrafts 取 included=true 的建议按供应商分组，每供应商一份草稿。
// 无供应商的建议跳过。行序按商品名稳定排序，保证重生成结果一致。
func (s *DraftService) CreateOrderDrafts(ctx context.Context, sessionID string, req CreateDraftsRequest) ([]entity.SupplierOrderDraft, error) {
	if _, err := s.countStore.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(sessionID)
	defer unlock()

	proposals, err := s.proposalStore.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	bySupplier := make(map[string][]entity.ReorderProposal)
	for _, p := range proposals {
		if !p.Included {
			continue
		}
		if p.SupplierID == nil || *p.SupplierID == "" {
			continue // 无供应商归属的不自动建草稿
		}
		bySupplier[*p.SupplierID] = append(bySupplier[*p.SupplierID], p)
	}

	supplierIDs := make([]string, 0, len(bySupplier))
	for id := range bySupplier {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Strings(supplierIDs)

	drafts := make([]entity.SupplierOrderDraft, 0, len(supplierIDs))
	for _, supplierID := range supplierIDs {
		group := bySupplier[supplierID]

		names := make(map[string]string, len(group))
		for _, p := range group {
			if product, err := s.productStore.GetByID(ctx, p.ProductID); err == nil {
				names[p.ProductID] = product.Name
			}
		}
		sort.SliceStable(group, func(i, j int) bool {
			ni, nj := names[group[i].ProductID], names[group[j].ProductID]
			if ni != nj {
				return ni < nj
			}
			return group[i].ProductID < group[j].ProductID
		})

		draft := entity.SupplierOrderDraft{
			ID:                    uuid.New().String(),
			SessionID:             sessionID,
			SupplierID:            supplierID,
			Status:                entity.DraftStatusDraft,
			RequestedDeliveryDate: req.RequestedDeliveryDate,
		}
		for i, p := range group {
			qty := p.EffectiveQuantity()
			item := entity.DraftLineItem{
				ID:          uuid.New().String(),
				DraftID:     draft.ID,
				ProductID:   p.ProductID,
				ProductName: names[p.ProductID],
				Quantity:    qty,
				UnitCost:    p.UnitCost,
				Position:    i,
			}
			if p.UnitCost != nil {
				total := qty * *p.UnitCost
				item.LineTotal = &total
				draft.TotalValue += total
			}
			draft.TotalQuantity += qty
			draft.Items = append(draft.Items, item)
		}
		draft.LineCount = len(draft.Items)
		drafts = append(drafts, draft)
	}

	if err := s.draftStore.ReplaceForSession(ctx, sessionID, drafts, req.ClearPrevious); err != nil {
		return nil, fmt.Errorf("persist drafts: %w", err)
	}
	return drafts, nil
}

func (s *DraftService) ListBySession(ctx context.Context, sessionID string) ([]entity.SupplierOrderDraft, error) {
	if _, err := s.countStore.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.draftStore.ListBySession(ctx, sessionID)
}

func (s *DraftService) Get(ctx context.Context, draftID string) (*entity.SupplierOrderDraft, error) {
	return s.draftStore.GetByID(ctx, draftID)
}

// MarkExported 首次成功渲染导出时 DRAFT → EXPORTED；
// 已越过 DRAFT 的草稿重复导出不改状态（状态从不回退）
func (s *DraftService) MarkExported(ctx context.Context, draftID string) (*entity.SupplierOrderDraft, error) {
	draft, err := s.draftStore.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != entity.DraftStatusDraft {
		return draft, nil
	}
	now := time.Now()
	draft.Status = entity.DraftStatusExported
	draft.ExportedAt = &now
	if err := s.draftStore.UpdateStatus(ctx, draft); err != nil {
		return nil, fmt.Errorf("mark exported: %w", err)
	}
	return draft, nil
}

// Finalize EXPORTED → FINALIZED（操作员显式动作，不允许跳级）
func (s *DraftService) Finalize(ctx context.Context, draftID string) (*entity.SupplierOrderDraft, error) {
	return s.advance(ctx, draftID, entity.DraftStatusExported, entity.DraftStatusFinalized)
}

// MarkSent FINALIZED → SENT（终态）
func (s *DraftService) MarkSent(ctx context.Context, draftID string) (*entity.SupplierOrderDraft, error) {
	return s.advance(ctx, draftID, entity.DraftStatusFinalized, entity.DraftStatusSent)
}

func (s *DraftService) advance(ctx context.Context, draftID, from, to string) (*entity.SupplierOrderDraft, error) {
	draft, err := s.draftStore.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != from {
		return nil, fmt.Errorf("%w: draft %s is %s, transition to %s requires %s",
			ErrInvalidState, draftID, draft.Status, to, from)
	}
	now := time.Now()
	draft.Status = to
	switch to {
	case entity.DraftStatusFinalized:
		draft.FinalizedAt = &now
	case entity.DraftStatusSent:
		draft.SentAt = &now
	}
	if err := s.draftStore.UpdateStatus(ctx, draft); err != nil {
		return nil, fmt.Errorf("advance draft status: %w", err)
	}
	return draft, nil
}
