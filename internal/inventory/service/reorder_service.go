package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/google/uuid"
)

// ReorderConfig 补货建议配置
type ReorderConfig struct {
	// UseForecast true 时目标水位取预测的再订货点，否则取商品静态目标库存
	UseForecast  bool    `json:"use_forecast"`
	RoundToCase  bool    `json:"round_to_case"`
	ServiceLevel float64 `json:"service_level"`
}

// ReorderService 补货建议：按盘点后库存与目标水位生成每商品订货量，
// 支持箱规取整与人工覆盖，按供应商分组供草稿组装
type ReorderService struct {
	countStore    CountStore
	productStore  ProductStore
	proposalStore ProposalStore
	draftStore    DraftStore
	forecast      *ForecastService
	locks         *sessionLocks
}

func NewReorderService(
	countStore CountStore,
	productStore ProductStore,
	proposalStore ProposalStore,
	draftStore DraftStore,
	forecast *ForecastService,
	locks *sessionLocks,
) *ReorderService {
	return &ReorderService{
		countStore:    countStore,
		productStore:  productStore,
		proposalStore: proposalStore,
		draftStore:    draftStore,
		forecast:      forecast,
		locks:         locks,
	}
}

// GenerateProposals 为盘点单内每个有盘点行的商品生成建议。
// recommended = max(0, 目标水位 - 当前库存)，当前库存取实盘量（盘点刚校准过）。
// 重新生成覆盖旧建议。
func (s *ReorderService) GenerateProposals(ctx context.Context, sessionID string, cfg ReorderConfig) ([]entity.ReorderProposal, error) {
	session, err := s.countStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusCommitted {
		return nil, fmt.Errorf("%w: session %s is %s, proposals require committed",
			ErrInvalidState, sessionID, session.Status)
	}

	unlock := s.locks.acquire(sessionID)
	defer unlock()

	lines, err := s.countStore.ListLines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list count lines: %w", err)
	}

	proposals := make([]entity.ReorderProposal, 0, len(lines))
	for _, line := range lines {
		product, err := s.productStore.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // 目录中已删除的商品不产生建议
			}
			return nil, fmt.Errorf("load product %s: %w", line.ProductID, err)
		}

		target := product.TargetStock
		if cfg.UseForecast {
			ss, err := s.forecast.SafetyStock(ctx, line.ProductID, session.LocationID, cfg.ServiceLevel)
			if err != nil {
				return nil, fmt.Errorf("forecast reorder point for %s: %w", line.ProductID, err)
			}
			// 无历史数据退回静态目标水位
			if ss.Confidence == ConfidenceOK {
				target = ss.ReorderPoint
			}
		}

		current := line.CountedQuantity
		recommended := math.Max(0, target-current)
		rounded := recommended
		if cfg.RoundToCase {
			rounded = roundToPack(recommended, product.PackSize)
		}

		inTransit, err := s.draftStore.SumInTransit(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("sum in-transit for %s: %w", line.ProductID, err)
		}

		proposals = append(proposals, entity.ReorderProposal{
			ID:                  uuid.New().String(),
			SessionID:           sessionID,
			ProductID:           line.ProductID,
			SupplierID:          product.SupplierID,
			CurrentStock:        current,
			TargetStock:         target,
			InTransitQuantity:   inTransit,
			RecommendedQuantity: recommended,
			RoundedQuantity:     rounded,
			PackSize:            product.PackSize,
			UnitCost:            product.UnitCost,
			Included:            rounded > 0,
		})
	}

	if err := s.proposalStore.ReplaceForSession(ctx, sessionID, proposals); err != nil {
		return nil, fmt.Errorf("persist proposals: %w", err)
	}
	return proposals, nil
}

// UpdateProposalRequest 人工调整；建议值保留不动作为审计痕迹
type UpdateProposalRequest struct {
	UserQuantity *float64 `json:"user_quantity"`
	Included     *bool    `json:"included"`
}

func (s *ReorderService) UpdateProposal(ctx context.Context, proposalID string, req UpdateProposalRequest) (*entity.ReorderProposal, error) {
	proposal, err := s.proposalStore.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if req.UserQuantity != nil {
		if *req.UserQuantity < 0 {
			return nil, fmt.Errorf("%w: user quantity must not be negative", ErrConfiguration)
		}
		proposal.UserQuantity = req.UserQuantity
	}
	if req.Included != nil {
		proposal.Included = *req.Included
	}
	if err := s.proposalStore.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}
	return proposal, nil
}

func (s *ReorderService) ListBySession(ctx context.Context, sessionID string) ([]entity.ReorderProposal, error) {
	if _, err := s.countStore.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.proposalStore.ListBySession(ctx, sessionID)
}

// SupplierGrouping 按供应商分组的建议；无供应商的单独成桶，不参与自动建草稿
type SupplierGrouping struct {
	BySupplier map[string][]entity.ReorderProposal `json:"by_supplier"`
	Unassigned []entity.ReorderProposal            `json:"unassigned"`
}

func (s *ReorderService) ProposalsBySupplier(ctx context.Context, sessionID string) (*SupplierGrouping, error) {
	proposals, err := s.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	grouping := &SupplierGrouping{BySupplier: make(map[string][]entity.ReorderProposal)}
	for _, p := range proposals {
		if p.SupplierID == nil || *p.SupplierID == "" {
			grouping.Unassigned = append(grouping.Unassigned, p)
			continue
		}
		grouping.BySupplier[*p.SupplierID] = append(grouping.BySupplier[*p.SupplierID], p)
	}
	return grouping, nil
}
