package repository

import (
	"errors"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"gorm.io/gorm"
)

// Repositories 库存引擎仓库集合（service.Stores 的 gorm 实现）
type Repositories struct {
	Product        *ProductRepository
	Stock          *StockRepository
	Movement       *MovementRepository
	Count          *CountRepository
	Reconciliation *ReconciliationRepository
	Proposal       *ProposalRepository
	Draft          *DraftRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:        NewProductRepository(db),
		Stock:          NewStockRepository(db),
		Movement:       NewMovementRepository(db),
		Count:          NewCountRepository(db),
		Reconciliation: NewReconciliationRepository(db),
		Proposal:       NewProposalRepository(db),
		Draft:          NewDraftRepository(db),
	}
}

// Stores 打包成服务层依赖的存储抽象
func (r *Repositories) Stores() service.Stores {
	return service.Stores{
		Product:        r.Product,
		Stock:          r.Stock,
		Movement:       r.Movement,
		Count:          r.Count,
		Reconciliation: r.Reconciliation,
		Proposal:       r.Proposal,
		Draft:          r.Draft,
	}
}

// translate gorm 的未找到统一映射为引擎错误分类
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrNotFound
	}
	return err
}
