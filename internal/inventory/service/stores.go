package service

import (
	"context"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
)

// 存储抽象：由调用方（main）注入 gorm 实现，测试注入内存实现。
// 所有"未找到"统一返回 ErrNotFound。

// ProductStore 商品主数据只读视图
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	ListActive(ctx context.Context) ([]entity.Product, error)
}

// StockStore 现有库存只读视图
type StockStore interface {
	Get(ctx context.Context, productID, locationID string) (*entity.StockOnHand, error)
}

// MovementStore 库存流水只读视图
type MovementStore interface {
	ListByReason(ctx context.Context, productID, locationID, reason string, since time.Time) ([]entity.StockMovement, error)
}

// CountStore 盘点单与盘点行存储
type CountStore interface {
	CreateSession(ctx context.Context, session *entity.CountSession) error
	GetSession(ctx context.Context, id string) (*entity.CountSession, error)
	UpdateSession(ctx context.Context, session *entity.CountSession) error
	// UpsertLineAccumulate (session, product) 已存在时累加数量而不是新增行
	UpsertLineAccumulate(ctx context.Context, line *entity.CountLine) (*entity.CountLine, error)
	ListLines(ctx context.Context, sessionID string) ([]entity.CountLine, error)
}

// ReconciliationStore 对账结果存储
type ReconciliationStore interface {
	// ReplaceForSession 原子地删除该盘点单的旧结果并写入新结果
	ReplaceForSession(ctx context.Context, sessionID string, results []entity.ReconciliationResult) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.ReconciliationResult, error)
}

// ProposalStore 补货建议存储
type ProposalStore interface {
	ReplaceForSession(ctx context.Context, sessionID string, proposals []entity.ReorderProposal) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.ReorderProposal, error)
	GetByID(ctx context.Context, id string) (*entity.ReorderProposal, error)
	Update(ctx context.Context, proposal *entity.ReorderProposal) error
}

// DraftStore 供应商订单草稿存储
type DraftStore interface {
	// ReplaceForSession clearPrevious=true 时先删后建，同一事务内完成
	ReplaceForSession(ctx context.Context, sessionID string, drafts []entity.SupplierOrderDraft, clearPrevious bool) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.SupplierOrderDraft, error)
	GetByID(ctx context.Context, id string) (*entity.SupplierOrderDraft, error)
	UpdateStatus(ctx context.Context, draft *entity.SupplierOrderDraft) error
	// SumInTransit 已发送草稿中某商品的在途数量合计
	SumInTransit(ctx context.Context, productID string) (float64, error)
}
