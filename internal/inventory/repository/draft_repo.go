package repository

import (
	"context"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"gorm.io/gorm"
)

// DraftRepository 供应商订单草稿存储
type DraftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// ReplaceForSession clearPrevious=true 时删旧建新，删与建同一事务，
// 并发重建同一盘点单不会观察到中间态
func (r *DraftRepository) ReplaceForSession(ctx context.Context, sessionID string, drafts []entity.SupplierOrderDraft, clearPrevious bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearPrevious {
			var oldIDs []string
			if err := tx.Model(&entity.SupplierOrderDraft{}).
				Where("session_id = ?", sessionID).
				Pluck("id", &oldIDs).Error; err != nil {
				return err
			}
			if len(oldIDs) > 0 {
				if err := tx.Where("draft_id IN ?", oldIDs).
					Delete(&entity.DraftLineItem{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", oldIDs).
					Delete(&entity.SupplierOrderDraft{}).Error; err != nil {
					return err
				}
			}
		}
		if len(drafts) == 0 {
			return nil
		}
		// Items 作为关联一并写入
		return tx.Create(&drafts).Error
	})
}

func (r *DraftRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.SupplierOrderDraft, error) {
	var drafts []entity.SupplierOrderDraft
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("session_id = ?", sessionID).
		Order("supplier_id").
		Find(&drafts).Error
	return drafts, err
}

func (r *DraftRepository) GetByID(ctx context.Context, id string) (*entity.SupplierOrderDraft, error) {
	var draft entity.SupplierOrderDraft
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).
		First(&draft).Error
	if err != nil {
		return nil, translate(err)
	}
	return &draft, nil
}

func (r *DraftRepository) UpdateStatus(ctx context.Context, draft *entity.SupplierOrderDraft) error {
	return r.db.WithContext(ctx).Model(&entity.SupplierOrderDraft{}).
		Where("id = ?", draft.ID).
		Updates(map[string]interface{}{
			"status":       draft.Status,
			"exported_at":  draft.ExportedAt,
			"finalized_at": draft.FinalizedAt,
			"sent_at":      draft.SentAt,
		}).Error
}

// SumInTransit 已发送草稿里某商品的合计数量（采购在途）
func (r *DraftRepository) SumInTransit(ctx context.Context, productID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(i.quantity), 0) AS total
		FROM inv_draft_line_items i
		JOIN inv_supplier_order_drafts d ON d.id = i.draft_id
		WHERE i.product_id = ? AND d.status = ?
	`, productID, entity.DraftStatusSent).Scan(&result).Error
	return result.Total, err
}
