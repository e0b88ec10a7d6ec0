package repository

import (
	"context"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"gorm.io/gorm"
)

// ReconciliationRepository 对账结果存储
type ReconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

// ReplaceForSession 同一事务内删旧写新，重算幂等不重复
func (r *ReconciliationRepository) ReplaceForSession(ctx context.Context, sessionID string, results []entity.ReconciliationResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).
			Delete(&entity.ReconciliationResult{}).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		return tx.Create(&results).Error
	})
}

func (r *ReconciliationRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.ReconciliationResult, error) {
	var results []entity.ReconciliationResult
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("product_id").
		Find(&results).Error
	return results, err
}
