package repository

import (
	"context"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"gorm.io/gorm"
)

// StockRepository 现有库存只读视图
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) Get(ctx context.Context, productID, locationID string) (*entity.StockOnHand, error) {
	var stock entity.StockOnHand
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&stock).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stock, nil
}

// MovementRepository 库存流水只读视图（只追加台账）
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) ListByReason(ctx context.Context, productID, locationID, reason string, since time.Time) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ? AND reason = ? AND occurred_at >= ?",
			productID, locationID, reason, since).
		Order("occurred_at").
		Find(&movements).Error
	return movements, err
}
