package repository

import (
	"context"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"gorm.io/gorm"
)

// ProductRepository 商品主数据只读视图
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND barcode <> '' AND deleted_at IS NULL", barcode).
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND deleted_at IS NULL").
		Order("name").
		Find(&products).Error
	return products, err
}
