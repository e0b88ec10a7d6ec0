package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移库存引擎相关表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 主数据
		&Product{},

		// 库存
		&StockOnHand{},
		&StockMovement{},

		// 盘点
		&CountSession{},
		&CountLine{},

		// 对账
		&ReconciliationResult{},

		// 补货
		&ReorderProposal{},
		&SupplierOrderDraft{},
		&DraftLineItem{},
	)
}
