package entity

import (
	"time"
)

// MovementReason 库存流水原因
const (
	ReasonSale           = "SALE"            // 销售出库
	ReasonPurchase       = "PURCHASE"        // 采购入库
	ReasonWaste          = "WASTE"           // 报损
	ReasonInventoryCount = "INVENTORY_COUNT" // 盘点调整
	ReasonTransfer       = "TRANSFER"        // 调拨
	ReasonAdjustment     = "ADJUSTMENT"      // 手工调整
)

// StockOnHand 现有库存，每个（商品，门店）一行
type StockOnHand struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID        string    `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:uniq_stock_product_location"`
	LocationID       string    `json:"location_id" gorm:"type:uuid;not null;uniqueIndex:uniq_stock_product_location"`
	QuantityOnHand   float64   `json:"quantity_on_hand" gorm:"type:decimal(12,4);not null;default:0"`
	QuantityReserved float64   `json:"quantity_reserved" gorm:"type:decimal(12,4);not null;default:0"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (StockOnHand) TableName() string {
	return "inv_stock_on_hand"
}

// Available 可用库存 = 在手 - 预留
func (s *StockOnHand) Available() float64 {
	return s.QuantityOnHand - s.QuantityReserved
}

// StockMovement 库存流水（只追加的台账）
type StockMovement struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID     string    `json:"product_id" gorm:"type:uuid;not null;index:idx_movement_product_time"`
	LocationID    string    `json:"location_id" gorm:"type:uuid;not null;index"`
	QuantityDelta float64   `json:"quantity_delta" gorm:"type:decimal(12,4);not null"` // 正=入，负=出
	Reason        string    `json:"reason" gorm:"size:20;not null;index"`
	ReferenceID   string    `json:"reference_id" gorm:"size:64"`
	OccurredAt    time.Time `json:"occurred_at" gorm:"not null;index:idx_movement_product_time"`
	CreatedAt     time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "inv_stock_movements"
}
