package entity

import (
	"time"
)

// Severity 盘点差异等级
const (
	SeverityOK       = "OK"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// ReconciliationResult 盘点对账结果，每个（盘点单，商品）一行，重算覆盖
type ReconciliationResult struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID        string    `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:uniq_recon_session_product"`
	ProductID        string    `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:uniq_recon_session_product"`
	ExpectedQuantity float64   `json:"expected_quantity" gorm:"type:decimal(12,4);not null"`
	CountedQuantity  float64   `json:"counted_quantity" gorm:"type:decimal(12,4);not null"`
	DeltaQuantity    float64   `json:"delta_quantity" gorm:"type:decimal(12,4);not null"` // 系统 - 实盘
	DeltaValue       *float64  `json:"delta_value" gorm:"type:decimal(12,2)"`             // 单价未知时为空
	Severity         string    `json:"severity" gorm:"size:20;not null"`
	CreatedAt        time.Time `json:"created_at"`
}

func (ReconciliationResult) TableName() string {
	return "inv_reconciliation_results"
}
