package entity

import (
	"time"
)

// DraftStatus 供应商订单草稿状态，单向流转且不可跳级
const (
	DraftStatusDraft     = "DRAFT"
	DraftStatusExported  = "EXPORTED"
	DraftStatusFinalized = "FINALIZED"
	DraftStatusSent      = "SENT"
)

// SupplierOrderDraft 供应商订单草稿，每个（盘点单，供应商）一份
type SupplierOrderDraft struct {
	ID                    string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID             string     `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:uniq_draft_session_supplier"`
	SupplierID            string     `json:"supplier_id" gorm:"type:uuid;not null;uniqueIndex:uniq_draft_session_supplier"`
	Status                string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	LineCount             int        `json:"line_count" gorm:"default:0"`
	TotalQuantity         float64    `json:"total_quantity" gorm:"type:decimal(12,4);default:0"`
	TotalValue            float64    `json:"total_value" gorm:"type:decimal(12,2);default:0"`
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date"`
	ExportedAt            *time.Time `json:"exported_at"`
	FinalizedAt           *time.Time `json:"finalized_at"`
	SentAt                *time.Time `json:"sent_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	Items []DraftLineItem `json:"items,omitempty" gorm:"foreignKey:DraftID"`
}

func (SupplierOrderDraft) TableName() string {
	return "inv_supplier_order_drafts"
}

// DraftLineItem 草稿明细，Position 保证行序稳定
type DraftLineItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	DraftID     string    `json:"draft_id" gorm:"type:uuid;not null;index"`
	ProductID   string    `json:"product_id" gorm:"type:uuid;not null"`
	ProductName string    `json:"product_name" gorm:"size:200"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	UnitCost    *float64  `json:"unit_cost" gorm:"type:decimal(12,4)"`
	LineTotal   *float64  `json:"line_total" gorm:"type:decimal(12,2)"`
	Position    int       `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DraftLineItem) TableName() string {
	return "inv_draft_line_items"
}
