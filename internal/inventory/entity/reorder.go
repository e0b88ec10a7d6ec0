package entity

import (
	"time"
)

// ReorderProposal 补货建议，每个（盘点单，商品）一行，重算覆盖
type ReorderProposal struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID           string    `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:uniq_proposal_session_product"`
	ProductID           string    `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:uniq_proposal_session_product"`
	SupplierID          *string   `json:"supplier_id" gorm:"type:uuid;index"`
	CurrentStock        float64   `json:"current_stock" gorm:"type:decimal(12,4);not null"`
	TargetStock         float64   `json:"target_stock" gorm:"type:decimal(12,4);not null"`
	InTransitQuantity   float64   `json:"in_transit_quantity" gorm:"type:decimal(12,4);default:0"`
	RecommendedQuantity float64   `json:"recommended_quantity" gorm:"type:decimal(12,4);not null"`
	RoundedQuantity     float64   `json:"rounded_quantity" gorm:"type:decimal(12,4);not null"`
	PackSize            int       `json:"pack_size" gorm:"default:1"`
	UnitCost            *float64  `json:"unit_cost" gorm:"type:decimal(12,4)"`
	Included            bool      `json:"included" gorm:"default:true"`
	UserQuantity        *float64  `json:"user_quantity" gorm:"type:decimal(12,4)"` // 人工覆盖，原建议值保留作审计
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (ReorderProposal) TableName() string {
	return "inv_reorder_proposals"
}

// EffectiveQuantity 下游取数口径：人工覆盖优先于取整建议值
func (p *ReorderProposal) EffectiveQuantity() float64 {
	if p.UserQuantity != nil {
		return *p.UserQuantity
	}
	return p.RoundedQuantity
}
