package entity

import (
	"time"
)

// Product 商品主数据（菜单/目录服务维护，本引擎只读）
type Product struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name         string     `json:"name" gorm:"size:200;not null;index"`
	Barcode      string     `json:"barcode" gorm:"size:64;index"`
	SupplierID   *string    `json:"supplier_id" gorm:"type:uuid;index"`
	UnitCost     *float64   `json:"unit_cost" gorm:"type:decimal(12,4)"`
	PackSize     int        `json:"pack_size" gorm:"default:1"`
	MinStock     float64    `json:"min_stock" gorm:"type:decimal(12,4);default:0"`
	TargetStock  float64    `json:"target_stock" gorm:"type:decimal(12,4);default:0"`
	LeadTimeDays int        `json:"lead_time_days" gorm:"default:1"`
	Unit         string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	Active       bool       `json:"active" gorm:"default:true"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (Product) TableName() string {
	return "inv_products"
}
