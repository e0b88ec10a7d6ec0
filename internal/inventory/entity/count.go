package entity

import (
	"time"
)

// CountSessionStatus 盘点单状态
const (
	SessionStatusDraft     = "DRAFT"
	SessionStatusCommitted = "COMMITTED"
)

// CaptureMethod 盘点行录入方式
const (
	CaptureMethodBarcode   = "BARCODE"
	CaptureMethodFuzzyName = "FUZZY_NAME"
	CaptureMethodManual    = "MANUAL"
)

// CountSession 盘点单，DRAFT → COMMITTED 一次性流转，提交后不可变
type CountSession struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	LocationID  string     `json:"location_id" gorm:"type:uuid;not null;index"`
	Status      string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedBy   string     `json:"created_by" gorm:"size:64;not null"`
	CommittedAt *time.Time `json:"committed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Lines []CountLine `json:"lines,omitempty" gorm:"foreignKey:SessionID"`
}

func (CountSession) TableName() string {
	return "inv_count_sessions"
}

// CountLine 盘点行，(session, product) 唯一，重复录入累加数量
type CountLine struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID       string    `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:uniq_count_session_product"`
	ProductID       string    `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:uniq_count_session_product"`
	CountedQuantity float64   `json:"counted_quantity" gorm:"type:decimal(12,4);not null;default:0"`
	CaptureMethod   string    `json:"capture_method" gorm:"size:20;not null;default:MANUAL"`
	Confidence      float64   `json:"confidence" gorm:"type:decimal(5,4);default:1"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (CountLine) TableName() string {
	return "inv_count_lines"
}
