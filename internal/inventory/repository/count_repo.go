package repository

import (
	"context"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CountRepository 盘点单与盘点行存储
type CountRepository struct {
	db *gorm.DB
}

func NewCountRepository(db *gorm.DB) *CountRepository {
	return &CountRepository{db: db}
}

func (r *CountRepository) CreateSession(ctx context.Context, session *entity.CountSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *CountRepository) GetSession(ctx context.Context, id string) (*entity.CountSession, error) {
	var session entity.CountSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *CountRepository) UpdateSession(ctx context.Context, session *entity.CountSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// UpsertLineAccumulate (session, product) 冲突时累加数量并刷新录入方式，
// 返回合并后的行
func (r *CountRepository) UpsertLineAccumulate(ctx context.Context, line *entity.CountLine) (*entity.CountLine, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"counted_quantity": gorm.Expr("inv_count_lines.counted_quantity + EXCLUDED.counted_quantity"),
			"capture_method":   gorm.Expr("EXCLUDED.capture_method"),
			"confidence":       gorm.Expr("EXCLUDED.confidence"),
			"updated_at":       time.Now(),
		}),
	}).Create(line).Error
	if err != nil {
		return nil, err
	}

	var merged entity.CountLine
	err = r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", line.SessionID, line.ProductID).
		First(&merged).Error
	if err != nil {
		return nil, translate(err)
	}
	return &merged, nil
}

func (r *CountRepository) ListLines(ctx context.Context, sessionID string) ([]entity.CountLine, error) {
	var lines []entity.CountLine
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at").
		Find(&lines).Error
	return lines, err
}
