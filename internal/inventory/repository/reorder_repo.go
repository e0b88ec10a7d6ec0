package repository

import (
	"context"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"gorm.io/gorm"
)

// ProposalRepository 补货建议存储
type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) ReplaceForSession(ctx context.Context, sessionID string, proposals []entity.ReorderProposal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).
			Delete(&entity.ReorderProposal{}).Error; err != nil {
			return err
		}
		if len(proposals) == 0 {
			return nil
		}
		return tx.Create(&proposals).Error
	})
}

func (r *ProposalRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.ReorderProposal, error) {
	var proposals []entity.ReorderProposal
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("product_id").
		Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*entity.ReorderProposal, error) {
	var proposal entity.ReorderProposal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&proposal).Error
	if err != nil {
		return nil, translate(err)
	}
	return &proposal, nil
}

func (r *ProposalRepository) Update(ctx context.Context, proposal *entity.ReorderProposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}
