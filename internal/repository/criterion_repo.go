package repository

import (
	"context"

	"gorm.io/gorm"

	"demoday/backend/internal/model"
)

// CriterionRepository 评审标准数据访问接口
// 整体替换由 Service 层在事务内先 DeleteByEvent 再 CreateBatch 完成
type CriterionRepository interface {
	CreateBatch(ctx context.Context, criteria []model.Criterion) error
	GetByID(ctx context.Context, id string) (*model.Criterion, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Criterion, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

type criterionRepo struct {
	db *gorm.DB
}

// NewCriterionRepo 创建 CriterionRepository 实例
func NewCriterionRepo(db *gorm.DB) CriterionRepository {
	return &criterionRepo{db: db}
}

func (r *criterionRepo) CreateBatch(ctx context.Context, criteria []model.Criterion) error {
	if len(criteria) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&criteria).Error
}

func (r *criterionRepo) GetByID(ctx context.Context, id string) (*model.Criterion, error) {
	var criterion model.Criterion
	err := r.db.WithContext(ctx).
		Where("criterion_id = ?", id).
		First(&criterion).Error
	if err != nil {
		return nil, err
	}
	return &criterion, nil
}

func (r *criterionRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Criterion, error) {
	var criteria []model.Criterion
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&criteria).Error
	return criteria, err
}

func (r *criterionRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.Criterion{}).Error
}
