package repository

import (
	"context"

	"gorm.io/gorm"

	"demoday/backend/internal/model"
)

// PhaseRepository 阶段数据访问接口
type PhaseRepository interface {
	Create(ctx context.Context, phase *model.Phase) error
	GetByID(ctx context.Context, id string) (*model.Phase, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Phase, error)
	Update(ctx context.Context, phase *model.Phase) error
	Delete(ctx context.Context, id string) error
}

type phaseRepo struct {
	db *gorm.DB
}

// NewPhaseRepo 创建 PhaseRepository 实例
func NewPhaseRepo(db *gorm.DB) PhaseRepository {
	return &phaseRepo{db: db}
}

func (r *phaseRepo) Create(ctx context.Context, phase *model.Phase) error {
	return r.db.WithContext(ctx).Create(phase).Error
}

func (r *phaseRepo) GetByID(ctx context.Context, id string) (*model.Phase, error) {
	var phase model.Phase
	err := r.db.WithContext(ctx).
		Where("phase_id = ?", id).
		First(&phase).Error
	if err != nil {
		return nil, err
	}
	return &phase, nil
}

func (r *phaseRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Phase, error) {
	var phases []model.Phase
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("phase_number ASC").
		Find(&phases).Error
	return phases, err
}

func (r *phaseRepo) Update(ctx context.Context, phase *model.Phase) error {
	return r.db.WithContext(ctx).Save(phase).Error
}

func (r *phaseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("phase_id = ?", id).
		Delete(&model.Phase{}).Error
}
