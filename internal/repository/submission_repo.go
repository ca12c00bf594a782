package repository

import (
	"context"

	"gorm.io/gorm"

	"demoday/backend/internal/model"
)

// SubmissionRepository 参赛记录数据访问接口
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetByProject(ctx context.Context, projectID, eventID string) (*model.Submission, error)
	List(ctx context.Context, eventID, status string, offset, limit int) ([]model.Submission, int64, error)
	ListAllByEvent(ctx context.Context, eventID string) ([]model.Submission, error)
	UpdateStatus(ctx context.Context, id, status string, updatedBy string) error
	ResetFinalists(ctx context.Context, eventID string) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Category").
		Where("submission_id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetByProject 按（项目，活动）定位参赛记录，用于校验项目确在该活动的参赛名单内
func (r *submissionRepo) GetByProject(ctx context.Context, projectID, eventID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND event_id = ?", projectID, eventID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) List(ctx context.Context, eventID, status string, offset, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Submission{}).Where("event_id = ?", eventID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Project").
		Preload("Project.Category").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// ListAllByEvent 列出活动下全部参赛记录（评分引擎用，不分页）
func (r *submissionRepo) ListAllByEvent(ctx context.Context, eventID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) UpdateStatus(ctx context.Context, id, status string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

// ResetFinalists 将活动内所有 finalist 状态回退为 approved（入围评选重跑前置步骤）
func (r *submissionRepo) ResetFinalists(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("event_id = ? AND status = ?", eventID, model.SubmissionStatusFinalist).
		Update("status", model.SubmissionStatusApproved).Error
}
