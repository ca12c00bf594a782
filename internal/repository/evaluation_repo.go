package repository

import (
	"context"

	"gorm.io/gorm"

	"demoday/backend/internal/model"
)

// EvaluationRepository 教授评审数据访问接口
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	GetBySubmissionAndProfessor(ctx context.Context, submissionID, professorID string) (*model.Evaluation, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]model.Evaluation, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Evaluation, error)
	Update(ctx context.Context, evaluation *model.Evaluation) error
	ReplaceScores(ctx context.Context, evaluationID string, scores []model.EvaluationScore) error
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

// Create 创建评审及其明细分（gorm 关联一并写入）
func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepo) GetBySubmissionAndProfessor(ctx context.Context, submissionID, professorID string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("submission_id = ? AND professor_id = ?", submissionID, professorID).
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) ListBySubmission(ctx context.Context, submissionID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&evaluations).Error
	return evaluations, err
}

// ListByEvent 列出活动下全部评审（评分引擎用，经 submissions 关联）
func (r *evaluationRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.submission_id = evaluations.submission_id").
		Where("submissions.event_id = ?", eventID).
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepo) Update(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("evaluation_id = ?", evaluation.EvaluationID).
		Updates(map[string]interface{}{
			"total_score":         evaluation.TotalScore,
			"approval_percentage": evaluation.ApprovalPercentage,
			"updated_by":          evaluation.UpdatedBy,
		}).Error
}

// ReplaceScores 整体替换评审明细分（原地更新评审时使用）
func (r *evaluationRepo) ReplaceScores(ctx context.Context, evaluationID string, scores []model.EvaluationScore) error {
	if err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Delete(&model.EvaluationScore{}).Error; err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&scores).Error
}
