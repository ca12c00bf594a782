package repository

import (
	"context"

	"gorm.io/gorm"

	"demoday/backend/internal/model"
)

// VoteRepository 投票数据访问接口
// Create 命中 uniq_votes_user_project_phase 时返回 gorm.ErrDuplicatedKey，
// Service 层以该错误作为"已投票"的权威信号
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Vote, error)
	CountByUser(ctx context.Context, userID, eventID string) (int64, error)
}

type voteRepo struct {
	db *gorm.DB
}

// NewVoteRepo 创建 VoteRepository 实例
func NewVoteRepo(db *gorm.DB) VoteRepository {
	return &voteRepo{db: db}
}

func (r *voteRepo) Create(ctx context.Context, vote *model.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Vote, error) {
	var votes []model.Vote
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Find(&votes).Error
	return votes, err
}

func (r *voteRepo) CountByUser(ctx context.Context, userID, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count, err
}
