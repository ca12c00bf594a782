package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
)

// 终审票的教授/管理员权重倍数
const finalVoteWeight = 3

// ── 投票模块业务错误 ──

var (
	ErrNotVotingWindow   = errors.New("当前不在投票窗口内")
	ErrAlreadyVoted      = errors.New("该阶段已对此项目投过票")
	ErrProjectNotFound   = errors.New("项目不存在")
	ErrProjectNotInEvent = errors.New("项目未参加该活动")
)

// VoteService 投票门禁业务接口
type VoteService interface {
	// CastVote 投票
	// req.Phase 为空时按阶段日历解析当前投票阶段；
	// 非管理员显式指定的阶段必须与当前开放窗口一致
	CastVote(ctx context.Context, voterID, voterRole string, req *dto.CastVoteRequest) (*dto.VoteResponse, error)
	CountByUser(ctx context.Context, userID, eventID string) (int64, error)
}

type voteService struct {
	repo   *repository.Repository
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewVoteService 创建 VoteService 实例
func NewVoteService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) VoteService {
	return &voteService{
		repo:   repo,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ────────────────────── CastVote ──────────────────────

func (s *voteService) CastVote(ctx context.Context, voterID, voterRole string, req *dto.CastVoteRequest) (*dto.VoteResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", req.EventID), zap.Error(err))
		return nil, err
	}

	if !event.Active {
		return nil, ErrEventNotActive
	}

	if _, err := s.repo.Project.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目失败", zap.String("id", req.ProjectID), zap.Error(err))
		return nil, err
	}

	// 项目必须在该活动的参赛名单内，游离票不计入排名
	if _, err := s.repo.Submission.GetByProject(ctx, req.ProjectID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotInEvent
		}
		s.logger.Error("查询参赛记录失败", zap.String("project_id", req.ProjectID), zap.Error(err))
		return nil, err
	}

	phase, err := s.resolvePhase(event.Phases, voterRole, req.Phase)
	if err != nil {
		return nil, err
	}

	vote := &model.Vote{
		UserID:    voterID,
		ProjectID: req.ProjectID,
		EventID:   req.EventID,
		VoterRole: voterRole,
		VotePhase: phase,
		Weight:    voteWeight(phase, voterRole),
	}

	// 重复投票交由唯一索引裁决，避免 check-then-insert 竞态
	if err := s.repo.Vote.Create(ctx, vote); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyVoted
		}
		s.logger.Error("创建投票失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("投票成功",
		zap.String("user_id", voterID),
		zap.String("project_id", req.ProjectID),
		zap.String("phase", phase),
		zap.Int("weight", vote.Weight))

	return &dto.VoteResponse{
		ID:        vote.VoteID,
		ProjectID: vote.ProjectID,
		EventID:   vote.EventID,
		VotePhase: vote.VotePhase,
		Weight:    vote.Weight,
		CreatedAt: vote.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *voteService) CountByUser(ctx context.Context, userID, eventID string) (int64, error) {
	return s.repo.Vote.CountByUser(ctx, userID, eventID)
}

// ── 内部辅助方法 ──

// resolvePhase 解析本次投票落入的阶段
// 管理员可显式指定任意投票阶段（覆盖路径）；其他角色由当前开放窗口决定
func (s *voteService) resolvePhase(phases []model.Phase, voterRole, requested string) (string, error) {
	if requested != "" && voterRole == model.RoleAdmin {
		return requested, nil
	}

	current := currentPhase(phases, s.now().In(s.loc), s.loc)
	if current == nil {
		return "", ErrNotVotingWindow
	}

	var open string
	switch current.PhaseNumber {
	case model.PhaseNumberPopularVote:
		open = model.VotePhasePopular
	case model.PhaseNumberFinalVote:
		open = model.VotePhaseFinal
	default:
		return "", ErrNotVotingWindow
	}

	if requested != "" && requested != open {
		return "", ErrNotVotingWindow
	}
	return open, nil
}

// voteWeight 计算票权：大众票恒为 1，终审票对教授/管理员为 3，其余为 1
func voteWeight(phase, voterRole string) int {
	if phase == model.VotePhaseFinal && (voterRole == model.RoleProfessor || voterRole == model.RoleAdmin) {
		return finalVoteWeight
	}
	return 1
}
