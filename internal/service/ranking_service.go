package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
	"demoday/backend/pkg/mailer"
)

// 类别未配置名额时的入围默认值
const defaultMaxFinalists = 5

// RankingService 评分引擎业务接口
type RankingService interface {
	// ComputeRanking 计算活动排名
	// 加权总分 = 大众票数 + 终审票数×3 + 评审平均认可度；
	// 并列时依次按评审平均、参赛记录 ID 决出次序
	ComputeRanking(ctx context.Context, eventID string) (*dto.RankingResponse, error)
	// SelectFinalists 按类别评选入围项目（幂等：先回退既有 finalist 再重新评选）
	SelectFinalists(ctx context.Context, eventID, callerID string) (*dto.SelectFinalistsResponse, error)
}

type rankingService struct {
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
}

// NewRankingService 创建 RankingService 实例
func NewRankingService(repo *repository.Repository, mail *mailer.Mailer, logger *zap.Logger) RankingService {
	return &rankingService{repo: repo, mail: mail, logger: logger}
}

// ────────────────────── ComputeRanking ──────────────────────

func (s *rankingService) ComputeRanking(ctx context.Context, eventID string) (*dto.RankingResponse, error) {
	entries, err := s.computeEntries(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &dto.RankingResponse{EventID: eventID, Entries: entries}, nil
}

func (s *rankingService) computeEntries(ctx context.Context, eventID string) ([]dto.RankingEntry, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}

	submissions, err := s.repo.Submission.ListAllByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询参赛记录失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	votes, err := s.repo.Vote.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询投票失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	evaluations, err := s.repo.Evaluation.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询评审失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	// 按项目归集票数
	popularByProject := make(map[string]int)
	finalByProject := make(map[string]int)
	for i := range votes {
		switch votes[i].VotePhase {
		case model.VotePhasePopular:
			popularByProject[votes[i].ProjectID]++
		case model.VotePhaseFinal:
			finalByProject[votes[i].ProjectID]++
		}
	}

	// 按参赛记录归集评审平均认可度
	evalSum := make(map[string]int)
	evalCount := make(map[string]int)
	for i := range evaluations {
		evalSum[evaluations[i].SubmissionID] += evaluations[i].ApprovalPercentage
		evalCount[evaluations[i].SubmissionID]++
	}

	entries := make([]dto.RankingEntry, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		entry := dto.RankingEntry{
			SubmissionID: sub.SubmissionID,
			ProjectID:    sub.ProjectID,
			Status:       sub.Status,
			PopularVotes: popularByProject[sub.ProjectID],
			FinalVotes:   finalByProject[sub.ProjectID],
		}
		if sub.Project != nil {
			entry.ProjectTitle = sub.Project.Title
			entry.CategoryID = sub.Project.CategoryID
		}
		if count := evalCount[sub.SubmissionID]; count > 0 {
			entry.EvaluationAverage = float64(evalSum[sub.SubmissionID]) / float64(count)
		}
		entry.TotalWeightedScore = float64(entry.PopularVotes) +
			float64(entry.FinalVotes)*finalVoteWeight +
			entry.EvaluationAverage
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalWeightedScore != entries[j].TotalWeightedScore {
			return entries[i].TotalWeightedScore > entries[j].TotalWeightedScore
		}
		if entries[i].EvaluationAverage != entries[j].EvaluationAverage {
			return entries[i].EvaluationAverage > entries[j].EvaluationAverage
		}
		return entries[i].SubmissionID < entries[j].SubmissionID
	})

	return entries, nil
}

// ────────────────────── SelectFinalists ──────────────────────

func (s *rankingService) SelectFinalists(ctx context.Context, eventID, callerID string) (*dto.SelectFinalistsResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}

	entries, err := s.computeEntries(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// 仅 approved 与既有 finalist（重跑场景）参与评选
	quota := make(map[string]int)
	finalistIDs := make([]string, 0)
	for i := range entries {
		entry := &entries[i]
		if entry.Status != model.SubmissionStatusApproved && entry.Status != model.SubmissionStatusFinalist {
			continue
		}
		limit, ok := quota[entry.CategoryID]
		if !ok {
			limit = s.categoryQuota(ctx, entry.CategoryID)
			quota[entry.CategoryID] = limit
		}
		if limit <= 0 {
			continue
		}
		quota[entry.CategoryID] = limit - 1
		finalistIDs = append(finalistIDs, entry.SubmissionID)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Submission.ResetFinalists(ctx, eventID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("回退既有入围状态失败", zap.Error(err))
		return nil, err
	}

	for _, id := range finalistIDs {
		if err := txRepo.Submission.UpdateStatus(ctx, id, model.SubmissionStatusFinalist, callerID); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("标记入围失败", zap.String("submission_id", id), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("入围评选完成",
		zap.String("event_id", eventID),
		zap.Int("finalists", len(finalistIDs)))

	s.notifyFinalists(ctx, finalistIDs, event.Name)

	return &dto.SelectFinalistsResponse{EventID: eventID, FinalistIDs: finalistIDs}, nil
}

// ── 内部辅助方法 ──

func (s *rankingService) categoryQuota(ctx context.Context, categoryID string) int {
	if categoryID == "" {
		return defaultMaxFinalists
	}
	category, err := s.repo.Category.GetByID(ctx, categoryID)
	if err != nil {
		s.logger.Warn("查询类别名额失败，使用默认值", zap.String("category_id", categoryID), zap.Error(err))
		return defaultMaxFinalists
	}
	if category.MaxFinalists <= 0 {
		return defaultMaxFinalists
	}
	return category.MaxFinalists
}

// notifyFinalists 逐个通知入围项目的负责人（fire-and-forget）
func (s *rankingService) notifyFinalists(ctx context.Context, finalistIDs []string, eventName string) {
	if !s.mail.Enabled() {
		return
	}

	for _, id := range finalistIDs {
		submission, err := s.repo.Submission.GetByID(ctx, id)
		if err != nil || submission.Project == nil {
			continue
		}
		owner, err := s.repo.User.GetByID(ctx, submission.Project.UserID)
		if err != nil {
			continue
		}
		s.mail.SendAsync(owner.Email, "恭喜入围", mailer.FinalistSelectedBody(submission.Project.Title, eventName))
	}
}
