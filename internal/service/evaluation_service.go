package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
)

// ── 评审模块业务错误 ──

var (
	ErrCriterionInvalid    = errors.New("评分项不属于该活动的评审标准")
	ErrCriterionDuplicate  = errors.New("评分项重复")
	ErrCriterionIncomplete = errors.New("评分未覆盖活动全部评审类标准")
	ErrNoEvaluations       = errors.New("该参赛记录暂无评审")
)

// EvaluationService 教授评审业务接口
type EvaluationService interface {
	// Record 提交评审，评分必须覆盖活动全部评审类标准；
	// 同一教授对同一参赛记录重复提交走原地更新
	Record(ctx context.Context, professorID string, req *dto.RecordEvaluationRequest) (*dto.EvaluationResponse, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]dto.EvaluationResponse, error)
	Aggregate(ctx context.Context, submissionID string) (*dto.EvaluationAggregateResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger}
}

// ────────────────────── Record ──────────────────────

func (s *evaluationService) Record(ctx context.Context, professorID string, req *dto.RecordEvaluationRequest) (*dto.EvaluationResponse, error) {
	submission, err := s.repo.Submission.GetByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询参赛记录失败", zap.String("id", req.SubmissionID), zap.Error(err))
		return nil, err
	}

	// 评分项必须属于活动的评审类标准，且不得重复
	criteria, err := s.repo.Criterion.ListByEvent(ctx, submission.EventID)
	if err != nil {
		s.logger.Error("查询评审标准失败", zap.String("event_id", submission.EventID), zap.Error(err))
		return nil, err
	}
	valid := make(map[string]bool, len(criteria))
	for i := range criteria {
		if criteria[i].Type == model.CriterionTypeEvaluation {
			valid[criteria[i].CriterionID] = true
		}
	}
	seen := make(map[string]bool, len(req.Scores))
	for _, score := range req.Scores {
		if !valid[score.CriterionID] {
			return nil, ErrCriterionInvalid
		}
		if seen[score.CriterionID] {
			return nil, ErrCriterionDuplicate
		}
		seen[score.CriterionID] = true
	}
	// 必须覆盖全部评审类标准，缺项评分会虚高认可度
	if len(seen) != len(valid) {
		return nil, ErrCriterionIncomplete
	}

	total := 0
	scores := make([]model.EvaluationScore, 0, len(req.Scores))
	for _, score := range req.Scores {
		total += score.Score
		scores = append(scores, model.EvaluationScore{
			CriterionID: score.CriterionID,
			Score:       score.Score,
		})
	}
	approval := approvalPercentage(total, len(valid))

	existing, err := s.repo.Evaluation.GetBySubmissionAndProfessor(ctx, req.SubmissionID, professorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询既有评审失败", zap.Error(err))
		return nil, err
	}

	if existing != nil {
		return s.updateInPlace(ctx, existing, professorID, total, approval, scores)
	}

	evaluation := &model.Evaluation{
		SubmissionID:       req.SubmissionID,
		ProfessorID:        professorID,
		TotalScore:         total,
		ApprovalPercentage: approval,
		Scores:             scores,
	}
	evaluation.CreatedBy = &professorID
	evaluation.UpdatedBy = &professorID

	if err := s.repo.Evaluation.Create(ctx, evaluation); err != nil {
		// 并发首评撞上唯一索引时退化为原地更新
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, gerr := s.repo.Evaluation.GetBySubmissionAndProfessor(ctx, req.SubmissionID, professorID)
			if gerr != nil {
				return nil, gerr
			}
			return s.updateInPlace(ctx, existing, professorID, total, approval, scores)
		}
		s.logger.Error("创建评审失败", zap.Error(err))
		return nil, err
	}

	return toEvaluationResponse(evaluation), nil
}

// updateInPlace 原地更新评审：替换明细分并重算汇总
func (s *evaluationService) updateInPlace(ctx context.Context, existing *model.Evaluation, professorID string, total, approval int, scores []model.EvaluationScore) (*dto.EvaluationResponse, error) {
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

	for i := range scores {
		scores[i].EvaluationID = existing.EvaluationID
	}
	if err := txRepo.Evaluation.ReplaceScores(ctx, existing.EvaluationID, scores); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("替换评审明细分失败", zap.Error(err))
		return nil, err
	}

	existing.TotalScore = total
	existing.ApprovalPercentage = approval
	existing.UpdatedBy = &professorID
	if err := txRepo.Evaluation.Update(ctx, existing); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新评审汇总失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	existing.Scores = scores
	return toEvaluationResponse(existing), nil
}

// ────────────────────── 查询与聚合 ──────────────────────

func (s *evaluationService) ListBySubmission(ctx context.Context, submissionID string) ([]dto.EvaluationResponse, error) {
	if _, err := s.repo.Submission.GetByID(ctx, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	evaluations, err := s.repo.Evaluation.ListBySubmission(ctx, submissionID)
	if err != nil {
		s.logger.Error("查询评审列表失败", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EvaluationResponse, 0, len(evaluations))
	for i := range evaluations {
		result = append(result, *toEvaluationResponse(&evaluations[i]))
	}
	return result, nil
}

// Aggregate 汇总一条参赛记录的全部评审：
// 整体平均为各评审 ApprovalPercentage 的算术平均，另附按标准的平均分
func (s *evaluationService) Aggregate(ctx context.Context, submissionID string) (*dto.EvaluationAggregateResponse, error) {
	if _, err := s.repo.Submission.GetByID(ctx, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	evaluations, err := s.repo.Evaluation.ListBySubmission(ctx, submissionID)
	if err != nil {
		s.logger.Error("查询评审列表失败", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}
	if len(evaluations) == 0 {
		return nil, ErrNoEvaluations
	}

	overallSum := 0.0
	criterionSums := make(map[string]int)
	criterionCounts := make(map[string]int)
	criterionOrder := make([]string, 0)
	for i := range evaluations {
		overallSum += float64(evaluations[i].ApprovalPercentage)
		for _, score := range evaluations[i].Scores {
			if _, ok := criterionSums[score.CriterionID]; !ok {
				criterionOrder = append(criterionOrder, score.CriterionID)
			}
			criterionSums[score.CriterionID] += score.Score
			criterionCounts[score.CriterionID]++
		}
	}

	averages := make([]dto.CriterionAverageEntry, 0, len(criterionOrder))
	for _, id := range criterionOrder {
		averages = append(averages, dto.CriterionAverageEntry{
			CriterionID: id,
			Average:     float64(criterionSums[id]) / float64(criterionCounts[id]),
		})
	}

	return &dto.EvaluationAggregateResponse{
		SubmissionID:      submissionID,
		EvaluationCount:   len(evaluations),
		OverallAverage:    overallSum / float64(len(evaluations)),
		CriterionAverages: averages,
	}, nil
}

// ── 内部辅助方法 ──

// approvalPercentage 认可度 = round(总分 / (评审标准数 × 单项满分) × 100)
func approvalPercentage(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count*model.MaxScorePerCriterion) * 100))
}

func toEvaluationResponse(evaluation *model.Evaluation) *dto.EvaluationResponse {
	resp := &dto.EvaluationResponse{
		ID:                 evaluation.EvaluationID,
		SubmissionID:       evaluation.SubmissionID,
		ProfessorID:        evaluation.ProfessorID,
		TotalScore:         evaluation.TotalScore,
		ApprovalPercentage: evaluation.ApprovalPercentage,
	}
	for _, score := range evaluation.Scores {
		resp.Scores = append(resp.Scores, dto.ScoreItemResponse{
			CriterionID: score.CriterionID,
			Score:       score.Score,
		})
	}
	return resp
}
