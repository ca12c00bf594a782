package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
)

func setupTestEvaluationService(t *testing.T) (EvaluationService, *mockSubmissionRepo, *mockCriterionRepo, *mockEvaluationRepo) {
	t.Helper()

	submissionRepo := newMockSubmissionRepo()
	criterionRepo := newMockCriterionRepo()
	evaluationRepo := newMockEvaluationRepo(submissionRepo)
	repo := &repository.Repository{
		Submission: submissionRepo,
		Criterion:  criterionRepo,
		Evaluation: evaluationRepo,
	}

	svc := NewEvaluationService(repo, zap.NewNop())
	return svc, submissionRepo, criterionRepo, evaluationRepo
}

// seedEvaluationFixture 预置一条参赛记录与三条评审类标准 c1/c2/c3
func seedEvaluationFixture(submissionRepo *mockSubmissionRepo, criterionRepo *mockCriterionRepo) {
	submissionRepo.submissions["sub-1"] = &model.Submission{
		SubmissionID: "sub-1", EventID: "event-1", Status: model.SubmissionStatusApproved,
	}
	submissionRepo.order = append(submissionRepo.order, "sub-1")

	criterionRepo.criteria["c1"] = &model.Criterion{CriterionID: "c1", EventID: "event-1", Type: model.CriterionTypeEvaluation}
	criterionRepo.criteria["c2"] = &model.Criterion{CriterionID: "c2", EventID: "event-1", Type: model.CriterionTypeEvaluation}
	criterionRepo.criteria["c3"] = &model.Criterion{CriterionID: "c3", EventID: "event-1", Type: model.CriterionTypeEvaluation}
	criterionRepo.criteria["r1"] = &model.Criterion{CriterionID: "r1", EventID: "event-1", Type: model.CriterionTypeRegistration}
}

func TestEvaluationService_Record_Success(t *testing.T) {
	svc, submissionRepo, criterionRepo, _ := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	resp, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores: []dto.ScoreInput{
			{CriterionID: "c1", Score: 8},
			{CriterionID: "c2", Score: 9},
			{CriterionID: "c3", Score: 8},
		},
	})
	if err != nil {
		t.Fatalf("Record 应成功: %v", err)
	}
	if resp.TotalScore != 25 {
		t.Errorf("期望总分 25，实际 %d", resp.TotalScore)
	}
	// round(25/30*100) = 83
	if resp.ApprovalPercentage != 83 {
		t.Errorf("期望认可度 83，实际 %d", resp.ApprovalPercentage)
	}
	if len(resp.Scores) != 3 {
		t.Errorf("期望 3 条明细分，实际 %d", len(resp.Scores))
	}
}

func TestEvaluationService_Record_CriterionInvalid(t *testing.T) {
	svc, submissionRepo, criterionRepo, _ := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	cases := []struct {
		name        string
		criterionID string
	}{
		{"标准不存在", "unknown"},
		{"报名类标准不可评分", "r1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
				SubmissionID: "sub-1",
				Scores:       []dto.ScoreInput{{CriterionID: tc.criterionID, Score: 5}},
			})
			if !errors.Is(err, ErrCriterionInvalid) {
				t.Errorf("期望 ErrCriterionInvalid，实际: %v", err)
			}
		})
	}
}

func TestEvaluationService_Record_CriterionDuplicate(t *testing.T) {
	svc, submissionRepo, criterionRepo, _ := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	_, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores: []dto.ScoreInput{
			{CriterionID: "c1", Score: 5},
			{CriterionID: "c1", Score: 7},
		},
	})
	if !errors.Is(err, ErrCriterionDuplicate) {
		t.Errorf("期望 ErrCriterionDuplicate，实际: %v", err)
	}
}

func TestEvaluationService_Record_CriterionIncomplete(t *testing.T) {
	svc, submissionRepo, criterionRepo, evaluationRepo := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	// 只评 3 项中的 1 项：若按评分条数作分母，10 分会被算成 100% 认可
	_, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores:       []dto.ScoreInput{{CriterionID: "c1", Score: 10}},
	})
	if !errors.Is(err, ErrCriterionIncomplete) {
		t.Errorf("期望 ErrCriterionIncomplete，实际: %v", err)
	}
	if len(evaluationRepo.evaluations) != 0 {
		t.Errorf("缺项评审不应落库，实际写入 %d 条", len(evaluationRepo.evaluations))
	}
}

func TestEvaluationService_Record_UpsertInPlace(t *testing.T) {
	svc, submissionRepo, criterionRepo, evaluationRepo := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	first, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores: []dto.ScoreInput{
			{CriterionID: "c1", Score: 5},
			{CriterionID: "c2", Score: 5},
			{CriterionID: "c3", Score: 5},
		},
	})
	if err != nil {
		t.Fatalf("首次 Record 应成功: %v", err)
	}

	second, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores: []dto.ScoreInput{
			{CriterionID: "c1", Score: 5},
			{CriterionID: "c2", Score: 6},
			{CriterionID: "c3", Score: 7},
		},
	})
	if err != nil {
		t.Fatalf("重复 Record 应走原地更新: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("原地更新应复用既有评审 ID，期望 %s，实际 %s", first.ID, second.ID)
	}
	if second.TotalScore != 18 {
		t.Errorf("期望更新后总分 18，实际 %d", second.TotalScore)
	}
	// round(18/30*100) = 60
	if second.ApprovalPercentage != 60 {
		t.Errorf("期望更新后认可度 60，实际 %d", second.ApprovalPercentage)
	}
	if len(evaluationRepo.evaluations) != 1 {
		t.Errorf("同一教授重复评审应只保留 1 条记录，实际 %d", len(evaluationRepo.evaluations))
	}
}

func TestEvaluationService_Record_SubmissionNotFound(t *testing.T) {
	svc, _, _, _ := setupTestEvaluationService(t)

	_, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "missing",
		Scores:       []dto.ScoreInput{{CriterionID: "c1", Score: 5}},
	})
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("期望 ErrSubmissionNotFound，实际: %v", err)
	}
}

func TestEvaluationService_Aggregate(t *testing.T) {
	svc, submissionRepo, criterionRepo, _ := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	// 两位教授：认可度 80 与 90，整体平均 85
	if _, err := svc.Record(context.Background(), "prof-1", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores: []dto.ScoreInput{
			{CriterionID: "c1", Score: 8},
			{CriterionID: "c2", Score: 8},
			{CriterionID: "c3", Score: 8},
		},
	}); err != nil {
		t.Fatalf("Record 应成功: %v", err)
	}
	if _, err := svc.Record(context.Background(), "prof-2", &dto.RecordEvaluationRequest{
		SubmissionID: "sub-1",
		Scores: []dto.ScoreInput{
			{CriterionID: "c1", Score: 9},
			{CriterionID: "c2", Score: 9},
			{CriterionID: "c3", Score: 9},
		},
	}); err != nil {
		t.Fatalf("Record 应成功: %v", err)
	}

	agg, err := svc.Aggregate(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}
	if agg.EvaluationCount != 2 {
		t.Errorf("期望评审数 2，实际 %d", agg.EvaluationCount)
	}
	if math.Abs(agg.OverallAverage-85) > 1e-9 {
		t.Errorf("期望整体平均 85，实际 %v", agg.OverallAverage)
	}
	if len(agg.CriterionAverages) != 3 {
		t.Fatalf("期望 3 条标准平均分，实际 %d", len(agg.CriterionAverages))
	}
	if agg.CriterionAverages[0].CriterionID != "c1" || math.Abs(agg.CriterionAverages[0].Average-8.5) > 1e-9 {
		t.Errorf("期望 c1 平均分 8.5，实际: %+v", agg.CriterionAverages[0])
	}
}

func TestEvaluationService_Aggregate_NoEvaluations(t *testing.T) {
	svc, submissionRepo, criterionRepo, _ := setupTestEvaluationService(t)
	seedEvaluationFixture(submissionRepo, criterionRepo)

	if _, err := svc.Aggregate(context.Background(), "sub-1"); !errors.Is(err, ErrNoEvaluations) {
		t.Errorf("期望 ErrNoEvaluations，实际: %v", err)
	}
}

func TestApprovalPercentage(t *testing.T) {
	cases := []struct {
		total int
		count int
		want  int
	}{
		{25, 3, 83}, // round(83.33)
		{18, 2, 90},
		{30, 3, 100},
		{0, 3, 0},
		{5, 0, 0}, // 防御除零
	}

	for _, tc := range cases {
		if got := approvalPercentage(tc.total, tc.count); got != tc.want {
			t.Errorf("approvalPercentage(%d, %d) 期望 %d，实际 %d", tc.total, tc.count, tc.want, got)
		}
	}
}
