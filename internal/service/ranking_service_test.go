package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"

	"demoday/backend/config"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
	"demoday/backend/pkg/mailer"
)

type rankingFixture struct {
	events      *mockEventRepo
	categories  *mockCategoryRepo
	submissions *mockSubmissionRepo
	votes       *mockVoteRepo
	evaluations *mockEvaluationRepo
}

func setupTestRankingService(t *testing.T) (RankingService, *rankingFixture) {
	t.Helper()

	f := &rankingFixture{
		events:      newMockEventRepo(),
		categories:  newMockCategoryRepo(),
		submissions: newMockSubmissionRepo(),
		votes:       newMockVoteRepo(),
	}
	f.evaluations = newMockEvaluationRepo(f.submissions)

	repo := &repository.Repository{
		User:       newMockUserRepo(),
		Event:      f.events,
		Category:   f.categories,
		Project:    newMockProjectRepo(),
		Submission: f.submissions,
		Vote:       f.votes,
		Evaluation: f.evaluations,
	}

	mail := mailer.NewMailer(&config.MailConfig{}, zap.NewNop())
	svc := NewRankingService(repo, mail, zap.NewNop())
	return svc, f
}

func (f *rankingFixture) addSubmission(subID, projID, categoryID, status string) {
	f.submissions.submissions[subID] = &model.Submission{
		SubmissionID: subID,
		EventID:      "event-1",
		ProjectID:    projID,
		Status:       status,
		Project: &model.Project{
			ProjectID:  projID,
			CategoryID: categoryID,
			Title:      "项目 " + projID,
		},
	}
	f.submissions.order = append(f.submissions.order, subID)
}

func (f *rankingFixture) addVotes(projID, phase string, count int) {
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("v-%s-%s-%d", projID, phase, i)
		f.votes.votes[id] = &model.Vote{
			VoteID:    id,
			UserID:    fmt.Sprintf("voter-%s-%d", phase, i),
			ProjectID: projID,
			EventID:   "event-1",
			VotePhase: phase,
			Weight:    1,
		}
	}
}

func (f *rankingFixture) addEvaluation(evalID, subID, profID string, approval int) {
	f.evaluations.evaluations[evalID] = &model.Evaluation{
		EvaluationID:       evalID,
		SubmissionID:       subID,
		ProfessorID:        profID,
		ApprovalPercentage: approval,
	}
}

func TestRankingService_ComputeRanking_WeightedScore(t *testing.T) {
	svc, f := setupTestRankingService(t)
	f.events.events["event-1"] = &model.Event{EventID: "event-1", Status: model.EventStatusActive}
	f.addSubmission("sub-1", "proj-1", "cat-1", model.SubmissionStatusApproved)

	// 10 张大众票 + 2 张终审票（×3）+ 评审平均 80 = 96
	f.addVotes("proj-1", model.VotePhasePopular, 10)
	f.addVotes("proj-1", model.VotePhaseFinal, 2)
	f.addEvaluation("e1", "sub-1", "prof-1", 80)

	resp, err := svc.ComputeRanking(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("ComputeRanking 应成功: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("期望 1 条排名，实际 %d", len(resp.Entries))
	}

	entry := resp.Entries[0]
	if entry.PopularVotes != 10 {
		t.Errorf("期望大众票数 10，实际 %d", entry.PopularVotes)
	}
	if entry.FinalVotes != 2 {
		t.Errorf("期望终审票数 2，实际 %d", entry.FinalVotes)
	}
	if math.Abs(entry.EvaluationAverage-80) > 1e-9 {
		t.Errorf("期望评审平均 80，实际 %v", entry.EvaluationAverage)
	}
	if math.Abs(entry.TotalWeightedScore-96) > 1e-9 {
		t.Errorf("期望加权总分 96，实际 %v", entry.TotalWeightedScore)
	}
}

func TestRankingService_ComputeRanking_Ordering(t *testing.T) {
	svc, f := setupTestRankingService(t)
	f.events.events["event-1"] = &model.Event{EventID: "event-1", Status: model.EventStatusActive}

	// sub-a: 5 票；sub-b: 8 票；sub-c: 5 票但评审平均更高
	f.addSubmission("sub-a", "proj-a", "cat-1", model.SubmissionStatusApproved)
	f.addSubmission("sub-b", "proj-b", "cat-1", model.SubmissionStatusApproved)
	f.addSubmission("sub-c", "proj-c", "cat-1", model.SubmissionStatusApproved)
	f.addVotes("proj-a", model.VotePhasePopular, 5)
	f.addVotes("proj-b", model.VotePhasePopular, 8)
	f.addVotes("proj-c", model.VotePhasePopular, 3)
	f.addEvaluation("e1", "sub-c", "prof-1", 2)

	resp, err := svc.ComputeRanking(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("ComputeRanking 应成功: %v", err)
	}
	if len(resp.Entries) != 3 {
		t.Fatalf("期望 3 条排名，实际 %d", len(resp.Entries))
	}

	// sub-b(8) > sub-c(3+2，评审平均决胜) > sub-a(5)
	if resp.Entries[0].SubmissionID != "sub-b" {
		t.Errorf("首位期望 sub-b，实际 %s", resp.Entries[0].SubmissionID)
	}
	if resp.Entries[1].SubmissionID != "sub-c" {
		t.Errorf("次位期望 sub-c（总分并列时评审平均优先），实际 %s", resp.Entries[1].SubmissionID)
	}
	if resp.Entries[2].SubmissionID != "sub-a" {
		t.Errorf("末位期望 sub-a，实际 %s", resp.Entries[2].SubmissionID)
	}
}

func TestRankingService_ComputeRanking_TieBreakBySubmissionID(t *testing.T) {
	svc, f := setupTestRankingService(t)
	f.events.events["event-1"] = &model.Event{EventID: "event-1", Status: model.EventStatusActive}

	f.addSubmission("sub-b", "proj-b", "cat-1", model.SubmissionStatusApproved)
	f.addSubmission("sub-a", "proj-a", "cat-1", model.SubmissionStatusApproved)
	f.addVotes("proj-a", model.VotePhasePopular, 5)
	f.addVotes("proj-b", model.VotePhasePopular, 5)

	resp, err := svc.ComputeRanking(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("ComputeRanking 应成功: %v", err)
	}
	if resp.Entries[0].SubmissionID != "sub-a" {
		t.Errorf("完全并列时应按参赛记录 ID 升序，首位期望 sub-a，实际 %s", resp.Entries[0].SubmissionID)
	}
}

func TestRankingService_ComputeRanking_EventNotFound(t *testing.T) {
	svc, _ := setupTestRankingService(t)

	if _, err := svc.ComputeRanking(context.Background(), "missing"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("期望 ErrEventNotFound，实际: %v", err)
	}
}

func TestRankingService_SelectFinalists_TopNPerCategory(t *testing.T) {
	svc, f := setupTestRankingService(t)
	f.events.events["event-1"] = &model.Event{EventID: "event-1", Name: "Demoday 2026", Status: model.EventStatusActive}
	f.categories.categories["cat-1"] = &model.Category{CategoryID: "cat-1", MaxFinalists: 1}

	f.addSubmission("sub-a", "proj-a", "cat-1", model.SubmissionStatusApproved)
	f.addSubmission("sub-b", "proj-b", "cat-1", model.SubmissionStatusApproved)
	f.addSubmission("sub-r", "proj-r", "cat-1", model.SubmissionStatusRejected)
	f.addVotes("proj-a", model.VotePhasePopular, 3)
	f.addVotes("proj-b", model.VotePhasePopular, 9)
	f.addVotes("proj-r", model.VotePhasePopular, 20)

	resp, err := svc.SelectFinalists(context.Background(), "event-1", "admin-1")
	if err != nil {
		t.Fatalf("SelectFinalists 应成功: %v", err)
	}
	if len(resp.FinalistIDs) != 1 || resp.FinalistIDs[0] != "sub-b" {
		t.Fatalf("期望入围 [sub-b]，实际: %v", resp.FinalistIDs)
	}
	if f.submissions.submissions["sub-b"].Status != model.SubmissionStatusFinalist {
		t.Error("sub-b 状态应为 finalist")
	}
	if f.submissions.submissions["sub-a"].Status != model.SubmissionStatusApproved {
		t.Error("未入围的 sub-a 状态应保持 approved")
	}
	if f.submissions.submissions["sub-r"].Status != model.SubmissionStatusRejected {
		t.Error("rejected 的参赛记录不应参与评选")
	}
}

func TestRankingService_SelectFinalists_Idempotent(t *testing.T) {
	svc, f := setupTestRankingService(t)
	f.events.events["event-1"] = &model.Event{EventID: "event-1", Name: "Demoday 2026", Status: model.EventStatusActive}
	f.categories.categories["cat-1"] = &model.Category{CategoryID: "cat-1", MaxFinalists: 1}

	f.addSubmission("sub-a", "proj-a", "cat-1", model.SubmissionStatusApproved)
	f.addSubmission("sub-b", "proj-b", "cat-1", model.SubmissionStatusApproved)
	f.addVotes("proj-b", model.VotePhasePopular, 9)

	if _, err := svc.SelectFinalists(context.Background(), "event-1", "admin-1"); err != nil {
		t.Fatalf("首次 SelectFinalists 应成功: %v", err)
	}

	// 票型反转后重跑：入围名单随之切换，旧 finalist 回退
	f.addVotes("proj-a", model.VotePhasePopular, 20)

	resp, err := svc.SelectFinalists(context.Background(), "event-1", "admin-1")
	if err != nil {
		t.Fatalf("重跑 SelectFinalists 应成功: %v", err)
	}
	if len(resp.FinalistIDs) != 1 || resp.FinalistIDs[0] != "sub-a" {
		t.Fatalf("期望入围 [sub-a]，实际: %v", resp.FinalistIDs)
	}
	if f.submissions.submissions["sub-a"].Status != model.SubmissionStatusFinalist {
		t.Error("sub-a 状态应为 finalist")
	}
	if f.submissions.submissions["sub-b"].Status != model.SubmissionStatusApproved {
		t.Error("旧 finalist sub-b 应回退为 approved")
	}
}

func TestRankingService_SelectFinalists_DefaultQuota(t *testing.T) {
	svc, f := setupTestRankingService(t)
	f.events.events["event-1"] = &model.Event{EventID: "event-1", Name: "Demoday 2026", Status: model.EventStatusActive}

	// 类别未配置名额，使用默认值
	for i := 0; i < defaultMaxFinalists+2; i++ {
		subID := fmt.Sprintf("sub-%02d", i)
		projID := fmt.Sprintf("proj-%02d", i)
		f.addSubmission(subID, projID, "cat-missing", model.SubmissionStatusApproved)
	}

	resp, err := svc.SelectFinalists(context.Background(), "event-1", "admin-1")
	if err != nil {
		t.Fatalf("SelectFinalists 应成功: %v", err)
	}
	if len(resp.FinalistIDs) != defaultMaxFinalists {
		t.Errorf("期望入围 %d 个，实际 %d", defaultMaxFinalists, len(resp.FinalistIDs))
	}
}

func TestRankingService_SelectFinalists_EventNotFound(t *testing.T) {
	svc, _ := setupTestRankingService(t)

	if _, err := svc.SelectFinalists(context.Background(), "missing", "admin-1"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("期望 ErrEventNotFound，实际: %v", err)
	}
}
