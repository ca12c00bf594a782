package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"demoday/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.Active {
		for _, e := range m.events {
			if e.Active {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%03d", m.seq)
	}
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetActive(_ context.Context) (*model.Event, error) {
	for _, e := range m.events {
		if e.Active {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEventRepo) ListActive(_ context.Context) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if e.Status == model.EventStatusActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) ClearActive(_ context.Context) error {
	for _, e := range m.events {
		e.Active = false
	}
	return nil
}

// ── Mock PhaseRepository ──

type mockPhaseRepo struct {
	phases map[string]*model.Phase
	seq    int
}

func newMockPhaseRepo() *mockPhaseRepo {
	return &mockPhaseRepo{phases: make(map[string]*model.Phase)}
}

func (m *mockPhaseRepo) Create(_ context.Context, phase *model.Phase) error {
	for _, p := range m.phases {
		if p.EventID == phase.EventID && p.PhaseNumber == phase.PhaseNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if phase.PhaseID == "" {
		m.seq++
		phase.PhaseID = fmt.Sprintf("phase-%03d", m.seq)
	}
	m.phases[phase.PhaseID] = phase
	return nil
}

func (m *mockPhaseRepo) GetByID(_ context.Context, id string) (*model.Phase, error) {
	if p, ok := m.phases[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPhaseRepo) ListByEvent(_ context.Context, eventID string) ([]model.Phase, error) {
	var result []model.Phase
	for _, p := range m.phases {
		if p.EventID == eventID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PhaseNumber < result[j].PhaseNumber })
	return result, nil
}

func (m *mockPhaseRepo) Update(_ context.Context, phase *model.Phase) error {
	m.phases[phase.PhaseID] = phase
	return nil
}

func (m *mockPhaseRepo) Delete(_ context.Context, id string) error {
	delete(m.phases, id)
	return nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories map[string]*model.Category
	seq        int
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	if category.CategoryID == "" {
		m.seq++
		category.CategoryID = fmt.Sprintf("cat-%03d", m.seq)
	}
	m.categories[category.CategoryID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	m.categories[category.CategoryID] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.categories, id)
	return nil
}

// ── Mock CriterionRepository ──

type mockCriterionRepo struct {
	criteria map[string]*model.Criterion
	seq      int
}

func newMockCriterionRepo() *mockCriterionRepo {
	return &mockCriterionRepo{criteria: make(map[string]*model.Criterion)}
}

func (m *mockCriterionRepo) CreateBatch(_ context.Context, criteria []model.Criterion) error {
	for i := range criteria {
		if criteria[i].CriterionID == "" {
			m.seq++
			criteria[i].CriterionID = fmt.Sprintf("crit-%03d", m.seq)
		}
		c := criteria[i]
		m.criteria[c.CriterionID] = &c
	}
	return nil
}

func (m *mockCriterionRepo) GetByID(_ context.Context, id string) (*model.Criterion, error) {
	if c, ok := m.criteria[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCriterionRepo) ListByEvent(_ context.Context, eventID string) ([]model.Criterion, error) {
	var result []model.Criterion
	for _, c := range m.criteria {
		if c.EventID == eventID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCriterionRepo) DeleteByEvent(_ context.Context, eventID string) error {
	for id, c := range m.criteria {
		if c.EventID == eventID {
			delete(m.criteria, id)
		}
	}
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]*model.Project
	seq      int
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]*model.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	if project.ProjectID == "" {
		m.seq++
		project.ProjectID = fmt.Sprintf("proj-%03d", m.seq)
	}
	m.projects[project.ProjectID] = project
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) ListByOwner(_ context.Context, userID string) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[string]*model.Submission
	order       []string // 保留插入顺序，分页可预期
	seq         int
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{submissions: make(map[string]*model.Submission)}
}

func (m *mockSubmissionRepo) Create(_ context.Context, submission *model.Submission) error {
	if submission.SubmissionID == "" {
		m.seq++
		submission.SubmissionID = fmt.Sprintf("sub-%03d", m.seq)
	}
	m.submissions[submission.SubmissionID] = submission
	m.order = append(m.order, submission.SubmissionID)
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByProject(_ context.Context, projectID, eventID string) (*model.Submission, error) {
	for _, id := range m.order {
		s := m.submissions[id]
		if s != nil && s.ProjectID == projectID && s.EventID == eventID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) List(_ context.Context, eventID, status string, offset, limit int) ([]model.Submission, int64, error) {
	var matched []model.Submission
	for _, id := range m.order {
		s := m.submissions[id]
		if s == nil || s.EventID != eventID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		matched = append(matched, *s)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockSubmissionRepo) ListAllByEvent(_ context.Context, eventID string) ([]model.Submission, error) {
	var result []model.Submission
	for _, id := range m.order {
		s := m.submissions[id]
		if s != nil && s.EventID == eventID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) UpdateStatus(_ context.Context, id, status string, _ string) error {
	if s, ok := m.submissions[id]; ok {
		s.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ResetFinalists(_ context.Context, eventID string) error {
	for _, s := range m.submissions {
		if s.EventID == eventID && s.Status == model.SubmissionStatusFinalist {
			s.Status = model.SubmissionStatusApproved
		}
	}
	return nil
}

// ── Mock VoteRepository ──

type mockVoteRepo struct {
	votes map[string]*model.Vote
	seq   int
}

func newMockVoteRepo() *mockVoteRepo {
	return &mockVoteRepo{votes: make(map[string]*model.Vote)}
}

func (m *mockVoteRepo) Create(_ context.Context, vote *model.Vote) error {
	for _, v := range m.votes {
		if v.UserID == vote.UserID && v.ProjectID == vote.ProjectID && v.VotePhase == vote.VotePhase {
			return gorm.ErrDuplicatedKey
		}
	}
	if vote.VoteID == "" {
		m.seq++
		vote.VoteID = fmt.Sprintf("vote-%03d", m.seq)
	}
	m.votes[vote.VoteID] = vote
	return nil
}

func (m *mockVoteRepo) ListByEvent(_ context.Context, eventID string) ([]model.Vote, error) {
	var result []model.Vote
	for _, v := range m.votes {
		if v.EventID == eventID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockVoteRepo) CountByUser(_ context.Context, userID, eventID string) (int64, error) {
	var count int64
	for _, v := range m.votes {
		if v.UserID == userID && v.EventID == eventID {
			count++
		}
	}
	return count, nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evaluations map[string]*model.Evaluation
	subs        *mockSubmissionRepo // ListByEvent 需借助参赛记录定位活动
	seq         int
}

func newMockEvaluationRepo(subs *mockSubmissionRepo) *mockEvaluationRepo {
	return &mockEvaluationRepo{evaluations: make(map[string]*model.Evaluation), subs: subs}
}

func (m *mockEvaluationRepo) Create(_ context.Context, evaluation *model.Evaluation) error {
	for _, e := range m.evaluations {
		if e.SubmissionID == evaluation.SubmissionID && e.ProfessorID == evaluation.ProfessorID {
			return gorm.ErrDuplicatedKey
		}
	}
	if evaluation.EvaluationID == "" {
		m.seq++
		evaluation.EvaluationID = fmt.Sprintf("eval-%03d", m.seq)
	}
	m.evaluations[evaluation.EvaluationID] = evaluation
	return nil
}

func (m *mockEvaluationRepo) GetBySubmissionAndProfessor(_ context.Context, submissionID, professorID string) (*model.Evaluation, error) {
	for _, e := range m.evaluations {
		if e.SubmissionID == submissionID && e.ProfessorID == professorID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ListBySubmission(_ context.Context, submissionID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.evaluations {
		if e.SubmissionID == submissionID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) ListByEvent(_ context.Context, eventID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.evaluations {
		if m.subs == nil {
			continue
		}
		if s, ok := m.subs.submissions[e.SubmissionID]; ok && s.EventID == eventID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) Update(_ context.Context, evaluation *model.Evaluation) error {
	if existing, ok := m.evaluations[evaluation.EvaluationID]; ok {
		existing.TotalScore = evaluation.TotalScore
		existing.ApprovalPercentage = evaluation.ApprovalPercentage
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ReplaceScores(_ context.Context, evaluationID string, scores []model.EvaluationScore) error {
	if existing, ok := m.evaluations[evaluationID]; ok {
		existing.Scores = scores
		return nil
	}
	return gorm.ErrRecordNotFound
}
