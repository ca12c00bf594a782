package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
	"demoday/backend/pkg/mailer"
)

// ── 参赛模块业务错误 ──

var (
	ErrEventNotActive         = errors.New("活动未激活")
	ErrSubmissionPhaseMissing = errors.New("活动未配置提交阶段")
	ErrSubmissionWindowClosed = errors.New("提交窗口已关闭")
	ErrSubmissionNotFound     = errors.New("参赛记录不存在")
	ErrCategoryNotFound       = errors.New("项目类别不存在")
)

// FieldErrors 字段级校验错误表，键为字段名，值为未通过的校验规则
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "参数校验失败" }

var submitValidate = validator.New()

// SubmissionService 参赛门禁业务接口
type SubmissionService interface {
	// Submit 提交项目参赛
	// 前置检查依次为：活动存在 → 活动激活 → 提交阶段已配置 → 窗口开放 → 载荷校验（含类别存在）；
	// override 为 true（管理员）时跳过窗口检查
	Submit(ctx context.Context, eventID, authorID string, req *dto.SubmitProjectRequest, override bool) (*dto.SubmissionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SubmissionResponse, error)
	List(ctx context.Context, eventID string, req *dto.ListSubmissionsRequest) ([]dto.SubmissionResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateSubmissionStatusRequest, callerID string) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, mail *mailer.Mailer, loc *time.Location, logger *zap.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		mail:   mail,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, eventID, authorID string, req *dto.SubmitProjectRequest, override bool) (*dto.SubmissionResponse, error) {
	// 1. 活动存在
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}

	// 2. 活动激活
	if !event.Active {
		return nil, ErrEventNotActive
	}

	// 3/4. 提交阶段已配置且窗口开放（管理员覆盖路径跳过窗口检查）
	if !override {
		var submissionPhase *model.Phase
		for i := range event.Phases {
			if event.Phases[i].PhaseNumber == model.PhaseNumberSubmission {
				submissionPhase = &event.Phases[i]
				break
			}
		}
		if submissionPhase == nil {
			return nil, ErrSubmissionPhaseMissing
		}
		if !phaseWindowContains(submissionPhase, s.now().In(s.loc), s.loc) {
			return nil, ErrSubmissionWindowClosed
		}
	}

	// 5. 载荷校验：字段规则在前，类别存在性在后
	if err := validateSubmitPayload(req); err != nil {
		return nil, err
	}

	category, err := s.repo.Category.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询类别失败", zap.String("id", req.CategoryID), zap.Error(err))
		return nil, err
	}

	project := &model.Project{
		UserID:          authorID,
		CategoryID:      category.CategoryID,
		Title:           req.Title,
		Description:     req.Description,
		Authors:         req.Authors,
		DevelopmentYear: req.DevelopmentYear,
		VideoURL:        req.VideoURL,
		RepositoryURL:   req.RepositoryURL,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		AdvisorName:     req.AdvisorName,
	}
	project.CreatedBy = &authorID
	project.UpdatedBy = &authorID

	submission := &model.Submission{
		EventID: eventID,
		Status:  model.SubmissionStatusSubmitted,
	}
	submission.CreatedBy = &authorID
	submission.UpdatedBy = &authorID

	// 使用事务保证 Project + Submission 两行同生同灭
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

	if err := txRepo.Project.Create(ctx, project); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建项目失败", zap.Error(err))
		return nil, err
	}

	submission.ProjectID = project.ProjectID
	if err := txRepo.Submission.Create(ctx, submission); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建参赛记录失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.notifySubmissionReceived(ctx, authorID, project.Title, event.Name)

	submission.Project = project
	project.Category = category
	return toSubmissionResponse(submission), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *submissionService) GetByID(ctx context.Context, id string) (*dto.SubmissionResponse, error) {
	submission, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询参赛记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, eventID string, req *dto.ListSubmissionsRequest) ([]dto.SubmissionResponse, int64, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, 0, err
	}

	submissions, total, err := s.repo.Submission.List(ctx, eventID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询参赛记录列表失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, *toSubmissionResponse(&submissions[i]))
	}

	return result, total, nil
}

// ────────────────────── UpdateStatus ──────────────────────

// UpdateStatus 管理员调整参赛状态（approve / reject 等）
// finalist 的自动批量赋值见 RankingService.SelectFinalists
func (s *submissionService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateSubmissionStatusRequest, callerID string) (*dto.SubmissionResponse, error) {
	submission, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询参赛记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.Submission.UpdateStatus(ctx, id, req.Status, callerID); err != nil {
		s.logger.Error("更新参赛状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	submission.Status = req.Status
	return toSubmissionResponse(submission), nil
}

// ── 内部辅助方法 ──

// validateSubmitPayload 校验提交载荷字段，失败返回 FieldErrors
func validateSubmitPayload(req *dto.SubmitProjectRequest) error {
	err := submitValidate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return fields
}

// notifySubmissionReceived 发送提交确认邮件（fire-and-forget，失败不影响请求结果）
func (s *submissionService) notifySubmissionReceived(ctx context.Context, authorID, projectTitle, eventName string) {
	if !s.mail.Enabled() {
		return
	}

	author, err := s.repo.User.GetByID(ctx, authorID)
	if err != nil {
		s.logger.Warn("查询作者信息失败，跳过提交通知", zap.String("author_id", authorID), zap.Error(err))
		return
	}

	s.mail.SendAsync(author.Email, "项目提交确认", mailer.SubmissionReceivedBody(projectTitle, eventName))
}

func toSubmissionResponse(submission *model.Submission) *dto.SubmissionResponse {
	resp := &dto.SubmissionResponse{
		ID:        submission.SubmissionID,
		EventID:   submission.EventID,
		Status:    submission.Status,
		CreatedAt: submission.CreatedAt.Format(time.RFC3339),
	}
	if submission.Project != nil {
		p := submission.Project
		resp.Project = &dto.ProjectResponse{
			ID:              p.ProjectID,
			Title:           p.Title,
			Description:     p.Description,
			CategoryID:      p.CategoryID,
			Authors:         p.Authors,
			DevelopmentYear: p.DevelopmentYear,
			VideoURL:        p.VideoURL,
			RepositoryURL:   p.RepositoryURL,
			ContactEmail:    p.ContactEmail,
			ContactPhone:    p.ContactPhone,
			AdvisorName:     p.AdvisorName,
			OwnerID:         p.UserID,
		}
		if p.Category != nil {
			resp.Project.CategoryName = p.Category.Name
		}
	}
	return resp
}
