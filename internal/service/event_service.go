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

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound       = errors.New("活动不存在")
	ErrActiveEventConflict = errors.New("已存在激活的活动")
	ErrPhaseNotFound       = errors.New("阶段不存在")
	ErrPhaseDateInvalid    = errors.New("阶段日期无效")
	ErrPhaseOverlap        = errors.New("阶段日期窗口与已有阶段重叠")
	ErrPhaseNumberTaken    = errors.New("阶段编号已存在")
)

// EventService 活动与阶段日历业务接口
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	GetActive(ctx context.Context) (*dto.EventResponse, error)
	List(ctx context.Context) ([]dto.EventResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error)
	Delete(ctx context.Context, id string, callerID string) error

	CreatePhase(ctx context.Context, eventID string, req *dto.CreatePhaseRequest, callerID string) (*dto.PhaseResponse, error)
	UpdatePhase(ctx context.Context, phaseID string, req *dto.UpdatePhaseRequest, callerID string) (*dto.PhaseResponse, error)
	DeletePhase(ctx context.Context, phaseID string) error
	ListPhases(ctx context.Context, eventID string) ([]dto.PhaseResponse, error)

	GetCurrentPhase(ctx context.Context, eventID string) (*dto.CurrentPhaseResponse, error)
	CheckAndFinishExpired(ctx context.Context, callerID string) (*dto.FinishSweepResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) EventService {
	return &eventService{
		repo:   repo,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ────────────────────── Create ──────────────────────

// Create 创建活动
// activate 为 true 时在同一事务内先取消此前的激活活动，保证全局至多一个激活活动
func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error) {
	event := &model.Event{
		Name:   req.Name,
		Active: req.Activate,
		Status: model.EventStatusActive,
	}
	event.CreatedBy = &callerID
	event.UpdatedBy = &callerID

	if !req.Activate {
		if err := s.repo.Event.Create(ctx, event); err != nil {
			s.logger.Error("创建活动失败", zap.Error(err))
			return nil, err
		}
		return s.toEventResponse(event), nil
	}

	// 使用事务保证 ClearActive + Create 的原子性
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

	if err := txRepo.Event.ClearActive(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("取消激活活动失败", zap.Error(err))
		return nil, err
	}

	if err := txRepo.Event.Create(ctx, event); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		// 并发创建时部分唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrActiveEventConflict
		}
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.toEventResponse(event), nil
}

// ────────────────────── GetByID / GetActive / List ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toEventResponse(event), nil
}

func (s *eventService) GetActive(ctx context.Context) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询激活活动失败", zap.Error(err))
		return nil, err
	}

	return s.toEventResponse(event), nil
}

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.Event.List(ctx)
	if err != nil {
		s.logger.Error("列出活动失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *s.toEventResponse(&events[i]))
	}

	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Status != nil {
		event.Status = *req.Status
		// 终结或取消的活动不再保持激活
		if event.Status != model.EventStatusActive {
			event.Active = false
		}
	}

	event.UpdatedBy = &callerID

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("更新活动失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toEventResponse(event), nil
}

func (s *eventService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Event.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除活动失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── 阶段管理 ──────────────────────

// CreatePhase 创建阶段
// 校验日期合法性与窗口不重叠（重叠属配置错误，直接拒绝）
func (s *eventService) CreatePhase(ctx context.Context, eventID string, req *dto.CreatePhaseRequest, callerID string) (*dto.PhaseResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrPhaseDateInvalid
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrPhaseDateInvalid
	}
	if endDate.Before(startDate) {
		return nil, ErrPhaseDateInvalid
	}

	phase := &model.Phase{
		EventID:     eventID,
		PhaseNumber: req.PhaseNumber,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	existing, err := s.repo.Phase.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询阶段列表失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	for i := range existing {
		if existing[i].PhaseNumber == req.PhaseNumber {
			return nil, ErrPhaseNumberTaken
		}
		if phasesOverlap(phase, &existing[i], s.loc) {
			return nil, ErrPhaseOverlap
		}
	}

	phase.CreatedBy = &callerID
	phase.UpdatedBy = &callerID

	if err := s.repo.Phase.Create(ctx, phase); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhaseNumberTaken
		}
		s.logger.Error("创建阶段失败", zap.Error(err))
		return nil, err
	}

	return toPhaseResponse(phase), nil
}

func (s *eventService) UpdatePhase(ctx context.Context, phaseID string, req *dto.UpdatePhaseRequest, callerID string) (*dto.PhaseResponse, error) {
	phase, err := s.repo.Phase.GetByID(ctx, phaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhaseNotFound
		}
		s.logger.Error("查询阶段失败", zap.String("id", phaseID), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		phase.Name = *req.Name
	}
	if req.Description != nil {
		phase.Description = *req.Description
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, ErrPhaseDateInvalid
		}
		phase.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, ErrPhaseDateInvalid
		}
		phase.EndDate = endDate
	}
	if phase.EndDate.Before(phase.StartDate) {
		return nil, ErrPhaseDateInvalid
	}

	siblings, err := s.repo.Phase.ListByEvent(ctx, phase.EventID)
	if err != nil {
		s.logger.Error("查询阶段列表失败", zap.String("event_id", phase.EventID), zap.Error(err))
		return nil, err
	}
	for i := range siblings {
		if siblings[i].PhaseID == phase.PhaseID {
			continue
		}
		if phasesOverlap(phase, &siblings[i], s.loc) {
			return nil, ErrPhaseOverlap
		}
	}

	phase.UpdatedBy = &callerID

	if err := s.repo.Phase.Update(ctx, phase); err != nil {
		s.logger.Error("更新阶段失败", zap.String("id", phaseID), zap.Error(err))
		return nil, err
	}

	return toPhaseResponse(phase), nil
}

func (s *eventService) DeletePhase(ctx context.Context, phaseID string) error {
	if _, err := s.repo.Phase.GetByID(ctx, phaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhaseNotFound
		}
		s.logger.Error("查询阶段失败", zap.String("id", phaseID), zap.Error(err))
		return err
	}

	if err := s.repo.Phase.Delete(ctx, phaseID); err != nil {
		s.logger.Error("删除阶段失败", zap.String("id", phaseID), zap.Error(err))
		return err
	}

	return nil
}

func (s *eventService) ListPhases(ctx context.Context, eventID string) ([]dto.PhaseResponse, error) {
	phases, err := s.repo.Phase.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询阶段列表失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PhaseResponse, 0, len(phases))
	for i := range phases {
		result = append(result, *toPhaseResponse(&phases[i]))
	}

	return result, nil
}

// ────────────────────── 阶段日历 ──────────────────────

// GetCurrentPhase 返回活动当前所处阶段；不在任何窗口内时 Phase 为 nil
func (s *eventService) GetCurrentPhase(ctx context.Context, eventID string) (*dto.CurrentPhaseResponse, error) {
	phases, err := s.repo.Phase.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询阶段列表失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	resp := &dto.CurrentPhaseResponse{EventID: eventID}
	if p := currentPhase(phases, s.now().In(s.loc), s.loc); p != nil {
		resp.Phase = toPhaseResponse(p)
	}

	return resp, nil
}

// CheckAndFinishExpired 到期活动清扫
// 扫描所有 active 活动，最后阶段已结束的置为 finished 并取消激活；按需触发，无定时器
func (s *eventService) CheckAndFinishExpired(ctx context.Context, callerID string) (*dto.FinishSweepResponse, error) {
	events, err := s.repo.Event.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, err
	}

	now := s.now().In(s.loc)
	finished := make([]string, 0)

	for i := range events {
		event := &events[i]
		if !isEventFinished(event.Phases, now, s.loc) {
			continue
		}

		event.Status = model.EventStatusFinished
		event.Active = false
		event.UpdatedBy = &callerID

		if err := s.repo.Event.Update(ctx, event); err != nil {
			s.logger.Error("终结到期活动失败", zap.String("id", event.EventID), zap.Error(err))
			return nil, err
		}

		finished = append(finished, event.EventID)
		s.logger.Info("活动已自动终结", zap.String("id", event.EventID), zap.String("name", event.Name))
	}

	return &dto.FinishSweepResponse{FinishedEventIDs: finished}, nil
}

// ── 内部辅助方法 ──

func (s *eventService) toEventResponse(event *model.Event) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:        event.EventID,
		Name:      event.Name,
		Active:    event.Active,
		Status:    event.Status,
		CreatedAt: event.CreatedAt.Format(time.RFC3339),
		UpdatedAt: event.UpdatedAt.Format(time.RFC3339),
	}
	for i := range event.Phases {
		resp.Phases = append(resp.Phases, *toPhaseResponse(&event.Phases[i]))
	}
	return resp
}

func toPhaseResponse(phase *model.Phase) *dto.PhaseResponse {
	return &dto.PhaseResponse{
		ID:          phase.PhaseID,
		EventID:     phase.EventID,
		PhaseNumber: phase.PhaseNumber,
		Name:        phase.Name,
		Description: phase.Description,
		StartDate:   phase.StartDate.Format("2006-01-02"),
		EndDate:     phase.EndDate.Format("2006-01-02"),
	}
}
