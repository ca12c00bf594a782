package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
)

// ErrCriterionNotFound 评审标准不存在
var ErrCriterionNotFound = errors.New("评审标准不存在")

// CategoryService 类别与评审标准管理业务接口
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest, callerID string) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest, callerID string) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id string, callerID string) error

	// ReplaceCriteria 整体替换活动的评审标准（删旧建新在同一事务内）
	ReplaceCriteria(ctx context.Context, eventID string, req *dto.ReplaceCriteriaRequest, callerID string) ([]dto.CriterionResponse, error)
	ListCriteria(ctx context.Context, eventID string) ([]dto.CriterionResponse, error)
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

// ────────────────────── 类别 CRUD ──────────────────────

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest, callerID string) (*dto.CategoryResponse, error) {
	category := &model.Category{
		Name:         req.Name,
		Description:  req.Description,
		MaxFinalists: req.MaxFinalists,
	}
	if category.MaxFinalists <= 0 {
		category.MaxFinalists = defaultMaxFinalists
	}
	category.CreatedBy = &callerID
	category.UpdatedBy = &callerID

	if err := s.repo.Category.Create(ctx, category); err != nil {
		s.logger.Error("创建类别失败", zap.Error(err))
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询类别失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCategoryResponse(category), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询类别列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, *toCategoryResponse(&categories[i]))
	}
	return result, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest, callerID string) (*dto.CategoryResponse, error) {
	category, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询类别失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.MaxFinalists != nil {
		category.MaxFinalists = *req.MaxFinalists
	}
	category.UpdatedBy = &callerID

	if err := s.repo.Category.Update(ctx, category); err != nil {
		s.logger.Error("更新类别失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Category.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		s.logger.Error("查询类别失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Category.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除类别失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 评审标准 ──────────────────────

func (s *categoryService) ReplaceCriteria(ctx context.Context, eventID string, req *dto.ReplaceCriteriaRequest, callerID string) ([]dto.CriterionResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}

	criteria := make([]model.Criterion, 0, len(req.Criteria))
	for _, input := range req.Criteria {
		criterion := model.Criterion{
			EventID:     eventID,
			Name:        input.Name,
			Description: input.Description,
			Type:        input.Type,
		}
		criterion.CreatedBy = &callerID
		criterion.UpdatedBy = &callerID
		criteria = append(criteria, criterion)
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

	if err := txRepo.Criterion.DeleteByEvent(ctx, eventID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除旧评审标准失败", zap.Error(err))
		return nil, err
	}
	if err := txRepo.Criterion.CreateBatch(ctx, criteria); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建评审标准失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	result := make([]dto.CriterionResponse, 0, len(criteria))
	for i := range criteria {
		result = append(result, *toCriterionResponse(&criteria[i]))
	}
	return result, nil
}

func (s *categoryService) ListCriteria(ctx context.Context, eventID string) ([]dto.CriterionResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.String("id", eventID), zap.Error(err))
		return nil, err
	}

	criteria, err := s.repo.Criterion.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询评审标准失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CriterionResponse, 0, len(criteria))
	for i := range criteria {
		result = append(result, *toCriterionResponse(&criteria[i]))
	}
	return result, nil
}

// ── 响应映射 ──

func toCategoryResponse(category *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:           category.CategoryID,
		Name:         category.Name,
		Description:  category.Description,
		MaxFinalists: category.MaxFinalists,
	}
}

func toCriterionResponse(criterion *model.Criterion) *dto.CriterionResponse {
	return &dto.CriterionResponse{
		ID:          criterion.CriterionID,
		EventID:     criterion.EventID,
		Name:        criterion.Name,
		Description: criterion.Description,
		Type:        criterion.Type,
	}
}
