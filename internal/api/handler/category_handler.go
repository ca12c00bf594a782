package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/service"
	"demoday/backend/pkg/response"
)

// CategoryHandler 类别与评审标准模块 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// ListCategories 获取类别列表
// GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": categories})
}

// GetCategory 获取类别详情
// GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "类别ID不能为空")
		return
	}

	category, err := h.categorySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	response.OK(c, category)
}

// CreateCategory 创建类别
// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	category, err := h.categorySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	response.Created(c, category)
}

// UpdateCategory 更新类别
// PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "类别ID不能为空")
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	category, err := h.categorySvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	response.OK(c, category)
}

// DeleteCategory 删除类别
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "类别ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.categorySvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleCategoryError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 评审标准 ──

// ListCriteria 获取活动评审标准
// GET /api/v1/events/:id/criteria
func (h *CategoryHandler) ListCriteria(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	criteria, err := h.categorySvc.ListCriteria(c.Request.Context(), eventID)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": criteria})
}

// ReplaceCriteria 整体替换活动评审标准
// PUT /api/v1/events/:id/criteria
func (h *CategoryHandler) ReplaceCriteria(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.ReplaceCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	criteria, err := h.categorySvc.ReplaceCriteria(c.Request.Context(), eventID, &req, callerID)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": criteria})
}

// handleCategoryError 统一处理类别模块业务错误
func (h *CategoryHandler) handleCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFound(c, 18001, "类别不存在")
	case errors.Is(err, service.ErrCriterionNotFound):
		response.NotFound(c, 18002, "评审标准不存在")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "活动不存在")
	default:
		response.InternalError(c)
	}
}
