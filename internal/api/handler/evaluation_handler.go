package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/service"
	"demoday/backend/pkg/response"
)

// EvaluationHandler 评审模块 HTTP 处理器
type EvaluationHandler struct {
	evaluationSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evaluationSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

// RecordEvaluation 提交评审（重复提交走原地更新）
// POST /api/v1/evaluations
func (h *EvaluationHandler) RecordEvaluation(c *gin.Context) {
	var req dto.RecordEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := bindingFields(err); fields != nil {
			response.ValidationFailed(c, 16001, "参数校验失败", fields)
			return
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	professorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	evaluation, err := h.evaluationSvc.Record(c.Request.Context(), professorID, &req)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, evaluation)
}

// ListEvaluations 获取参赛记录的评审列表
// GET /api/v1/submissions/:id/evaluations
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	submissionID := c.Param("id")
	if submissionID == "" {
		response.BadRequest(c, 10001, "参赛记录ID不能为空")
		return
	}

	evaluations, err := h.evaluationSvc.ListBySubmission(c.Request.Context(), submissionID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": evaluations})
}

// GetEvaluationAggregate 获取参赛记录的评审聚合结果
// GET /api/v1/submissions/:id/evaluations/aggregate
func (h *EvaluationHandler) GetEvaluationAggregate(c *gin.Context) {
	submissionID := c.Param("id")
	if submissionID == "" {
		response.BadRequest(c, 10001, "参赛记录ID不能为空")
		return
	}

	aggregate, err := h.evaluationSvc.Aggregate(c.Request.Context(), submissionID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, aggregate)
}

// handleEvaluationError 统一处理评审模块业务错误
func (h *EvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 14005, "参赛记录不存在")
	case errors.Is(err, service.ErrCriterionInvalid):
		response.BadRequest(c, 16002, "评分项不属于该活动的评审标准")
	case errors.Is(err, service.ErrCriterionDuplicate):
		response.BadRequest(c, 16003, "评分项重复")
	case errors.Is(err, service.ErrCriterionIncomplete):
		response.BadRequest(c, 16005, "评分未覆盖活动全部评审类标准")
	case errors.Is(err, service.ErrNoEvaluations):
		response.NotFound(c, 16004, "该参赛记录暂无评审")
	default:
		response.InternalError(c)
	}
}
