package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"demoday/backend/internal/service"
	"demoday/backend/pkg/response"
)

// RankingHandler 评分引擎 HTTP 处理器
type RankingHandler struct {
	rankingSvc service.RankingService
}

// NewRankingHandler 创建 RankingHandler
func NewRankingHandler(rankingSvc service.RankingService) *RankingHandler {
	return &RankingHandler{rankingSvc: rankingSvc}
}

// GetRanking 获取活动排名
// GET /api/v1/events/:id/ranking
func (h *RankingHandler) GetRanking(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	ranking, err := h.rankingSvc.ComputeRanking(c.Request.Context(), eventID)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}

	response.OK(c, ranking)
}

// SelectFinalists 按类别评选入围项目
// POST /api/v1/events/:id/finalists
func (h *RankingHandler) SelectFinalists(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.rankingSvc.SelectFinalists(c.Request.Context(), eventID, callerID)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}

	response.OK(c, result)
}

// handleRankingError 统一处理排名模块业务错误
func (h *RankingHandler) handleRankingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "活动不存在")
	default:
		response.InternalError(c)
	}
}
