package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"demoday/backend/internal/service"
	"demoday/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRanking 导出活动排名 Excel
// GET /api/v1/events/:id/export/ranking
func (h *ExportHandler) ExportRanking(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportRanking(c.Request.Context(), eventID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCalendar 导出活动阶段日历 ICS
// GET /api/v1/events/:id/export/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, 10001, "活动ID不能为空")
		return
	}

	content, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), eventID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "活动不存在")
	case errors.Is(err, service.ErrExportNoEntries):
		response.BadRequest(c, 17001, "该活动暂无参赛记录可导出")
	case errors.Is(err, service.ErrCalendarNoPhases):
		response.BadRequest(c, 17002, "该活动暂无阶段可导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
