package dto

// ── 基础目录模块 DTO ──

// CreateClassSectionRequest 创建班级请求
type CreateClassSectionRequest struct {
	Grade   int    `json:"grade"   binding:"required,min=1,max=13"`
	Section string `json:"section" binding:"required,len=1,alpha"`
}

// ClassSectionResponse 班级信息响应
type ClassSectionResponse struct {
	ID      string `json:"id"`
	Grade   int    `json:"grade"`
	Section string `json:"section"`
	Label   string `json:"label"` // "10-B"
}

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	Code string `json:"code" binding:"required,min=1,max=20"`
	Name string `json:"name" binding:"omitempty,max=100"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name     *string `json:"name"      binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

// RoomListRequest 教室列表查询参数
type RoomListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// RoomResponse 教室信息响应
type RoomResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name,omitempty"`
	IsActive bool   `json:"is_active"`
}

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SubjectResponse 科目信息响应
type SubjectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatePeriodRequest 创建节次请求
type CreatePeriodRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=50"`
	StartTime string `json:"start_time" binding:"required"` // "08:00"
	EndTime   string `json:"end_time"   binding:"required"` // "09:00"
	SortOrder int    `json:"sort_order" binding:"required,min=1"`
}

// PeriodResponse 节次信息响应
type PeriodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

// ── 教师快照模块 DTO ──

// TeacherListRequest 教师列表查询参数
type TeacherListRequest struct {
	PaginationRequest

	// SubjectID 按科目过滤（科目→教师索引查询）
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
}

// TeacherResponse 教师信息响应
type TeacherResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Subject *SubjectResponse `json:"subject,omitempty"`
}

// TeacherSnapshotItem 外部用户目录推送的教师快照记录
type TeacherSnapshotItem struct {
	ID        string `json:"id"         binding:"omitempty,uuid"`
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	SubjectID string `json:"subject_id" binding:"required,uuid"`
}

// ReplaceTeachersRequest 全量刷新教师快照请求
type ReplaceTeachersRequest struct {
	Teachers []TeacherSnapshotItem `json:"teachers" binding:"required,dive"`
}

// [自证通过] internal/dto/catalog.go
