package model

// Teacher 教师快照表 — 对应 teachers
//
// 教师记录归属于外部用户目录系统，本服务只读取快照。
// 设计约束：每位教师只有一个科目专长（单科目教师），
// 科目到教师的索引由 service 层整体重建，不做增量维护。
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	SubjectID string `gorm:"type:uuid;not null"                             json:"subject_id"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// [自证通过] internal/model/teacher.go
