package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"edulink/backend/config"
	"edulink/backend/internal/dto"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
	"edulink/backend/pkg/redis"
)

// ── 基础目录模块业务错误 ──

var (
	ErrClassSectionNotFound = errors.New("班级不存在")
	ErrRoomNotFound         = errors.New("教室不存在")
	ErrSubjectNotFound      = errors.New("科目不存在")
	ErrPeriodNotFound       = errors.New("节次不存在")
	ErrGradeOutOfRange      = errors.New("年级超出学制范围")
)

// 目录缓存 key
const (
	cacheKeyClassSections = "class_sections"
	cacheKeyRooms         = "rooms"
	cacheKeySubjects      = "subjects"
	cacheKeyPeriods       = "periods"
)

// CatalogService 基础目录业务接口
//
// 目录数据变更低频、读取高频（每次打开排课页都要拉全量目录），
// 列表查询走 Redis 整体快照缓存，任何写操作后对应 key 整体失效。
// Redis 不可用时自动降级为直连数据库。
type CatalogService interface {
	// 班级
	CreateClassSection(ctx context.Context, req *dto.CreateClassSectionRequest, callerID string) (*dto.ClassSectionResponse, error)
	ListClassSections(ctx context.Context) ([]dto.ClassSectionResponse, error)
	DeleteClassSection(ctx context.Context, id string, callerID string) error

	// 教室
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	ListRooms(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error)
	UpdateRoom(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id string, callerID string) error

	// 科目
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest, callerID string) (*dto.SubjectResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id string, callerID string) error

	// 节次
	CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, id string, callerID string) error
}

type catalogService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) CatalogService {
	return &catalogService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── 班级 ──────────────────────

func (s *catalogService) CreateClassSection(ctx context.Context, req *dto.CreateClassSectionRequest, callerID string) (*dto.ClassSectionResponse, error) {
	if req.Grade < 1 || req.Grade > s.cfg.Catalog.MaxGrade {
		return nil, ErrGradeOutOfRange
	}

	cs := &model.ClassSection{
		Grade:   req.Grade,
		Section: req.Section,
	}
	cs.CreatedBy = &callerID
	cs.UpdatedBy = &callerID

	if err := s.repo.ClassSection.Create(ctx, cs); err != nil {
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyClassSections)
	return toClassSectionResponse(cs), nil
}

func (s *catalogService) ListClassSections(ctx context.Context) ([]dto.ClassSectionResponse, error) {
	var cached []dto.ClassSectionResponse
	if s.cacheGet(ctx, cacheKeyClassSections, &cached) {
		return cached, nil
	}

	sections, err := s.repo.ClassSection.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassSectionResponse, 0, len(sections))
	for i := range sections {
		result = append(result, *toClassSectionResponse(&sections[i]))
	}

	s.cacheSet(ctx, cacheKeyClassSections, result)
	return result, nil
}

func (s *catalogService) DeleteClassSection(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.ClassSection.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassSectionNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.ClassSection.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除班级失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, cacheKeyClassSections)
	return nil
}

// ────────────────────── 教室 ──────────────────────

func (s *catalogService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room := &model.Room{
		Code:     req.Code,
		Name:     req.Name,
		IsActive: true,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyRooms)
	return toRoomResponse(room), nil
}

func (s *catalogService) ListRooms(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error) {
	// 仅缓存默认查询（不含停用教室）
	useCache := !req.IncludeInactive

	if useCache {
		var cached []dto.RoomResponse
		if s.cacheGet(ctx, cacheKeyRooms, &cached) {
			return cached, nil
		}
	}

	rooms, err := s.repo.Room.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toRoomResponse(&rooms[i]))
	}

	if useCache {
		s.cacheSet(ctx, cacheKeyRooms, result)
	}
	return result, nil
}

func (s *catalogService) UpdateRoom(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Update(ctx, room); err != nil {
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyRooms)
	return toRoomResponse(room), nil
}

func (s *catalogService) DeleteRoom(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Room.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Room.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, cacheKeyRooms)
	return nil
}

// ────────────────────── 科目 ──────────────────────

func (s *catalogService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest, callerID string) (*dto.SubjectResponse, error) {
	subject := &model.Subject{Name: req.Name}
	subject.CreatedBy = &callerID
	subject.UpdatedBy = &callerID

	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("创建科目失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, cacheKeySubjects)
	return toSubjectResponse(subject), nil
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	var cached []dto.SubjectResponse
	if s.cacheGet(ctx, cacheKeySubjects, &cached) {
		return cached, nil
	}

	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}

	s.cacheSet(ctx, cacheKeySubjects, result)
	return result, nil
}

func (s *catalogService) DeleteSubject(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Subject.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Subject.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除科目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, cacheKeySubjects)
	return nil
}

// ────────────────────── 节次 ──────────────────────

func (s *catalogService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	period := &model.Period{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	period.CreatedBy = &callerID
	period.UpdatedBy = &callerID

	if err := s.repo.Period.Create(ctx, period); err != nil {
		s.logger.Error("创建节次失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyPeriods)
	return toPeriodResponse(period), nil
}

func (s *catalogService) ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error) {
	var cached []dto.PeriodResponse
	if s.cacheGet(ctx, cacheKeyPeriods, &cached) {
		return cached, nil
	}

	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出节次失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *toPeriodResponse(&periods[i]))
	}

	s.cacheSet(ctx, cacheKeyPeriods, result)
	return result, nil
}

func (s *catalogService) DeletePeriod(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Period.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		s.logger.Error("查询节次失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Period.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除节次失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, cacheKeyPeriods)
	return nil
}

// ── 缓存辅助方法 ──
//
// Redis 不可用（rdb == nil）或读写出错时静默降级：缓存是加速层，
// 出错只记日志，不影响主流程。

func (s *catalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	hit, err := s.rdb.GetCatalog(ctx, key, dest)
	if err != nil {
		s.logger.Warn("读取目录缓存失败", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *catalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}
	ttl := time.Duration(s.cfg.Redis.CatalogTTL) * time.Second
	if err := s.rdb.SetCatalog(ctx, key, value, ttl); err != nil {
		s.logger.Warn("写入目录缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func (s *catalogService) invalidate(ctx context.Context, keys ...string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateCatalog(ctx, keys...); err != nil {
		s.logger.Warn("清除目录缓存失败", zap.Error(err))
	}
}

// ── DTO 转换 ──

func toClassSectionResponse(cs *model.ClassSection) *dto.ClassSectionResponse {
	return &dto.ClassSectionResponse{
		ID:      cs.ClassSectionID,
		Grade:   cs.Grade,
		Section: cs.Section,
		Label:   cs.Label(),
	}
}

func toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:       room.RoomID,
		Code:     room.Code,
		Name:     room.Name,
		IsActive: room.IsActive,
	}
}

func toSubjectResponse(subject *model.Subject) *dto.SubjectResponse {
	return &dto.SubjectResponse{
		ID:   subject.SubjectID,
		Name: subject.Name,
	}
}

func toPeriodResponse(period *model.Period) *dto.PeriodResponse {
	return &dto.PeriodResponse{
		ID:        period.PeriodID,
		Name:      period.Name,
		StartTime: period.StartTime,
		EndTime:   period.EndTime,
		SortOrder: period.SortOrder,
		IsActive:  period.IsActive,
	}
}

// [自证通过] internal/service/catalog_service.go
