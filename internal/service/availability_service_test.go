package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"edulink/backend/internal/dto"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
)

// ── 测试辅助 ──

type availabilityTestEnv struct {
	svc  AvailabilityService
	tt   TimetableService
	repo *repository.Repository

	sectionA *model.ClassSection
	sectionB *model.ClassSection
	room1    *model.Room
	room2    *model.Room
	math     *model.Subject
	physics  *model.Subject
	period1  *model.Period
	period2  *model.Period
	silva    *model.Teacher
	perera   *model.Teacher
}

func setupTestAvailabilityService(t *testing.T) *availabilityTestEnv {
	t.Helper()

	repo := &repository.Repository{
		ClassSection:   newMockClassSectionRepo(),
		Room:           newMockRoomRepo(),
		Subject:        newMockSubjectRepo(),
		Teacher:        newMockTeacherRepo(),
		Period:         newMockPeriodRepo(),
		RoomAssignment: newMockRoomAssignmentRepo(),
		TimetableEntry: newMockTimetableEntryRepo(),
	}
	logger := zap.NewNop()
	rooms := NewRoomAssignmentService(repo, logger)

	env := &availabilityTestEnv{
		svc:  NewAvailabilityService(repo, rooms, logger),
		tt:   NewTimetableService(repo, rooms, logger),
		repo: repo,
	}
	ctx := context.Background()

	env.sectionA = &model.ClassSection{Grade: 10, Section: "A"}
	_ = repo.ClassSection.Create(ctx, env.sectionA)
	env.sectionB = &model.ClassSection{Grade: 10, Section: "B"}
	_ = repo.ClassSection.Create(ctx, env.sectionB)

	env.room1 = &model.Room{Code: "R-101", IsActive: true}
	_ = repo.Room.Create(ctx, env.room1)
	env.room2 = &model.Room{Code: "R-202", IsActive: true}
	_ = repo.Room.Create(ctx, env.room2)

	env.math = &model.Subject{Name: "数学"}
	_ = repo.Subject.Create(ctx, env.math)
	env.physics = &model.Subject{Name: "物理"}
	_ = repo.Subject.Create(ctx, env.physics)

	env.period1 = &model.Period{Name: "第一节", StartTime: "08:00", EndTime: "09:00", SortOrder: 1, IsActive: true}
	_ = repo.Period.Create(ctx, env.period1)
	env.period2 = &model.Period{Name: "第二节", StartTime: "09:00", EndTime: "10:00", SortOrder: 2, IsActive: true}
	_ = repo.Period.Create(ctx, env.period2)

	env.silva = &model.Teacher{TeacherID: "t-silva", Name: "Silva", SubjectID: env.math.SubjectID, IsActive: true}
	env.perera = &model.Teacher{TeacherID: "t-perera", Name: "Perera", SubjectID: env.math.SubjectID, IsActive: true}
	_ = repo.Teacher.ReplaceSnapshot(ctx, []model.Teacher{*env.silva, *env.perera})

	return env
}

// occupySlot 在周一第一节为 sectionA 排一节 Silva 的数学课（R-101）
func (env *availabilityTestEnv) occupySlot(t *testing.T) {
	t.Helper()
	teacherID := env.silva.TeacherID
	roomID := env.room1.RoomID
	_, err := env.tt.Create(context.Background(), &dto.SaveEntryRequest{
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		ClassSectionID: env.sectionA.ClassSectionID,
		SubjectID:      env.math.SubjectID,
		TeacherID:      &teacherID,
		RoomID:         &roomID,
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置占用条目失败: %v", err)
	}
}

func candidateIDs(items []dto.CandidateItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func containsID(items []dto.CandidateItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// ── 教师候选 ──

func TestAvailabilityService_TeacherCandidates_FiltersBusy(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:          "teacher",
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		SubjectID:      env.math.SubjectID,
		ClassSectionID: env.sectionB.ClassSectionID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}

	if containsID(resp.Candidates, env.silva.TeacherID) {
		t.Errorf("Silva 该时段已占用，不应出现在候选中: %v", candidateIDs(resp.Candidates))
	}
	if !containsID(resp.Candidates, env.perera.TeacherID) {
		t.Errorf("Perera 空闲，应在候选中: %v", candidateIDs(resp.Candidates))
	}
}

// 未选科目：候选从全量教师出发，仅按时段占用过滤
func TestAvailabilityService_TeacherCandidates_NoSubjectFallsBackToAll(t *testing.T) {
	env := setupTestAvailabilityService(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:     "teacher",
		DayOfWeek: 1,
		PeriodID:  env.period1.PeriodID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("未选科目时应返回全量教师，实际=%v", candidateIDs(resp.Candidates))
	}

	// 时段被 Silva 占用后，全量出发的候选同样要剔除占用者
	env.occupySlot(t)
	resp, err = env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:          "teacher",
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		ClassSectionID: env.sectionB.ClassSectionID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}
	if containsID(resp.Candidates, env.silva.TeacherID) {
		t.Errorf("Silva 该时段已占用，不应出现在候选中: %v", candidateIDs(resp.Candidates))
	}
	if !containsID(resp.Candidates, env.perera.TeacherID) {
		t.Errorf("Perera 空闲，应在候选中: %v", candidateIDs(resp.Candidates))
	}
}

// 科目教师集合为空：返回空候选 + 提示，不报错
func TestAvailabilityService_TeacherCandidates_NoQualifiedTeacher(t *testing.T) {
	env := setupTestAvailabilityService(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:     "teacher",
		DayOfWeek: 1,
		PeriodID:  env.period1.PeriodID,
		SubjectID: env.physics.SubjectID,
	})
	if err != nil {
		t.Fatalf("无教师科目不应报错: %v", err)
	}
	if len(resp.Candidates) != 0 {
		t.Errorf("期望空候选集，实际=%d", len(resp.Candidates))
	}
	if resp.Warning == "" {
		t.Error("期望返回无任课教师提示")
	}
}

// ── 教室候选 ──

func TestAvailabilityService_RoomCandidates_HomeRoomFirst(t *testing.T) {
	env := setupTestAvailabilityService(t)
	_ = env.repo.RoomAssignment.Upsert(context.Background(), &model.RoomAssignment{
		ClassSectionID: env.sectionB.ClassSectionID,
		RoomID:         env.room2.RoomID,
	})

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:          "room",
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		ClassSectionID: env.sectionB.ClassSectionID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}
	if len(resp.Candidates) == 0 {
		t.Fatal("候选集不应为空")
	}
	if resp.Candidates[0].ID != env.room2.RoomID {
		t.Errorf("固定教室应置于首位，实际首位=%s", resp.Candidates[0].ID)
	}
	if !resp.Candidates[0].Suggested {
		t.Error("固定教室应标记 Suggested")
	}
}

func TestAvailabilityService_RoomCandidates_FiltersOccupied(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:          "room",
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		ClassSectionID: env.sectionB.ClassSectionID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}

	if containsID(resp.Candidates, env.room1.RoomID) {
		t.Errorf("R-101 已被占用，不应出现在候选中: %v", candidateIDs(resp.Candidates))
	}
	if !containsID(resp.Candidates, env.room2.RoomID) {
		t.Errorf("R-202 空闲，应在候选中: %v", candidateIDs(resp.Candidates))
	}
}

// ── 班级候选 ──

func TestAvailabilityService_ClassSectionCandidates_FiltersScheduled(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:     "class_section",
		DayOfWeek: 1,
		PeriodID:  env.period1.PeriodID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}

	if containsID(resp.Candidates, env.sectionA.ClassSectionID) {
		t.Error("10-A 该时段已有安排，不应出现在候选中")
	}
	if !containsID(resp.Candidates, env.sectionB.ClassSectionID) {
		t.Error("10-B 空闲，应在候选中")
	}
}

// ── 科目候选 ──

// 科目不具备资源排他性：即使时段已满，科目候选仍为全量目录
func TestAvailabilityService_SubjectCandidates_Unfiltered(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:     "subject",
		DayOfWeek: 1,
		PeriodID:  env.period1.PeriodID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}
	if len(resp.Candidates) != 2 {
		t.Errorf("期望全量2个科目，实际=%d", len(resp.Candidates))
	}
}

// ── 节次候选 ──

// 节次候选恒为全量目录：即使某节已被该班占用也不预先剔除，
// 冲突在保存时统一校验
func TestAvailabilityService_PeriodCandidates_Unfiltered(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)

	resp, err := env.svc.Candidates(context.Background(), &dto.AvailabilityRequest{
		Field:          "period",
		DayOfWeek:      1,
		ClassSectionID: env.sectionA.ClassSectionID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}

	if len(resp.Candidates) != 2 {
		t.Fatalf("期望全量2个节次，实际=%v", candidateIDs(resp.Candidates))
	}
	if resp.Candidates[0].ID != env.period1.PeriodID || resp.Candidates[1].ID != env.period2.PeriodID {
		t.Errorf("节次应按 sort_order 排序: %v", candidateIDs(resp.Candidates))
	}
}

// ── 候选集单调性 ──

// 草稿填得越满候选集越窄，从不变宽
func TestAvailabilityService_Candidates_Monotonic(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)
	ctx := context.Background()

	// 仅指定时段
	loose, err := env.svc.Candidates(ctx, &dto.AvailabilityRequest{
		Field:     "room",
		DayOfWeek: 1,
		PeriodID:  env.period1.PeriodID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}

	// 追加班级与教师约束
	tight, err := env.svc.Candidates(ctx, &dto.AvailabilityRequest{
		Field:          "room",
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		ClassSectionID: env.sectionB.ClassSectionID,
		TeacherID:      env.perera.TeacherID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}

	if len(tight.Candidates) > len(loose.Candidates) {
		t.Errorf("草稿约束增加后候选集不应变宽: %d → %d",
			len(loose.Candidates), len(tight.Candidates))
	}
	for _, item := range tight.Candidates {
		if !containsID(loose.Candidates, item.ID) {
			t.Errorf("收窄后的候选 %s 必须是原候选的子集", item.ID)
		}
	}
}

// 编辑场景：自身占用不应把资源从候选中剔除
func TestAvailabilityService_Candidates_SelfExcluded(t *testing.T) {
	env := setupTestAvailabilityService(t)
	env.occupySlot(t)
	ctx := context.Background()

	entries, _ := env.repo.TimetableEntry.ListBySlot(ctx, 1, env.period1.PeriodID)
	if len(entries) != 1 {
		t.Fatalf("预置条目数应为1，实际=%d", len(entries))
	}
	entryID := entries[0].EntryID

	resp, err := env.svc.Candidates(ctx, &dto.AvailabilityRequest{
		Field:          "room",
		DayOfWeek:      1,
		PeriodID:       env.period1.PeriodID,
		EntryID:        entryID,
		ClassSectionID: env.sectionA.ClassSectionID,
	})
	if err != nil {
		t.Fatalf("Candidates 应成功: %v", err)
	}
	if !containsID(resp.Candidates, env.room1.RoomID) {
		t.Error("编辑自身时，自己占用的 R-101 应仍在候选中")
	}
}

// [自证通过] internal/service/availability_service_test.go
