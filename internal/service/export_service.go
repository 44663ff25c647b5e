package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-complementarias/backend/internal/domain"
	"gestion-complementarias/backend/internal/model"
	"gestion-complementarias/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportFormatUnknown = errors.New("不支持的导出格式")
	ErrExportNoData        = errors.New("没有可导出的申请")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
	ErrCalendarNoSchedule  = errors.New("该申请没有排期，无法生成日历")
)

// 导出文档面向最终用户，正文使用西班牙语
var (
	statusLabels = map[string]string{
		string(domain.StatusDraft):    "Borrador",
		string(domain.StatusPending):  "Pendiente",
		string(domain.StatusInReview): "En revisión",
		string(domain.StatusApproved): "Aprobada",
		string(domain.StatusRejected): "Rechazada",
	}
	urgencyLabels = map[domain.Urgency]string{
		domain.UrgencyLow:    "Baja",
		domain.UrgencyMedium: "Media",
		domain.UrgencyHigh:   "Alta",
	}
	dayLabels = map[int]string{
		1: "Lunes", 2: "Martes", 3: "Miércoles", 4: "Jueves",
		5: "Viernes", 6: "Sábado", 7: "Domingo",
	}
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 申请清单支持 Excel (.xlsx) 与 PDF 两种格式，列表随调用者角色裁剪
//   - 单个申请可导出详情表，可见性口径与详情查询一致
//   - 已批准申请可导出 iCalendar (.ics)，时间块按周展开为具体事件
//   - 均以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	ExportRequests(ctx context.Context, format, callerID, callerRole string) (*bytes.Buffer, string, error)
	ExportRequest(ctx context.Context, requestID, format, callerID, callerRole string) (*bytes.Buffer, string, error)
	ExportCalendar(ctx context.Context, requestID, callerID, callerRole string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ═══════════════════════════════════════════════════════════
// ExportRequests — 导出申请清单
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportRequests(ctx context.Context, format, callerID, callerRole string) (*bytes.Buffer, string, error) {
	// 1. 角色裁剪与列表查询同一口径
	filter := repository.RequestListFilter{Limit: 200}
	if callerRole == string(domain.RoleInstructor) {
		filter.InstructorID = callerID
	} else {
		filter.ExcludeDrafts = true
	}

	requests, err := s.repo.Request.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询导出数据失败", zap.Error(err))
		return nil, "", err
	}
	if len(requests) == 0 {
		return nil, "", ErrExportNoData
	}

	stamp := s.now().Format("20060102")
	switch format {
	case "excel":
		buf, err := s.buildExcel(requests)
		if err != nil {
			return nil, "", err
		}
		return buf, fmt.Sprintf("solicitudes_%s.xlsx", stamp), nil
	case "pdf":
		buf, err := s.buildPDF(requests)
		if err != nil {
			return nil, "", err
		}
		return buf, fmt.Sprintf("solicitudes_%s.pdf", stamp), nil
	default:
		return nil, "", ErrExportFormatUnknown
	}
}

// buildExcel 生成申请清单 Excel
func (s *exportService) buildExcel(requests []model.TrainingRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Solicitudes"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	widths := map[string]float64{
		"A": 14, "B": 12, "C": 10, "D": 22, "E": 36, "F": 11, "G": 9, "H": 12, "I": 30,
	}
	for col, w := range widths {
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F5233"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{
		"Código", "Estado", "Urgencia", "Instructor", "Programa",
		"Aprendices", "Horas", "Radicada", "Motivo de rechazo",
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 1), h)
		f.SetCellStyle(sheetName, cell(col, 1), cell(col, 1), headerStyle)
	}

	now := s.now()
	row := 2
	for i := range requests {
		req := &requests[i]
		f.SetCellValue(sheetName, cell("A", row), req.Code)
		f.SetCellValue(sheetName, cell("B", row), statusLabels[req.Status])
		f.SetCellValue(sheetName, cell("C", row), urgencyLabels[domain.Classify(req.SubmittedAt, domain.Status(req.Status), now)])
		if req.Instructor != nil {
			f.SetCellValue(sheetName, cell("D", row), req.Instructor.Name)
		}
		if req.Program != nil {
			f.SetCellValue(sheetName, cell("E", row), req.Program.Name)
		}
		f.SetCellValue(sheetName, cell("F", row), req.TraineeCount)
		f.SetCellValue(sheetName, cell("G", row), req.ProgramDurationHours)
		if req.SubmittedAt != nil {
			f.SetCellValue(sheetName, cell("H", row), req.SubmittedAt.Format("2006-01-02"))
		}
		f.SetCellValue(sheetName, cell("I", row), req.RejectReason)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// buildPDF 生成申请清单 PDF（A4 横向表格）
func (s *exportService) buildPDF(requests []model.TrainingRequest) (*bytes.Buffer, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // 西语重音字符需经 latin-1 转换
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("Solicitudes de Formación Complementaria"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generado: %s", s.now().Format("2006-01-02 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	type colDef struct {
		title string
		width float64
	}
	cols := []colDef{
		{"Código", 28}, {"Estado", 25}, {"Urgencia", 20}, {"Instructor", 45},
		{"Programa", 85}, {"Aprendices", 22}, {"Horas", 15}, {"Radicada", 24},
	}

	// 表头
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(47, 82, 51)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.width, 8, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// 数据行
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	now := s.now()
	for i := range requests {
		req := &requests[i]

		instructorName := ""
		if req.Instructor != nil {
			instructorName = req.Instructor.Name
		}
		programName := ""
		if req.Program != nil {
			programName = req.Program.Name
		}
		submitted := ""
		if req.SubmittedAt != nil {
			submitted = req.SubmittedAt.Format("2006-01-02")
		}

		values := []string{
			req.Code,
			statusLabels[req.Status],
			urgencyLabels[domain.Classify(req.SubmittedAt, domain.Status(req.Status), now)],
			truncate(instructorName, 28),
			truncate(programName, 52),
			fmt.Sprintf("%d", req.TraineeCount),
			fmt.Sprintf("%d", req.ProgramDurationHours),
			submitted,
		}
		for j, v := range values {
			pdf.CellFormat(cols[j].width, 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		s.logger.Error("写入 PDF 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar — 导出申请排期为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个每周时间块按预计周数展开为具体日期的事件；
// 缺少开始日期或时间块时不可导出。

func (s *exportService) ExportCalendar(ctx context.Context, requestID, callerID, callerRole string) (*bytes.Buffer, string, error) {
	request, err := s.loadExportable(ctx, requestID, callerID, callerRole)
	if err != nil {
		return nil, "", err
	}

	if len(request.Blocks) == 0 || request.CourseStartDate == nil {
		return nil, "", ErrCalendarNoSchedule
	}

	f := domain.ComputeFeasibility(request.Blocks, request.ProgramDurationHours, request.CourseStartDate)
	weeks := f.EstimatedWeeks
	if weeks <= 0 || weeks > 52 {
		weeks = 1
	}

	summary := request.Code
	if request.Program != nil {
		summary = fmt.Sprintf("%s — %s", request.Code, request.Program.Name)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Gestion Complementarias//ES")

	now := s.now()
	start := *request.CourseStartDate
	for _, block := range request.Blocks {
		first := firstOccurrence(start, block.DayOfWeek)
		for week := 0; week < weeks; week++ {
			day := first.AddDate(0, 0, week*7)
			uid := fmt.Sprintf("%s-%d-%d@gestion-complementarias", request.RequestID, block.DayOfWeek, week)

			event := cal.AddEvent(uid)
			event.SetDtStampTime(now)
			event.SetStartAt(time.Date(day.Year(), day.Month(), day.Day(), block.StartHour, 0, 0, 0, time.UTC))
			event.SetEndAt(time.Date(day.Year(), day.Month(), day.Day(), block.EndHour, 0, 0, 0, time.UTC))
			event.SetSummary(summary)
			event.SetDescription(fmt.Sprintf("Sesión semanal — %s", dayLabels[block.DayOfWeek]))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("horario_%s.ics", request.Code), nil
}

// ═══════════════════════════════════════════════════════════
// ExportRequest — 导出单个申请详情
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportRequest(ctx context.Context, requestID, format, callerID, callerRole string) (*bytes.Buffer, string, error) {
	request, err := s.loadExportable(ctx, requestID, callerID, callerRole)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "excel":
		buf, err := s.buildRequestExcel(request)
		if err != nil {
			return nil, "", err
		}
		return buf, fmt.Sprintf("solicitud_%s.xlsx", request.Code), nil
	case "pdf":
		buf, err := s.buildRequestPDF(request)
		if err != nil {
			return nil, "", err
		}
		return buf, fmt.Sprintf("solicitud_%s.pdf", request.Code), nil
	default:
		return nil, "", ErrExportFormatUnknown
	}
}

// loadExportable 加载申请并套用与详情查询一致的可见性规则
func (s *exportService) loadExportable(ctx context.Context, requestID, callerID, callerRole string) (*model.TrainingRequest, error) {
	request, err := s.repo.Request.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	if callerRole == string(domain.RoleInstructor) && request.InstructorID != callerID {
		return nil, ErrRequestForbidden
	}
	// 草稿仅拥有者可见
	if request.Status == string(domain.StatusDraft) && request.InstructorID != callerID {
		return nil, ErrRequestNotFound
	}
	return request, nil
}

// requestDetailRows 详情文档的字段-值行，Excel 与 PDF 共用
func (s *exportService) requestDetailRows(request *model.TrainingRequest) [][2]string {
	instructorName := ""
	if request.Instructor != nil {
		instructorName = request.Instructor.Name
	}
	programName := ""
	if request.Program != nil {
		programName = request.Program.Name
	}
	submitted := ""
	if request.SubmittedAt != nil {
		submitted = request.SubmittedAt.Format("2006-01-02")
	}
	courseStart := ""
	if request.CourseStartDate != nil {
		courseStart = request.CourseStartDate.Format("2006-01-02")
	}
	courseEnd := ""
	if request.CourseEndDate != nil {
		courseEnd = request.CourseEndDate.Format("2006-01-02")
	}

	return [][2]string{
		{"Código", request.Code},
		{"Estado", statusLabels[request.Status]},
		{"Urgencia", urgencyLabels[domain.Classify(request.SubmittedAt, domain.Status(request.Status), s.now())]},
		{"Instructor", instructorName},
		{"Programa", programName},
		{"Aprendices", fmt.Sprintf("%d", request.TraineeCount)},
		{"Duración (horas)", fmt.Sprintf("%d", request.ProgramDurationHours)},
		{"Radicada", submitted},
		{"Inicio del curso", courseStart},
		{"Fin estimado", courseEnd},
		{"Motivo de rechazo", request.RejectReason},
	}
}

// buildRequestExcel 生成单个申请的详情 Excel
func (s *exportService) buildRequestExcel(request *model.TrainingRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Solicitud"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 22)
	f.SetColWidth(sheetName, "B", "B", 48)

	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2F5233"}, Pattern: 1},
	})

	row := 1
	for _, pair := range s.requestDetailRows(request) {
		f.SetCellValue(sheetName, cell("A", row), pair[0])
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), labelStyle)
		f.SetCellValue(sheetName, cell("B", row), pair[1])
		row++
	}

	// 排期时间块
	if len(request.Blocks) > 0 {
		row++
		f.SetCellValue(sheetName, cell("A", row), "Horario semanal")
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), labelStyle)
		row++
		for _, block := range request.Blocks {
			f.SetCellValue(sheetName, cell("A", row), dayLabels[block.DayOfWeek])
			f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%02d:00 - %02d:00", block.StartHour, block.EndHour))
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// buildRequestPDF 生成单个申请的详情 PDF（A4 纵向）
func (s *exportService) buildRequestPDF(request *model.TrainingRequest) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("Solicitud de Formación Complementaria"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	for _, pair := range s.requestDetailRows(request) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 8, tr(pair[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(130, 8, tr(truncate(pair[1], 70)), "1", 1, "L", false, 0, "")
	}

	if len(request.Blocks) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, tr("Horario semanal"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, block := range request.Blocks {
			pdf.CellFormat(50, 7, tr(dayLabels[block.DayOfWeek]), "1", 0, "L", false, 0, "")
			pdf.CellFormat(130, 7, fmt.Sprintf("%02d:00 - %02d:00", block.StartHour, block.EndHour), "1", 1, "L", false, 0, "")
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		s.logger.Error("写入 PDF 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ── 辅助函数 ──

// firstOccurrence 返回 start 当天或之后第一个落在 dayOfWeek (1=周一) 的日期
func firstOccurrence(start time.Time, dayOfWeek int) time.Time {
	offset := (dayOfWeek - isoWeekdayOf(start) + 7) % 7
	return start.AddDate(0, 0, offset)
}

func isoWeekdayOf(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
