package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"demoday/backend/internal/model"
	"demoday/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("该活动暂无参赛记录可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 排名导出为 Excel (.xlsx)，阶段日历导出为 iCalendar (.ics)
//   - 导出以 bytes.Buffer / string 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 排名表在加权总分之外附一列"按票权合计"：
//     直接累加每票落库的 weight 再加评审平均，用于核对两种口径的票权计算
type ExportService interface {
	// ExportRanking 导出活动排名为 Excel
	ExportRanking(ctx context.Context, eventID string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出活动阶段日历为 iCalendar
	ExportCalendar(ctx context.Context, eventID string) (string, string, error)
}

type exportService struct {
	repo    *repository.Repository
	ranking RankingService
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, ranking RankingService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, ranking: ranking, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRanking — 导出活动排名为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "排名"
//   - 列：名次 | 项目 | 状态 | 大众票数 | 终审票数 | 评审平均 | 加权总分 | 按票权合计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportRanking(ctx context.Context, eventID string) (*bytes.Buffer, string, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, "", err
	}

	ranking, err := s.ranking.ComputeRanking(ctx, eventID)
	if err != nil {
		return nil, "", err
	}
	if len(ranking.Entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	// 按项目累加落库票权（核对列口径）
	votes, err := s.repo.Vote.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询投票失败", zap.Error(err))
		return nil, "", err
	}
	weightSumByProject := make(map[string]int)
	for i := range votes {
		weightSumByProject[votes[i].ProjectID] += votes[i].Weight
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排名"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 32)
	f.SetColWidth(sheetName, "C", "H", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 排名", event.Name))
	f.MergeCell(sheetName, "A1", "H1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"名次", "项目", "状态", "大众票数", "终审票数", "评审平均", "加权总分", "按票权合计"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	for rank, entry := range ranking.Entries {
		weightTotal := float64(weightSumByProject[entry.ProjectID]) + entry.EvaluationAverage
		f.SetCellValue(sheetName, cell("A", row), rank+1)
		f.SetCellValue(sheetName, cell("B", row), entry.ProjectTitle)
		f.SetCellValue(sheetName, cell("C", row), entry.Status)
		f.SetCellValue(sheetName, cell("D", row), entry.PopularVotes)
		f.SetCellValue(sheetName, cell("E", row), entry.FinalVotes)
		f.SetCellValue(sheetName, cell("F", row), entry.EvaluationAverage)
		f.SetCellValue(sheetName, cell("G", row), entry.TotalWeightedScore)
		f.SetCellValue(sheetName, cell("H", row), weightTotal)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排名_%s.xlsx", event.Name)
	return buf, filename, nil
}

// phaseName 阶段编号对应的展示名
func phaseName(phaseNumber int) string {
	switch phaseNumber {
	case model.PhaseNumberSubmission:
		return "项目提交"
	case model.PhaseNumberPopularVote:
		return "大众投票"
	case model.PhaseNumberFinalVote:
		return "终审投票"
	default:
		return fmt.Sprintf("阶段 %d", phaseNumber)
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
