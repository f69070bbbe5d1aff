package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cutplan/internal/accuracy"
	"cutplan/internal/entity"
)

// Service is a tiny façade that renders parsed cutlists and accuracy
// reports as XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportCutlistXLSX returns a workbook with one row per part. Operations are
// flattened into compact text columns so the sheet stays shop-floor readable.
func (s *Service) ExportCutlistXLSX(title string, parts []entity.CutPart) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Cutlist"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Label",
		"Qty",
		"L (mm)",
		"W (mm)",
		"Thickness (mm)",
		"Material",
		"Grain",
		"Edging",
		"Grooves",
		"Holes",
		"Source",
		"Confidence",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := range parts {
		p := &parts[i]

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		label := p.Label
		if label == "" {
			label = "—"
		}
		write(1, truncate(label, 60))
		write(2, p.Qty)
		write(3, p.Size.L)
		write(4, p.Size.W)
		write(5, p.ThicknessMM)
		write(6, p.MaterialID)
		write(7, string(p.Grain))
		write(8, formatEdging(p))
		write(9, formatGrooves(p))
		write(10, formatHoles(p))
		write(11, string(p.Audit.SourceMethod))
		write(12, fmt.Sprintf("%.2f", p.Audit.Confidence))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // label
	_ = f.SetColWidth(sheet, "B", "E", 12) // qty + dims
	_ = f.SetColWidth(sheet, "F", "F", 18) // material
	_ = f.SetColWidth(sheet, "G", "G", 10) // grain
	_ = f.SetColWidth(sheet, "H", "J", 24) // ops
	_ = f.SetColWidth(sheet, "K", "L", 12) // provenance

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"kind", "cutlist",
		"title", title,
		"rows", len(parts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportAccuracyXLSX renders an aggregated accuracy report: a summary block,
// the per-field averages, and the day-by-day trend series.
func (s *Service) ExportAccuracyXLSX(report accuracy.Report) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Accuracy"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "Samples")
	write(2, 1, report.Summary.TotalSamples)
	write(1, 2, "Parts")
	write(2, 2, report.Summary.TotalParts)
	write(1, 3, "Mean accuracy")
	write(2, 3, fmt.Sprintf("%.3f", report.Summary.MeanAccuracy))
	write(1, 4, "Trend")
	write(2, 4, string(report.Summary.Trend))
	write(1, 5, "Weakest field")
	write(2, 5, string(report.Summary.WeakestField))
	write(1, 6, "Strongest field")
	write(2, 6, string(report.Summary.StrongestField))

	row := 8
	write(1, row, "Field")
	write(2, row, "Average")
	row++
	for _, area := range report.WeakAreas {
		write(1, row, string(area.Field))
		write(2, row, fmt.Sprintf("%.3f", area.Accuracy))
		write(3, row, truncate(strings.Join(area.Suggestions, "; "), 200))
		row++
	}
	for field, avg := range report.FieldAverage {
		if avg >= accuracy.WeakFieldThreshold {
			write(1, row, string(field))
			write(2, row, fmt.Sprintf("%.3f", avg))
			row++
		}
	}

	row++
	write(1, row, "Day")
	write(2, row, "Samples")
	write(3, row, "Mean accuracy")
	row++
	for _, point := range report.TrendSeries {
		write(1, row, point.Day)
		write(2, row, point.Samples)
		write(3, row, fmt.Sprintf("%.3f", point.MeanAccuracy))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 64)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"kind", "accuracy",
		"samples", report.Summary.TotalSamples,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formatEdging(p *entity.CutPart) string {
	edges := p.EdgeSet()
	if len(edges) == 0 {
		return ""
	}
	return strings.Join(edges, ",")
}

func formatGrooves(p *entity.CutPart) string {
	if !p.HasGrooves() {
		return ""
	}
	descs := make([]string, 0, len(p.Ops.Grooves))
	for _, g := range p.Ops.Grooves {
		descs = append(descs, fmt.Sprintf("%s @%.0f d%.0f w%.0f", g.Side, g.OffsetMM, g.DepthMM, g.WidthMM))
	}
	return strings.Join(descs, "; ")
}

func formatHoles(p *entity.CutPart) string {
	if p.Ops == nil || len(p.Ops.Holes) == 0 {
		return ""
	}
	ids := make([]string, 0, len(p.Ops.Holes))
	for _, h := range p.Ops.Holes {
		ids = append(ids, h.PatternID)
	}
	return strings.Join(ids, "; ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
