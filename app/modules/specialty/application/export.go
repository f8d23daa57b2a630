package specialtyservice

import (
	"context"
	"fmt"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	dashboardSheet = "Dashboard"
	summarySheet   = "Summary"
)

var (
	dashboardHeader = []any{"Code", "Specialty", "Area", "Member", "Approved", "Total", "Progress %", "Status"}
	summaryHeader   = []any{"Code", "Specialty", "Members", "Completed", "Average %"}
)

// ExportDashboard renders the club dashboard as an XLSX workbook.
func (s *SpecialtyService) ExportDashboard(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]byte, error) {
	dashboard, err := s.ClubDashboard(ctx, actor, clubID)
	if err != nil {
		return nil, err
	}
	return renderDashboardXLSX(dashboard)
}

func renderDashboardXLSX(dashboard []DashboardSpecialty) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dashboardSheet); err != nil {
		return nil, fmt.Errorf("failed to name dashboard sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, dashboardSheet, 1, dashboardHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, summarySheet, 1, summaryHeader); err != nil {
		return nil, err
	}

	row, summaryRow := 2, 2
	for _, spec := range dashboard {
		completed, percentSum := 0, 0
		for _, m := range spec.Members {
			if err := writeRow(f, dashboardSheet, row, []any{
				spec.Code, spec.Name, spec.Area, m.Name, m.Approved, m.Total, m.Percent, string(m.Status),
			}); err != nil {
				return nil, err
			}
			row++
			percentSum += m.Percent
			if m.Status == specialtydomain.DashboardCompleted {
				completed++
			}
		}
		average := 0
		if n := len(spec.Members); n > 0 {
			average = (percentSum + n/2) / n
		}
		if err := writeRow(f, summarySheet, summaryRow, []any{
			spec.Code, spec.Name, len(spec.Members), completed, average,
		}); err != nil {
			return nil, err
		}
		summaryRow++
	}

	for _, sheet := range []string{dashboardSheet, summarySheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return nil, fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
			return nil, fmt.Errorf("failed to size %s columns: %w", sheet, err)
		}
	}
	if err := f.SetPanes(dashboardSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze dashboard header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
