// Package report renders admin exports.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"pharmaduty-go/internal/domain/schedule"
)

const scheduleSheet = "Duty Schedule"

var ScheduleHeader = []string{
	"Date",
	"Pharmacy",
	"Neighborhood",
	"Phone",
	"Start",
	"End",
	"Shift",
	"Emergency",
	"Notes",
}

var scheduleColumnWidths = []float64{12, 32, 20, 14, 8, 8, 8, 11, 40}

// Schedules writes one row per schedule, in the order given, under a styled header row.
func Schedules(items []schedule.DutySchedule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(scheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(scheduleSheet, "A1", &ScheduleHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ScheduleHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(scheduleSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	for i, width := range scheduleColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(scheduleSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := scheduleRow(item)
		if err := f.SetSheetRow(scheduleSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(scheduleSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func scheduleRow(item schedule.DutySchedule) []interface{} {
	var name, neighborhood, phone string
	if item.Pharmacy != nil {
		name = item.Pharmacy.Name
		phone = item.Pharmacy.Phone
		if item.Pharmacy.Neighborhood != nil {
			neighborhood = item.Pharmacy.Neighborhood.Name
		}
	}
	notes := ""
	if item.Notes != nil {
		notes = *item.Notes
	}
	emergency := "no"
	if item.IsEmergency {
		emergency = "yes"
	}
	return []interface{}{
		item.DutyDate.Format(schedule.DateLayout),
		name,
		neighborhood,
		phone,
		item.StartTime,
		item.EndTime,
		string(item.ShiftType()),
		emergency,
		notes,
	}
}
