package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Compliance"

// RenderComplianceXLSX writes one row per verdict under a header row and a
// totals row at the bottom.
func RenderComplianceXLSX(userID int64, verdicts []attendance.DailyVerdict) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	setRow := func(row int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(reportSheet, cell, &values)
	}

	header := make([]any, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := setRow(1, header); err != nil {
		return nil, err
	}

	var expected, actual float64
	for i, v := range verdicts {
		if err := setRow(i+2, verdictRow(v)); err != nil {
			return nil, err
		}
		expected += v.ExpectedHours
		actual += v.ActualHours
	}

	total := []any{fmt.Sprintf("Total (user %d)", userID), "", expected, actual}
	if err := setRow(len(verdicts)+2, total); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// verdictRow is one spreadsheet row; the header below follows its order.
func verdictRow(v attendance.DailyVerdict) []any {
	return []any{
		v.Date.String(),
		time.Weekday(v.DayOfWeek).String(),
		v.ExpectedHours,
		v.ActualHours,
		v.IsWorkDay,
		v.Compliant,
	}
}

var reportHeader = []string{"Date", "Weekday", "Expected hours", "Actual hours", "Work day", "Compliant"}
