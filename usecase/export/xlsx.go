// Package export writes task lists to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fastygo/taskboard/domain"
)

// SheetName is the worksheet holding the task rows.
const SheetName = "Tasks"

// Columns is the header row, in order.
var Columns = []string{"ID", "Task", "Description", "Assigned To", "Assigned By", "Date", "Status", "Priority"}

var columnWidths = []float64{26, 32, 48, 22, 22, 12, 14, 10}

// WriteTasks streams tasks to w as an XLSX workbook with a bold header row.
func WriteTasks(w io.Writer, tasks []domain.Task) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer for sheet %s: %w", SheetName, err)
	}

	for i, width := range columnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, name := range Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, t := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.ID,
			t.TaskName,
			t.Description,
			t.AssignedTo.DisplayName(),
			t.AssignedBy.DisplayName(),
			formatDate(t),
			string(t.Status),
			string(t.Priority),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

func formatDate(t domain.Task) string {
	if t.Date.IsZero() {
		return ""
	}
	return t.Date.Format(domain.DateLayout)
}
