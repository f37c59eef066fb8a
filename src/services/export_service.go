package services

import (
	"fmt"
	"io"
	"time"

	"github.com/livefire2015/ez-rental/src/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// BillSheetName is the worksheet the exporter writes to
const BillSheetName = "Bills"

var billHeaders = []string{
	"Bill ID",
	"Room ID",
	"Tenant ID",
	"Period",
	"Rent",
	"Electricity Usage",
	"Electricity Rate",
	"Electricity Charge",
	"Water Usage",
	"Water Rate",
	"Water Charge",
	"Service Fees",
	"Other Fees",
	"Total",
	"Status",
	"Due Date",
	"Paid Date",
}

var billColumnWidths = []float64{38, 38, 38, 10, 14, 18, 16, 18, 12, 12, 14, 14, 12, 14, 10, 12, 12}

// BillExporter writes bills to an .xlsx workbook
type BillExporter struct {
	logger *zap.Logger
}

// NewBillExporter creates a new bill exporter
func NewBillExporter(logger *zap.Logger) *BillExporter {
	return &BillExporter{logger: logger}
}

// Export writes one row per bill with its computed charges, total and status at now
func (e *BillExporter) Export(w io.Writer, bills []models.Bill, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(BillSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range billHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(BillSheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(BillSheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, width := range billColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(BillSheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i := range bills {
		b := &bills[i]
		paid := ""
		if b.PaidDate != nil {
			paid = b.PaidDate.Format("2006-01-02")
		}
		values := []interface{}{
			b.ID.String(),
			b.RoomID.String(),
			b.TenantID.String(),
			b.Period(),
			b.RentAmount.InexactFloat64(),
			b.ElectricityUsage.InexactFloat64(),
			b.ElectricityRate.InexactFloat64(),
			b.ElectricityCharge().InexactFloat64(),
			b.WaterUsage.InexactFloat64(),
			b.WaterRate.InexactFloat64(),
			b.WaterCharge().InexactFloat64(),
			b.ServiceFees.InexactFloat64(),
			b.OtherFees.InexactFloat64(),
			b.TotalAmount().InexactFloat64(),
			string(b.EffectiveStatus(now)),
			b.DueDate.Format("2006-01-02"),
			paid,
		}
		row := i + 2
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(BillSheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, col+1, err)
			}
		}
	}

	if err := f.SetPanes(BillSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("bills exported", zap.Int("count", len(bills)))
	return nil
}
