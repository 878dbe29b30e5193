package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	reports "frontdesk-cloud/internal/reports/application"
)

// BuildRevenuePDF renders a minimal PDF for a revenue report.
func BuildRevenuePDF(rows []reports.DailyRow, from, to time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Daily Revenue Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("From: %s", from.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("To: %s", to.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	var totalRevenue, totalCommission float64
	for _, row := range rows {
		totalRevenue += row.Revenue
		totalCommission += row.Commission
	}
	pdf.Cell(0, 6, fmt.Sprintf("Total Revenue: %.2f", totalRevenue))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Commission: %.2f", totalCommission))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(28, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Arrivals", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Staying", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Departures", "1", 0, "C", false, 0, "")
	pdf.CellFormat(36, 6, "Revenue", "1", 0, "C", false, 0, "")
	pdf.CellFormat(36, 6, "Commission", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(28, 6, row.Day.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%d", row.Arrivals), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%d", row.Staying), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%d", row.Departures), "1", 0, "R", false, 0, "")
		pdf.CellFormat(36, 6, fmt.Sprintf("%.2f", row.Revenue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(36, 6, fmt.Sprintf("%.2f", row.Commission), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildRevenueXLSX renders a minimal XLSX for a revenue report.
func BuildRevenueXLSX(rows []reports.DailyRow, from, to time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	daysSheet := "days"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(daysSheet)

	var totalRevenue, totalCommission float64
	for _, row := range rows {
		totalRevenue += row.Revenue
		totalCommission += row.Commission
	}

	_ = f.SetCellValue(summarySheet, "A1", "Daily Revenue Report")
	_ = f.SetCellValue(summarySheet, "A3", "From")
	_ = f.SetCellValue(summarySheet, "B3", from.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A4", "To")
	_ = f.SetCellValue(summarySheet, "B4", to.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A5", "Days")
	_ = f.SetCellValue(summarySheet, "B5", len(rows))
	_ = f.SetCellValue(summarySheet, "A6", "Total Revenue")
	_ = f.SetCellValue(summarySheet, "B6", totalRevenue)
	_ = f.SetCellValue(summarySheet, "A7", "Total Commission")
	_ = f.SetCellValue(summarySheet, "B7", totalCommission)

	_ = f.SetCellValue(daysSheet, "A1", "Day")
	_ = f.SetCellValue(daysSheet, "B1", "Arrivals")
	_ = f.SetCellValue(daysSheet, "C1", "Staying")
	_ = f.SetCellValue(daysSheet, "D1", "Departures")
	_ = f.SetCellValue(daysSheet, "E1", "Revenue")
	_ = f.SetCellValue(daysSheet, "F1", "Commission")
	for i, row := range rows {
		line := i + 2
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", line), row.Day.Format("2006-01-02"))
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", line), row.Arrivals)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("C%d", line), row.Staying)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("D%d", line), row.Departures)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("E%d", line), row.Revenue)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("F%d", line), row.Commission)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
