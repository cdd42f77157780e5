package infra

// Daily report PDF generation using go-pdf/fpdf.
// An A4 one-pager: revenue by source, cost of goods sold, net profit,
// and the payment-method breakdown for the day.

import (
	"fmt"
	"os"
	"path/filepath"

	"clubpos/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateDailyReportPDF renders the daily rollup to storagePath/reporte_{date}.pdf
// and returns the absolute path to the generated file.
func GenerateDailyReportPDF(date string, report *dto.DailyReport, methods []dto.MethodTotal, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_%s.pdf", date)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Reporte Diario", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, date, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	labelW := contentW * 0.6
	valueW := contentW * 0.4

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, value, "", 1, "R", false, 0, "")
	}

	row("Ingresos por canchas", "$ "+report.CourtRevenue.StringFixed(2), false)
	row("Ingresos por productos", "$ "+report.ProductRevenue.StringFixed(2), false)
	row("Costo de mercaderia vendida", "$ "+report.COGS.StringFixed(2), false)
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	row("Ganancia neta", "$ "+report.Profit.StringFixed(2), true)
	pdf.Ln(6)

	if len(methods) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 8, "Totales por medio de pago", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, "Medio", "B", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, "Total", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, m := range methods {
			pdf.CellFormat(labelW, 6, m.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(valueW, 6, "$ "+m.TotalSales.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
