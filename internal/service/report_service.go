package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"time"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/infra"
	"clubpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportService interface {
	Daily(ctx context.Context, date string) (*dto.DailyReport, error)
	Range(ctx context.Context, from, to string) (*dto.DailyReport, error)
	ExportCSV(ctx context.Context, from, to string) ([]byte, error)
	ExportPDF(ctx context.Context, date string) (string, error)
}

type reportService struct {
	sales      repository.SaleRepository
	bookings   repository.BookingRepository
	payments   repository.PaymentMethodRepository
	pdfStorage string
}

func NewReportService(
	sales repository.SaleRepository,
	bookings repository.BookingRepository,
	payments repository.PaymentMethodRepository,
	pdfStorage string,
) ReportService {
	return &reportService{sales: sales, bookings: bookings, payments: payments, pdfStorage: pdfStorage}
}

func (s *reportService) Daily(ctx context.Context, date string) (*dto.DailyReport, error) {
	from, to, err := dayBounds(date)
	if err != nil {
		return nil, apierror.Validationf("fecha invalida")
	}
	return s.buildReport(ctx, from, to)
}

func (s *reportService) Range(ctx context.Context, fromStr, toStr string) (*dto.DailyReport, error) {
	from, to, err := rangeBounds(fromStr, toStr)
	if err != nil {
		return nil, apierror.Validationf("rango de fechas invalido")
	}
	return s.buildReport(ctx, from, to)
}

// buildReport computes the financial rollup for a window. COGS comes from the
// unit-cost snapshot frozen on each sale line, so later purchases at different
// prices never rewrite past profit.
func (s *reportService) buildReport(ctx context.Context, from, to time.Time) (*dto.DailyReport, error) {
	courtRevenue, err := s.bookings.SumChargedInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	productRevenue, err := s.sales.SumTotalInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	items, err := s.sales.ListItemsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	cogs := decimal.Zero
	for _, item := range items {
		cogs = cogs.Add(item.UnitCostSnapshot.Mul(decimal.NewFromInt(int64(item.Qty))))
	}

	return &dto.DailyReport{
		CourtRevenue:   courtRevenue,
		ProductRevenue: productRevenue,
		COGS:           cogs,
		Profit:         courtRevenue.Add(productRevenue).Sub(cogs),
	}, nil
}

// ExportCSV emits one row per revenue event in the window, sales and charged
// bookings interleaved by timestamp. Columns: type,id,datetime,amount,method,extra.
func (s *reportService) ExportCSV(ctx context.Context, fromStr, toStr string) ([]byte, error) {
	from, to, err := rangeBounds(fromStr, toStr)
	if err != nil {
		return nil, apierror.Validationf("rango de fechas invalido")
	}

	sales, err := s.sales.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListChargedInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type row struct {
		at     time.Time
		fields []string
	}
	rows := make([]row, 0, len(sales)+len(bookings))

	for i := range sales {
		sale := &sales[i]
		method := ""
		if sale.PaymentMethod != nil {
			method = sale.PaymentMethod.Name
		}
		rows = append(rows, row{
			at: sale.CreatedAt,
			fields: []string{
				"venta",
				sale.ID.String(),
				sale.CreatedAt.Format(time.RFC3339),
				sale.Total.StringFixed(2),
				method,
				"",
			},
		})
	}
	for i := range bookings {
		b := &bookings[i]
		method := ""
		if b.PaymentMethod != nil {
			method = b.PaymentMethod.Name
		}
		court := ""
		if b.Court != nil {
			court = b.Court.Name
		}
		amount := decimal.Zero
		if b.TotalPaid != nil {
			amount = *b.TotalPaid
		}
		rows = append(rows, row{
			at: *b.ChargedAt,
			fields: []string{
				"reserva",
				b.ID.String(),
				b.ChargedAt.Format(time.RFC3339),
				amount.StringFixed(2),
				method,
				court,
			},
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"type", "id", "datetime", "amount", "method", "extra"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.fields); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportPDF renders the daily rollup to a PDF file and returns its path.
func (s *reportService) ExportPDF(ctx context.Context, date string) (string, error) {
	from, to, err := dayBounds(date)
	if err != nil {
		return "", apierror.Validationf("fecha invalida")
	}
	report, err := s.buildReport(ctx, from, to)
	if err != nil {
		return "", err
	}
	methods, err := s.methodTotals(ctx, from, to)
	if err != nil {
		return "", err
	}

	day := from.Format("2006-01-02")
	return infra.GenerateDailyReportPDF(day, report, methods, s.pdfStorage)
}

// methodTotals merges sale totals and charged-booking totals per payment
// method, resolved against the method catalog for display names.
func (s *reportService) methodTotals(ctx context.Context, from, to time.Time) ([]dto.MethodTotal, error) {
	totals, err := s.sales.TotalsByMethodInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListChargedInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		b := &bookings[i]
		if b.PaymentMethodID == nil || b.TotalPaid == nil {
			continue
		}
		totals[*b.PaymentMethodID] = totals[*b.PaymentMethodID].Add(*b.TotalPaid)
	}

	methods, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(methods))
	for _, m := range methods {
		nameByID[m.ID] = m.Name
	}

	out := make([]dto.MethodTotal, 0, len(totals))
	for id, total := range totals {
		out = append(out, dto.MethodTotal{
			MethodID:   id.String(),
			Name:       nameByID[id],
			TotalSales: total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
