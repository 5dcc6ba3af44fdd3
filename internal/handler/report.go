package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

type ReportHandler struct {
	Repo repository.ReportRepository
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/summary", h.summary)
	r.Get("/reports/export", h.export)
}

// reportRange reads startDate/endDate, defaulting to the last 30 days.
func reportRange(r *http.Request) (time.Time, time.Time, error) {
	start := time.Now().AddDate(0, 0, -30)
	end := time.Now()

	if parsed, err := parseDateQuery(r, "startDate"); err != nil {
		return start, end, fmt.Errorf("invalid startDate")
	} else if parsed != nil {
		start = *parsed
	}
	if parsed, err := parseDateQuery(r, "endDate"); err != nil {
		return start, end, fmt.Errorf("invalid endDate")
	} else if parsed != nil {
		end = *parsed
	}
	if start.After(end) {
		return start, end, fmt.Errorf("startDate must be before endDate")
	}
	return start, end, nil
}

func (h ReportHandler) summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()

	sales, err := h.Repo.SalesSummary(ctx, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	revenue, err := h.Repo.DailyRevenue(ctx, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	statuses, err := h.Repo.StatusDistribution(ctx, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	newTickets, err := h.Repo.DailyNewTickets(ctx, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	payments, err := h.Repo.PaymentDistribution(ctx, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	dailyRevenue := make([]map[string]any, 0, len(revenue))
	for _, p := range revenue {
		dailyRevenue = append(dailyRevenue, map[string]any{"day": p.Day, "amount": p.Amount.StringFixed(2)})
	}
	dailyTickets := make([]map[string]any, 0, len(newTickets))
	for _, p := range newTickets {
		dailyTickets = append(dailyTickets, map[string]any{"day": p.Day, "count": p.Count})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"startDate":          start.Format(dateLayout),
		"endDate":            end.Format(dateLayout),
		"totalRevenue":       sales.TotalRevenue.StringFixed(2),
		"averageSale":        sales.AverageSale.StringFixed(2),
		"transactions":       sales.Transactions,
		"dailyRevenue":       dailyRevenue,
		"statusDistribution": statuses,
		"dailyNewTickets":    dailyTickets,
		"paymentMethods":     payments,
	})
}

func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entity := r.URL.Query().Get("entity")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var header []string
	var rows [][]any
	switch entity {
	case "sales":
		sales, err := h.Repo.SalesInRange(r.Context(), start, end)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		header, rows = salesExportRows(sales)
	case "repairs":
		repairs, err := h.Repo.RepairsInRange(r.Context(), start, end)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		header, rows = repairsExportRows(repairs)
	default:
		writeError(w, http.StatusBadRequest, "invalid entity (use sales or repairs)")
		return
	}

	filename := fmt.Sprintf("%s_report_%s", entity, time.Now().Format("20060102"))
	switch format {
	case "csv":
		data, err := exportCSV(header, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportXLSX(entity, header, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func salesExportRows(sales []domain.Sale) ([]string, [][]any) {
	header := []string{"id", "date", "customer_name", "phone", "item", "price", "payment_method"}
	rows := make([][]any, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []any{
			s.ID.String(),
			s.Date.Format("2006-01-02 15:04:05"),
			s.CustomerName,
			s.Phone,
			s.Item,
			s.Price.StringFixed(2),
			string(s.PaymentMethod),
		})
	}
	return header, rows
}

func repairsExportRows(repairs []domain.RepairTicket) ([]string, [][]any) {
	header := []string{
		"id", "date", "customer_name", "phone", "device", "category", "issue",
		"status", "estimated_cost", "completion_date", "photo_path",
	}
	rows := make([][]any, 0, len(repairs))
	for _, t := range repairs {
		completion := ""
		if t.CompletionDate != nil {
			completion = t.CompletionDate.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []any{
			t.ID.String(),
			t.Date.Format("2006-01-02 15:04:05"),
			t.CustomerName,
			t.Phone,
			t.Device,
			string(t.Category),
			t.Issue,
			string(t.Status),
			t.EstimatedCost.StringFixed(2),
			completion,
			t.PhotoPath,
		})
	}
	return header, rows
}

func exportCSV(header []string, rows [][]any) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(header)
	for _, row := range rows {
		record := make([]string, 0, len(row))
		for _, v := range row {
			record = append(record, fmt.Sprint(v))
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportXLSX(sheet string, header []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", last, style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
