package repository

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/db"
	"github.com/harthaxer/GsmLabManager/internal/domain"
)

// ReportRepository aggregates sales and repairs for the reports and the
// dashboard. All methods are read-only; date ranges include both ends.
type ReportRepository struct {
	DB *db.Store
}

type SalesSummary struct {
	TotalRevenue decimal.Decimal
	AverageSale  decimal.Decimal
	Transactions int
}

type RevenuePoint struct {
	Day    string
	Amount decimal.Decimal
}

type CountPoint struct {
	Day   string
	Count int
}

type Overview struct {
	TodaySales    decimal.Decimal
	ActiveRepairs int
	LowStockItems int
}

// SalesInRange returns sales stamped within [start, end] in file order.
func (r ReportRepository) SalesInRange(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	rows, err := r.DB.Read(db.Sales)
	if err != nil {
		return nil, err
	}
	sales := make([]domain.Sale, 0, len(rows))
	for _, row := range rows {
		s := scanSale(row)
		if withinRange(s.Date, start, end) {
			sales = append(sales, s)
		}
	}
	return sales, nil
}

// RepairsInRange returns tickets created within [start, end] in file order.
func (r ReportRepository) RepairsInRange(ctx context.Context, start, end time.Time) ([]domain.RepairTicket, error) {
	rows, err := r.DB.Read(db.Repairs)
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.RepairTicket, 0, len(rows))
	for _, row := range rows {
		t := scanRepair(row)
		if withinRange(t.Date, start, end) {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (r ReportRepository) SalesSummary(ctx context.Context, start, end time.Time) (SalesSummary, error) {
	sales, err := r.SalesInRange(ctx, start, end)
	if err != nil {
		return SalesSummary{}, err
	}
	s := SalesSummary{
		TotalRevenue: decimal.Zero,
		AverageSale:  decimal.Zero,
		Transactions: len(sales),
	}
	for _, sale := range sales {
		s.TotalRevenue = s.TotalRevenue.Add(sale.Price)
	}
	if len(sales) > 0 {
		s.AverageSale = s.TotalRevenue.DivRound(decimal.NewFromInt(int64(len(sales))), 2)
	}
	return s, nil
}

// DailyRevenue sums sales per calendar day, ascending by day.
func (r ReportRepository) DailyRevenue(ctx context.Context, start, end time.Time) ([]RevenuePoint, error) {
	sales, err := r.SalesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		day := s.Date.Format(dayLayout)
		byDay[day] = byDay[day].Add(s.Price)
	}
	points := make([]RevenuePoint, 0, len(byDay))
	for day, amount := range byDay {
		points = append(points, RevenuePoint{Day: day, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points, nil
}

func (r ReportRepository) StatusDistribution(ctx context.Context, start, end time.Time) (map[domain.RepairStatus]int, error) {
	tickets, err := r.RepairsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.RepairStatus]int)
	for _, t := range tickets {
		counts[t.Status]++
	}
	return counts, nil
}

// DailyNewTickets counts tickets opened per calendar day, ascending.
func (r ReportRepository) DailyNewTickets(ctx context.Context, start, end time.Time) ([]CountPoint, error) {
	tickets, err := r.RepairsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]int)
	for _, t := range tickets {
		byDay[t.Date.Format(dayLayout)]++
	}
	points := make([]CountPoint, 0, len(byDay))
	for day, n := range byDay {
		points = append(points, CountPoint{Day: day, Count: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points, nil
}

func (r ReportRepository) PaymentDistribution(ctx context.Context, start, end time.Time) (map[domain.PaymentMethod]int, error) {
	sales, err := r.SalesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.PaymentMethod]int)
	for _, s := range sales {
		counts[s.PaymentMethod]++
	}
	return counts, nil
}

// Overview backs the landing dashboard: today's revenue, open tickets and
// low-stock item count.
func (r ReportRepository) Overview(ctx context.Context) (Overview, error) {
	now := time.Now()
	summary, err := r.SalesSummary(ctx, now, now)
	if err != nil {
		return Overview{}, err
	}

	repairRows, err := r.DB.Read(db.Repairs)
	if err != nil {
		return Overview{}, err
	}
	active := 0
	for _, row := range repairRows {
		if domain.RepairStatus(row[repairColStatus]) != domain.StatusCompleted {
			active++
		}
	}

	inventoryRows, err := r.DB.Read(db.Inventory)
	if err != nil {
		return Overview{}, err
	}
	low := 0
	for _, row := range inventoryRows {
		item := scanItem(row)
		if item.Quantity <= item.Threshold {
			low++
		}
	}

	return Overview{
		TodaySales:    summary.TotalRevenue,
		ActiveRepairs: active,
		LowStockItems: low,
	}, nil
}
