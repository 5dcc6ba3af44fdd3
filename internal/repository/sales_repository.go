package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/db"
	"github.com/harthaxer/GsmLabManager/internal/domain"
)

type SalesRepository struct {
	DB *db.Store
}

type CreateSaleInput struct {
	CustomerName  string
	Phone         string
	Item          string
	Price         decimal.Decimal
	PaymentMethod domain.PaymentMethod
}

// Create stamps the sale with the current time and appends it. Sales are
// immutable once recorded.
func (r SalesRepository) Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	var missing []string
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(in.Item) == "" {
		missing = append(missing, "item")
	}
	if !in.Price.IsPositive() {
		missing = append(missing, "price")
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		missing = append(missing, "payment_method")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	sale := domain.Sale{
		ID:            uuid.New(),
		Date:          time.Now(),
		CustomerName:  in.CustomerName,
		Phone:         in.Phone,
		Item:          in.Item,
		Price:         in.Price,
		PaymentMethod: in.PaymentMethod,
	}
	if err := r.DB.Append(db.Sales, saleRow(sale)); err != nil {
		return nil, err
	}
	return &sale, nil
}

type SaleFilter struct {
	// Date restricts to sales stamped on that calendar day.
	Date *time.Time
	// Methods restricts to a set of payment methods; empty means all.
	Methods []domain.PaymentMethod
	// Search matches name or phone by case-insensitive substring.
	Search string
}

// List returns sales in insertion order, optionally filtered.
func (r SalesRepository) List(ctx context.Context, f SaleFilter) ([]domain.Sale, error) {
	rows, err := r.DB.Read(db.Sales)
	if err != nil {
		return nil, err
	}

	sales := make([]domain.Sale, 0, len(rows))
	for _, row := range rows {
		s := scanSale(row)
		if f.Date != nil && !strings.Contains(row[1], f.Date.Format(dayLayout)) {
			continue
		}
		if len(f.Methods) > 0 && !methodIn(f.Methods, s.PaymentMethod) {
			continue
		}
		if f.Search != "" && !matchesCustomer(s.CustomerName, s.Phone, f.Search, f.Search) {
			continue
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func methodIn(methods []domain.PaymentMethod, m domain.PaymentMethod) bool {
	for _, pm := range methods {
		if pm == m {
			return true
		}
	}
	return false
}

func saleRow(s domain.Sale) []string {
	return []string{
		s.ID.String(),
		formatTime(s.Date),
		s.CustomerName,
		s.Phone,
		s.Item,
		s.Price.StringFixed(2),
		string(s.PaymentMethod),
	}
}

func scanSale(row []string) domain.Sale {
	return domain.Sale{
		ID:            parseID(row[0]),
		Date:          parseTime(row[1]),
		CustomerName:  row[2],
		Phone:         row[3],
		Item:          row[4],
		Price:         parseDecimal(row[5]),
		PaymentMethod: domain.PaymentMethod(row[6]),
	}
}
