package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/db"
	"github.com/harthaxer/GsmLabManager/internal/domain"
)

type InventoryRepository struct {
	DB *db.Store
}

// List returns all inventory rows in file order.
func (r InventoryRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.DB.Read(db.Inventory)
	if err != nil {
		return nil, err
	}
	items := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, scanItem(row))
	}
	return items, nil
}

type AddItemInput struct {
	ItemName  string
	Quantity  int
	Price     decimal.Decimal
	Threshold int
}

func (r InventoryRepository) Add(ctx context.Context, in AddItemInput) (*domain.InventoryItem, error) {
	var missing []string
	if strings.TrimSpace(in.ItemName) == "" {
		missing = append(missing, "item_name")
	}
	if in.Quantity < 0 {
		missing = append(missing, "quantity")
	}
	if in.Price.IsNegative() {
		missing = append(missing, "price")
	}
	if in.Threshold < 0 {
		missing = append(missing, "threshold")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	item := domain.InventoryItem{
		ID:        uuid.New(),
		ItemName:  in.ItemName,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Threshold: in.Threshold,
	}
	if err := r.DB.Append(db.Inventory, itemRow(item)); err != nil {
		return nil, err
	}
	return &item, nil
}

// ReplaceAll overwrites the whole table with the given rows, reflecting
// arbitrary add/edit/delete from the stock editor. Rows without an id get
// one assigned.
func (r InventoryRepository) ReplaceAll(ctx context.Context, items []domain.InventoryItem) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		rows = append(rows, itemRow(item))
	}
	return r.DB.ReplaceAll(db.Inventory, rows)
}

// LowStock returns items whose quantity is at or below their threshold.
func (r InventoryRepository) LowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= item.Threshold {
			low = append(low, item)
		}
	}
	return low, nil
}

func itemRow(i domain.InventoryItem) []string {
	return []string{
		i.ID.String(),
		i.ItemName,
		strconv.Itoa(i.Quantity),
		i.Price.StringFixed(2),
		strconv.Itoa(i.Threshold),
	}
}

func scanItem(row []string) domain.InventoryItem {
	return domain.InventoryItem{
		ID:        parseID(row[0]),
		ItemName:  row[1],
		Quantity:  parseInt(row[2]),
		Price:     parseDecimal(row[3]),
		Threshold: parseInt(row[4]),
	}
}
