package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

func TestInventoryRepository_Add(t *testing.T) {
	repo := repository.InventoryRepository{DB: newStore(t)}
	ctx := context.Background()

	item, err := repo.Add(ctx, repository.AddItemInput{
		ItemName:  "Screen Protector",
		Quantity:  10,
		Price:     decimal.RequireFromString("9.99"),
		Threshold: 3,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Screen Protector", items[0].ItemName)
	assert.Equal(t, 10, items[0].Quantity)
	assert.Equal(t, "9.99", items[0].Price.StringFixed(2))
	assert.Equal(t, 3, items[0].Threshold)
}

func TestInventoryRepository_AddValidation(t *testing.T) {
	repo := repository.InventoryRepository{DB: newStore(t)}

	_, err := repo.Add(context.Background(), repository.AddItemInput{
		Quantity: -1,
		Price:    decimal.RequireFromString("-2.00"),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"item_name", "quantity", "price"}, verr.Fields)
}

func TestInventoryRepository_ReplaceAll(t *testing.T) {
	repo := repository.InventoryRepository{DB: newStore(t)}
	ctx := context.Background()

	_, err := repo.Add(ctx, repository.AddItemInput{ItemName: "Old A", Price: decimal.Zero})
	require.NoError(t, err)
	_, err = repo.Add(ctx, repository.AddItemInput{ItemName: "Old B", Price: decimal.Zero})
	require.NoError(t, err)

	err = repo.ReplaceAll(ctx, []domain.InventoryItem{
		{ItemName: "New", Quantity: 4, Price: decimal.RequireFromString("1.50"), Threshold: 1},
	})
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "New", items[0].ItemName)
	assert.NotEqual(t, uuid.Nil, items[0].ID, "rows without an id get one assigned")
}

func TestInventoryRepository_LowStockBoundaries(t *testing.T) {
	repo := repository.InventoryRepository{DB: newStore(t)}
	ctx := context.Background()

	tests := []struct {
		name      string
		quantity  int
		threshold int
		wantLow   bool
	}{
		{name: "BelowThreshold", quantity: 1, threshold: 3, wantLow: true},
		{name: "AtThreshold", quantity: 3, threshold: 3, wantLow: true},
		{name: "JustAboveThreshold", quantity: 4, threshold: 3, wantLow: false},
		{name: "ZeroQuantityZeroThreshold", quantity: 0, threshold: 0, wantLow: true},
	}

	for _, tc := range tests {
		_, err := repo.Add(ctx, repository.AddItemInput{
			ItemName:  tc.name,
			Quantity:  tc.quantity,
			Price:     decimal.RequireFromString("1.00"),
			Threshold: tc.threshold,
		})
		require.NoError(t, err)
	}

	low, err := repo.LowStock(ctx)
	require.NoError(t, err)

	lowNames := make([]string, 0, len(low))
	for _, item := range low {
		lowNames = append(lowNames, item.ItemName)
	}
	for _, tc := range tests {
		if tc.wantLow {
			assert.Contains(t, lowNames, tc.name)
		} else {
			assert.NotContains(t, lowNames, tc.name)
		}
	}
}
