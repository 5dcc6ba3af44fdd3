package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harthaxer/GsmLabManager/internal/config"
	"github.com/harthaxer/GsmLabManager/internal/db"
	"github.com/harthaxer/GsmLabManager/internal/handler"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

func newSaleRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := db.New(config.Config{DataDir: t.TempDir()})
	require.NoError(t, err)

	h := handler.SaleHandler{Repo: repository.SalesRepository{DB: store}}
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestSaleHandler_RecordAndHistory(t *testing.T) {
	router := newSaleRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales", map[string]any{
		"customerName":  "Alice",
		"phone":         "555-1234",
		"item":          "Screen Protector",
		"price":         9.99,
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Items      []map[string]any `json:"items"`
		TotalSales string           `json:"totalSales"`
		Count      int              `json:"count"`
	}
	decodeData(t, rec, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "9.99", data.Items[0]["price"])
	assert.Equal(t, "Cash", data.Items[0]["paymentMethod"])
	assert.Equal(t, "9.99", data.TotalSales)
	assert.Equal(t, 1, data.Count)
}

func TestSaleHandler_RecordValidation(t *testing.T) {
	router := newSaleRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales", map[string]any{
		"customerName": "Alice",
		"price":        0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaleHandler_HistoryMethodFilter(t *testing.T) {
	router := newSaleRouter(t)

	for _, payload := range []map[string]any{
		{"customerName": "Alice", "phone": "555", "item": "Case", "price": 5, "paymentMethod": "Cash"},
		{"customerName": "Bob", "phone": "777", "item": "Charger", "price": 20, "paymentMethod": "Card"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/sales", payload)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/sales?methods=Card", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Items []map[string]any `json:"items"`
	}
	decodeData(t, rec, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Bob", data.Items[0]["customerName"])
}
