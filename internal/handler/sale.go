package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

type SaleHandler struct {
	Repo repository.SalesRepository
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sales", h.create)
	r.Get("/sales", h.history)
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName  string      `json:"customerName"`
		Phone         string      `json:"phone"`
		Item          string      `json:"item"`
		Price         json.Number `json:"price"`
		PaymentMethod string      `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	sale, err := h.Repo.Create(r.Context(), repository.CreateSaleInput{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Item:          req.Item,
		Price:         parsePrice(req.Price),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saleJSON(*sale))
}

func (h SaleHandler) history(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	var methods []domain.PaymentMethod
	if raw := r.URL.Query().Get("methods"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			methods = append(methods, domain.PaymentMethod(strings.TrimSpace(m)))
		}
	}

	sales, err := h.Repo.List(r.Context(), repository.SaleFilter{
		Date:    date,
		Methods: methods,
		Search:  r.URL.Query().Get("q"),
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}

	total := decimal.Zero
	items := make([]map[string]any, 0, len(sales))
	for _, s := range sales {
		total = total.Add(s.Price)
		items = append(items, saleJSON(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"totalSales": total.StringFixed(2),
		"count":      len(sales),
	})
}

func saleJSON(s domain.Sale) map[string]any {
	return map[string]any{
		"id":            s.ID,
		"date":          s.Date.Format("2006-01-02 15:04:05"),
		"customerName":  s.CustomerName,
		"phone":         s.Phone,
		"item":          s.Item,
		"price":         s.Price.StringFixed(2),
		"paymentMethod": string(s.PaymentMethod),
	}
}
