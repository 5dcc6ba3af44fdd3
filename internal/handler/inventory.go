package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

type InventoryHandler struct {
	Repo repository.InventoryRepository
}

func (h InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory", h.list)
	r.Post("/inventory", h.add)
	r.Put("/inventory", h.replaceAll)
	r.Get("/inventory/low-stock", h.lowStock)
}

type inventoryItemRequest struct {
	ID        string      `json:"id"`
	ItemName  string      `json:"itemName"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	Threshold int         `json:"threshold"`
}

func (h InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemListJSON(items))
}

func (h InventoryHandler) add(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	item, err := h.Repo.Add(r.Context(), repository.AddItemInput{
		ItemName:  req.ItemName,
		Quantity:  req.Quantity,
		Price:     parsePrice(req.Price),
		Threshold: req.Threshold,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemJSON(*item))
}

// replaceAll overwrites the whole table with the submitted rows, matching
// the stock editor's arbitrary add/edit/delete semantics.
func (h InventoryHandler) replaceAll(w http.ResponseWriter, r *http.Request) {
	var reqs []inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	items := make([]domain.InventoryItem, 0, len(reqs))
	for _, req := range reqs {
		item := domain.InventoryItem{
			ItemName:  req.ItemName,
			Quantity:  req.Quantity,
			Price:     parsePrice(req.Price),
			Threshold: req.Threshold,
		}
		if req.ID != "" {
			if id, err := uuid.Parse(req.ID); err == nil {
				item.ID = id
			}
		}
		items = append(items, item)
	}
	if err := h.Repo.ReplaceAll(r.Context(), items); err != nil {
		writeRepoError(w, err)
		return
	}

	saved, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemListJSON(saved))
}

func (h InventoryHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.LowStock(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemListJSON(items))
}

func itemListJSON(items []domain.InventoryItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, itemJSON(item))
	}
	return out
}

func itemJSON(i domain.InventoryItem) map[string]any {
	return map[string]any{
		"id":        i.ID,
		"itemName":  i.ItemName,
		"quantity":  i.Quantity,
		"price":     i.Price.StringFixed(2),
		"threshold": i.Threshold,
	}
}
