package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

type RepairHandler struct {
	Repo   repository.RepairRepository
	Photos repository.PhotoRepository
}

func (h RepairHandler) RegisterRoutes(r chi.Router) {
	r.Post("/repairs", h.create)
	r.Get("/repairs/active", h.active)
	r.Get("/repairs/history", h.history)
	r.Get("/repairs/{id}", h.get)
	r.Get("/repairs/{id}/photo", h.photo)
	r.Put("/repairs/{id}/status", h.updateStatus)
	r.Put("/repairs/{id}", h.update)
}

type repairRequest struct {
	CustomerName  string      `json:"customerName"`
	Phone         string      `json:"phone"`
	Device        string      `json:"device"`
	Category      string      `json:"category"`
	Issue         string      `json:"issue"`
	EstimatedCost json.Number `json:"estimatedCost"`
	Status        string      `json:"status"`
	// Photo carries raw image bytes, base64 encoded.
	Photo string `json:"photo"`
}

func (h RepairHandler) create(w http.ResponseWriter, r *http.Request) {
	var req repairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ticket, err := h.Repo.Create(r.Context(), repository.CreateRepairInput{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Device:        req.Device,
		Category:      domain.RepairCategory(req.Category),
		Issue:         req.Issue,
		EstimatedCost: parsePrice(req.EstimatedCost),
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if req.Photo != "" {
		path, err := h.savePhoto(req.Photo, req.CustomerName)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		ticket, err = h.Repo.SetPhotoPath(r.Context(), ticket.ID, path)
		if err != nil {
			writeRepoError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, repairJSON(*ticket))
}

func (h RepairHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	ticket, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairJSON(*ticket))
}

func (h RepairHandler) photo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	ticket, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	encoded, err := h.Photos.LoadBase64(ticket.PhotoPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"photo": encoded})
}

func (h RepairHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	ticket, err := h.Repo.UpdateStatus(r.Context(), id, domain.RepairStatus(req.Status))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairJSON(*ticket))
}

func (h RepairHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	var req repairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	photoPath := ""
	if req.Photo != "" {
		path, err := h.savePhoto(req.Photo, req.CustomerName)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		photoPath = path
	}

	ticket, err := h.Repo.Update(r.Context(), id, repository.UpdateRepairInput{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Device:        req.Device,
		Category:      domain.RepairCategory(req.Category),
		Issue:         req.Issue,
		EstimatedCost: parsePrice(req.EstimatedCost),
		Status:        domain.RepairStatus(req.Status),
		PhotoPath:     photoPath,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairJSON(*ticket))
}

func (h RepairHandler) active(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tickets, err := h.Repo.ListActive(r.Context(), repository.ActiveFilter{
		Category: domain.RepairCategory(q.Get("category")),
		Search:   q.Get("q"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairListJSON(tickets))
}

func (h RepairHandler) history(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tickets, err := h.Repo.History(r.Context(), q.Get("name"), q.Get("phone"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairListJSON(tickets))
}

func (h RepairHandler) savePhoto(encoded, customerName string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return h.Photos.Save(data, customerName)
}

func parseTicketID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func parsePrice(n json.Number) decimal.Decimal {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func repairListJSON(tickets []domain.RepairTicket) []map[string]any {
	out := make([]map[string]any, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, repairJSON(t))
	}
	return out
}

func repairJSON(t domain.RepairTicket) map[string]any {
	completion := ""
	if t.CompletionDate != nil {
		completion = t.CompletionDate.Format("2006-01-02 15:04:05")
	}
	return map[string]any{
		"id":             t.ID,
		"date":           t.Date.Format("2006-01-02 15:04:05"),
		"customerName":   t.CustomerName,
		"phone":          t.Phone,
		"device":         t.Device,
		"category":       string(t.Category),
		"issue":          t.Issue,
		"status":         string(t.Status),
		"estimatedCost":  t.EstimatedCost.StringFixed(2),
		"completionDate": completion,
		"photoPath":      t.PhotoPath,
	}
}
