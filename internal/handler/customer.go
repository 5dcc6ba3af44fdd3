package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

// CustomerHandler looks up customers across both tables. Customers are
// not a first-class entity; identity is the loose name+phone pair.
type CustomerHandler struct {
	Sales   repository.SalesRepository
	Repairs repository.RepairRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.search)
	r.Get("/customers/recent", h.recent)
}

func (h CustomerHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	// One search term runs against name and phone of both tables.
	repairs, err := h.Repairs.History(r.Context(), q, q)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	sales, err := h.Sales.List(r.Context(), repository.SaleFilter{Search: q})
	if err != nil {
		writeRepoError(w, err)
		return
	}

	type key struct{ name, phone string }
	seen := make(map[key]bool)
	var keys []key
	for _, t := range repairs {
		k := key{t.CustomerName, t.Phone}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, s := range sales {
		k := key{s.CustomerName, s.Phone}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	customers := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		var customerRepairs []domain.RepairTicket
		for _, t := range repairs {
			if t.CustomerName == k.name && t.Phone == k.phone {
				customerRepairs = append(customerRepairs, t)
			}
		}
		var customerSales []domain.Sale
		totalSpent := decimal.Zero
		for _, s := range sales {
			if s.CustomerName == k.name && s.Phone == k.phone {
				customerSales = append(customerSales, s)
				totalSpent = totalSpent.Add(s.Price)
			}
		}
		sort.SliceStable(customerSales, func(i, j int) bool {
			return customerSales[j].Date.Before(customerSales[i].Date)
		})

		purchases := make([]map[string]any, 0, len(customerSales))
		for _, s := range customerSales {
			purchases = append(purchases, saleJSON(s))
		}
		customers = append(customers, map[string]any{
			"customerName":   k.name,
			"phone":          k.phone,
			"totalRepairs":   len(customerRepairs),
			"totalPurchases": len(customerSales),
			"totalSpent":     totalSpent.StringFixed(2),
			"repairs":        repairListJSON(customerRepairs),
			"purchases":      purchases,
		})
	}

	writeJSON(w, http.StatusOK, customers)
}

// recent returns the five most recently seen customers across sales and
// repairs.
func (h CustomerHandler) recent(w http.ResponseWriter, r *http.Request) {
	repairs, err := h.Repairs.History(r.Context(), "", "")
	if err != nil {
		writeRepoError(w, err)
		return
	}
	sales, err := h.Sales.List(r.Context(), repository.SaleFilter{})
	if err != nil {
		writeRepoError(w, err)
		return
	}

	type entry struct {
		name, phone string
		date        string
	}
	var entries []entry
	for _, t := range repairs {
		entries = append(entries, entry{t.CustomerName, t.Phone, t.Date.Format("2006-01-02 15:04:05")})
	}
	for _, s := range sales {
		entries = append(entries, entry{s.CustomerName, s.Phone, s.Date.Format("2006-01-02 15:04:05")})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].date > entries[j].date })

	seen := make(map[string]bool)
	out := make([]map[string]string, 0, 5)
	for _, e := range entries {
		k := e.name + "\x00" + e.phone
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, map[string]string{
			"customerName": e.name,
			"phone":        e.phone,
			"lastSeen":     e.date,
		})
		if len(out) == 5 {
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}
