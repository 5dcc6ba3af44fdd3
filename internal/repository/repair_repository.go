package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harthaxer/GsmLabManager/internal/db"
	"github.com/harthaxer/GsmLabManager/internal/domain"
)

// Column offsets in the repairs table.
const (
	repairColID = iota
	repairColDate
	repairColCustomerName
	repairColPhone
	repairColDevice
	repairColCategory
	repairColIssue
	repairColStatus
	repairColEstimatedCost
	repairColCompletionDate
	repairColPhotoPath
)

type RepairRepository struct {
	DB *db.Store
}

type CreateRepairInput struct {
	CustomerName  string
	Phone         string
	Device        string
	Category      domain.RepairCategory
	Issue         string
	EstimatedCost decimal.Decimal
}

// Create opens a ticket in Pending. The category falls back to Other when
// absent or unrecognized; the estimated cost may be zero.
func (r RepairRepository) Create(ctx context.Context, in CreateRepairInput) (*domain.RepairTicket, error) {
	if err := validateRepair(in); err != nil {
		return nil, err
	}

	ticket := domain.RepairTicket{
		ID:            uuid.New(),
		Date:          time.Now(),
		CustomerName:  in.CustomerName,
		Phone:         in.Phone,
		Device:        in.Device,
		Category:      domain.NormalizeCategory(in.Category),
		Issue:         in.Issue,
		Status:        domain.StatusPending,
		EstimatedCost: in.EstimatedCost,
	}
	if err := r.DB.Append(db.Repairs, repairRow(ticket)); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func validateRepair(in CreateRepairInput) error {
	var missing []string
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(in.Device) == "" {
		missing = append(missing, "device")
	}
	if strings.TrimSpace(in.Issue) == "" {
		missing = append(missing, "issue")
	}
	if in.EstimatedCost.IsNegative() {
		missing = append(missing, "estimated_cost")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}

// Get returns a single ticket by id.
func (r RepairRepository) Get(ctx context.Context, id uuid.UUID) (*domain.RepairTicket, error) {
	_, row, err := r.find(id)
	if err != nil {
		return nil, err
	}
	t := scanRepair(row)
	return &t, nil
}

// UpdateStatus sets the ticket status. Entering Completed stamps the
// completion date; leaving Completed does not clear it, so a reopened
// ticket keeps its old completion date.
func (r RepairRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RepairStatus) (*domain.RepairTicket, error) {
	if !domain.ValidStatus(status) {
		return nil, &domain.ValidationError{Fields: []string{"status"}}
	}

	idx, _, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.UpdateField(db.Repairs, idx, "status", string(status)); err != nil {
		return nil, rangeAsNotFound(err)
	}
	if status == domain.StatusCompleted {
		if err := r.DB.UpdateField(db.Repairs, idx, "completion_date", formatTime(time.Now())); err != nil {
			return nil, rangeAsNotFound(err)
		}
	}
	return r.Get(ctx, id)
}

// SetPhotoPath attaches a stored photo to the ticket. A previously
// attached photo file is not deleted.
func (r RepairRepository) SetPhotoPath(ctx context.Context, id uuid.UUID, path string) (*domain.RepairTicket, error) {
	idx, _, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.UpdateField(db.Repairs, idx, "photo_path", path); err != nil {
		return nil, rangeAsNotFound(err)
	}
	return r.Get(ctx, id)
}

type UpdateRepairInput struct {
	CustomerName  string
	Phone         string
	Device        string
	Category      domain.RepairCategory
	Issue         string
	EstimatedCost decimal.Decimal
	Status        domain.RepairStatus
	// PhotoPath replaces the stored path when non-empty.
	PhotoPath string
}

// Update replaces every editable field of a ticket. A transition into
// Completed during the edit stamps the completion date; the creation date
// and id never change.
func (r RepairRepository) Update(ctx context.Context, id uuid.UUID, in UpdateRepairInput) (*domain.RepairTicket, error) {
	if err := validateRepair(CreateRepairInput{
		CustomerName:  in.CustomerName,
		Phone:         in.Phone,
		Device:        in.Device,
		Issue:         in.Issue,
		EstimatedCost: in.EstimatedCost,
	}); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(in.Status) {
		return nil, &domain.ValidationError{Fields: []string{"status"}}
	}

	rows, err := r.DB.Read(db.Repairs)
	if err != nil {
		return nil, err
	}
	idx := indexOf(rows, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	old := scanRepair(rows[idx])
	ticket := domain.RepairTicket{
		ID:             old.ID,
		Date:           old.Date,
		CustomerName:   in.CustomerName,
		Phone:          in.Phone,
		Device:         in.Device,
		Category:       domain.NormalizeCategory(in.Category),
		Issue:          in.Issue,
		Status:         in.Status,
		EstimatedCost:  in.EstimatedCost,
		CompletionDate: old.CompletionDate,
		PhotoPath:      old.PhotoPath,
	}
	if in.PhotoPath != "" {
		ticket.PhotoPath = in.PhotoPath
	}
	if in.Status == domain.StatusCompleted && old.Status != domain.StatusCompleted {
		now := time.Now()
		ticket.CompletionDate = &now
	}

	rows[idx] = repairRow(ticket)
	if err := r.DB.ReplaceAll(db.Repairs, rows); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Sort keys for ListActive.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"
	SortStatus = "status"
)

type ActiveFilter struct {
	// Category restricts to one category; unrecognized stored values
	// count as Other.
	Category domain.RepairCategory
	// Search matches customer name or device, case-insensitive.
	Search string
	Sort   string
}

// ListActive returns every ticket not yet Completed.
func (r RepairRepository) ListActive(ctx context.Context, f ActiveFilter) ([]domain.RepairTicket, error) {
	rows, err := r.DB.Read(db.Repairs)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.RepairTicket, 0, len(rows))
	for _, row := range rows {
		t := scanRepair(row)
		if t.Status == domain.StatusCompleted {
			continue
		}
		if f.Category != "" && t.Category != domain.NormalizeCategory(f.Category) {
			continue
		}
		if f.Search != "" && !containsFold(t.CustomerName, f.Search) && !containsFold(t.Device, f.Search) {
			continue
		}
		tickets = append(tickets, t)
	}

	switch f.Sort {
	case SortOldest:
		sort.SliceStable(tickets, func(i, j int) bool { return tickets[i].Date.Before(tickets[j].Date) })
	case SortName:
		sort.SliceStable(tickets, func(i, j int) bool {
			return strings.ToLower(tickets[i].CustomerName) < strings.ToLower(tickets[j].CustomerName)
		})
	case SortStatus:
		sort.SliceStable(tickets, func(i, j int) bool {
			return domain.StatusRank(tickets[i].Status) < domain.StatusRank(tickets[j].Status)
		})
	default: // newest first
		sort.SliceStable(tickets, func(i, j int) bool { return tickets[j].Date.Before(tickets[i].Date) })
	}
	return tickets, nil
}

// History returns tickets matching the supplied name or phone by
// substring, newest first. Either filter alone is enough to match.
func (r RepairRepository) History(ctx context.Context, name, phone string) ([]domain.RepairTicket, error) {
	rows, err := r.DB.Read(db.Repairs)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.RepairTicket, 0, len(rows))
	for _, row := range rows {
		t := scanRepair(row)
		if !matchesCustomer(t.CustomerName, t.Phone, name, phone) {
			continue
		}
		tickets = append(tickets, t)
	}
	sort.SliceStable(tickets, func(i, j int) bool { return tickets[j].Date.Before(tickets[i].Date) })
	return tickets, nil
}

func (r RepairRepository) find(id uuid.UUID) (int, []string, error) {
	rows, err := r.DB.Read(db.Repairs)
	if err != nil {
		return 0, nil, err
	}
	idx := indexOf(rows, id)
	if idx < 0 {
		return 0, nil, ErrNotFound
	}
	return idx, rows[idx], nil
}

func indexOf(rows [][]string, id uuid.UUID) int {
	want := id.String()
	for i, row := range rows {
		if row[repairColID] == want {
			return i
		}
	}
	return -1
}

func rangeAsNotFound(err error) error {
	if errors.Is(err, db.ErrRowOutOfRange) {
		return ErrNotFound
	}
	return err
}

func repairRow(t domain.RepairTicket) []string {
	completion := ""
	if t.CompletionDate != nil {
		completion = formatTime(*t.CompletionDate)
	}
	return []string{
		t.ID.String(),
		formatTime(t.Date),
		t.CustomerName,
		t.Phone,
		t.Device,
		string(t.Category),
		t.Issue,
		string(t.Status),
		t.EstimatedCost.StringFixed(2),
		completion,
		t.PhotoPath,
	}
}

func scanRepair(row []string) domain.RepairTicket {
	t := domain.RepairTicket{
		ID:            parseID(row[repairColID]),
		Date:          parseTime(row[repairColDate]),
		CustomerName:  row[repairColCustomerName],
		Phone:         row[repairColPhone],
		Device:        row[repairColDevice],
		Category:      domain.NormalizeCategory(domain.RepairCategory(row[repairColCategory])),
		Issue:         row[repairColIssue],
		Status:        domain.RepairStatus(row[repairColStatus]),
		EstimatedCost: parseDecimal(row[repairColEstimatedCost]),
		PhotoPath:     row[repairColPhotoPath],
	}
	if row[repairColCompletionDate] != "" {
		done := parseTime(row[repairColCompletionDate])
		t.CompletionDate = &done
	}
	return t
}
