package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harthaxer/GsmLabManager/internal/domain"
	"github.com/harthaxer/GsmLabManager/internal/repository"
)

func createTicket(t *testing.T, repo repository.RepairRepository, name, phone, device string) *domain.RepairTicket {
	t.Helper()
	ticket, err := repo.Create(context.Background(), repository.CreateRepairInput{
		CustomerName:  name,
		Phone:         phone,
		Device:        device,
		Category:      domain.CategoryScreen,
		Issue:         "cracked glass",
		EstimatedCost: decimal.RequireFromString("49.50"),
	})
	require.NoError(t, err)
	return ticket
}

func TestRepairRepository_Create(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}

	ticket := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")
	assert.Equal(t, domain.StatusPending, ticket.Status)
	assert.Nil(t, ticket.CompletionDate)
	assert.WithinDuration(t, time.Now(), ticket.Date, 5*time.Second)

	got, err := repo.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8", got.Device)
	assert.Equal(t, domain.CategoryScreen, got.Category)
	assert.Equal(t, "49.50", got.EstimatedCost.StringFixed(2))
}

func TestRepairRepository_CreateValidation(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}

	_, err := repo.Create(context.Background(), repository.CreateRepairInput{
		Phone: "555",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"customer_name", "device", "issue"}, verr.Fields)
}

func TestRepairRepository_CreateZeroCostAllowed(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}

	ticket, err := repo.Create(context.Background(), repository.CreateRepairInput{
		CustomerName: "Bob",
		Phone:        "555",
		Device:       "iPhone 12",
		Issue:        "diagnostic only",
	})
	require.NoError(t, err)
	assert.True(t, ticket.EstimatedCost.IsZero())
}

func TestRepairRepository_CategoryFallsBackToOther(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}

	ticket, err := repo.Create(context.Background(), repository.CreateRepairInput{
		CustomerName: "Bob",
		Phone:        "555",
		Device:       "iPhone 12",
		Category:     "Mystery",
		Issue:        "won't boot",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, ticket.Category)

	active, err := repo.ListActive(context.Background(), repository.ActiveFilter{
		Category: domain.CategoryOther,
	})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ticket.ID, active[0].ID)
}

func TestRepairRepository_Lifecycle(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ctx := context.Background()

	ticket := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")

	updated, err := repo.UpdateStatus(ctx, ticket.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Nil(t, updated.CompletionDate)

	updated, err = repo.UpdateStatus(ctx, ticket.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletionDate)
	assert.WithinDuration(t, time.Now(), *updated.CompletionDate, 5*time.Second)

	active, err := repo.ListActive(ctx, repository.ActiveFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRepairRepository_CompletionDateSurvivesReopen(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ctx := context.Background()

	ticket := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")

	completed, err := repo.UpdateStatus(ctx, ticket.ID, domain.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletionDate)
	stamp := *completed.CompletionDate

	reopened, err := repo.UpdateStatus(ctx, ticket.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, reopened.Status)
	require.NotNil(t, reopened.CompletionDate)
	assert.Equal(t, stamp, *reopened.CompletionDate)
}

func TestRepairRepository_UpdateStatusUnknownTicket(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}

	_, err := repo.UpdateStatus(context.Background(), uuid.New(), domain.StatusCompleted)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepairRepository_UpdateStatusInvalid(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ticket := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")

	_, err := repo.UpdateStatus(context.Background(), ticket.ID, "Lost")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRepairRepository_Update(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ctx := context.Background()

	ticket := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")

	updated, err := repo.Update(ctx, ticket.ID, repository.UpdateRepairInput{
		CustomerName:  "Alice Cooper",
		Phone:         "555-1234",
		Device:        "Pixel 8 Pro",
		Category:      domain.CategoryBattery,
		Issue:         "battery drain",
		EstimatedCost: decimal.RequireFromString("75.00"),
		Status:        domain.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, updated.ID)
	assert.Equal(t, ticket.Date.Format("2006-01-02 15:04:05"), updated.Date.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "Alice Cooper", updated.CustomerName)
	assert.Equal(t, domain.CategoryBattery, updated.Category)
	require.NotNil(t, updated.CompletionDate, "editing into Completed stamps the completion date")
}

func TestRepairRepository_ListActiveFilters(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ctx := context.Background()

	a := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")
	b := createTicket(t, repo, "Bob", "777-0000", "iPhone 12")
	c := createTicket(t, repo, "Carol", "888-5555", "Galaxy S23")

	_, err := repo.UpdateStatus(ctx, c.ID, domain.StatusReadyPickup)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, b.ID, domain.StatusCompleted)
	require.NoError(t, err)

	t.Run("ExcludesCompleted", func(t *testing.T) {
		active, err := repo.ListActive(ctx, repository.ActiveFilter{})
		require.NoError(t, err)
		assert.Len(t, active, 2)
	})

	t.Run("SearchMatchesNameOrDevice", func(t *testing.T) {
		active, err := repo.ListActive(ctx, repository.ActiveFilter{Search: "pixel"})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, a.ID, active[0].ID)

		active, err = repo.ListActive(ctx, repository.ActiveFilter{Search: "CAROL"})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, c.ID, active[0].ID)
	})

	t.Run("SortByName", func(t *testing.T) {
		active, err := repo.ListActive(ctx, repository.ActiveFilter{Sort: repository.SortName})
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Alice", active[0].CustomerName)
		assert.Equal(t, "Carol", active[1].CustomerName)
	})

	t.Run("SortByStatus", func(t *testing.T) {
		active, err := repo.ListActive(ctx, repository.ActiveFilter{Sort: repository.SortStatus})
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, domain.StatusPending, active[0].Status)
		assert.Equal(t, domain.StatusReadyPickup, active[1].Status)
	})
}

func TestRepairRepository_HistoryOrSemantics(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ctx := context.Background()

	a := createTicket(t, repo, "Alice Smith", "555-1111", "Pixel 8")
	b := createTicket(t, repo, "Bob Jones", "999-2222", "iPhone 12")

	t.Run("NameAloneMatches", func(t *testing.T) {
		tickets, err := repo.History(ctx, "alice", "no-such-phone")
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, a.ID, tickets[0].ID)
	})

	t.Run("PhoneAloneMatches", func(t *testing.T) {
		tickets, err := repo.History(ctx, "", "999-2")
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, b.ID, tickets[0].ID)
	})

	t.Run("NoFiltersMatchesAll", func(t *testing.T) {
		tickets, err := repo.History(ctx, "", "")
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
	})
}

func TestRepairRepository_SetPhotoPath(t *testing.T) {
	repo := repository.RepairRepository{DB: newStore(t)}
	ctx := context.Background()

	ticket := createTicket(t, repo, "Alice", "555-1234", "Pixel 8")

	updated, err := repo.SetPhotoPath(ctx, ticket.ID, "photos/Alice_20240102_100000.jpg")
	require.NoError(t, err)
	assert.Equal(t, "photos/Alice_20240102_100000.jpg", updated.PhotoPath)

	_, err = repo.SetPhotoPath(ctx, uuid.New(), "photos/x.jpg")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
