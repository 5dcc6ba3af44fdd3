package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Enumerations
const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentMobile PaymentMethod = "Mobile Payment"

	StatusPending      RepairStatus = "Pending"
	StatusInProgress   RepairStatus = "In Progress"
	StatusWaitingParts RepairStatus = "Waiting for Parts"
	StatusReadyPickup  RepairStatus = "Ready for Pickup"
	StatusCompleted    RepairStatus = "Completed"

	CategoryScreen   RepairCategory = "Screen"
	CategoryBattery  RepairCategory = "Battery"
	CategoryCharging RepairCategory = "Charging Port"
	CategoryWater    RepairCategory = "Water Damage"
	CategorySoftware RepairCategory = "Software"
	CategoryOther    RepairCategory = "Other"
)

type PaymentMethod string
type RepairStatus string
type RepairCategory string

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentMobile}

// RepairStatuses lists every workflow status in display order.
var RepairStatuses = []RepairStatus{
	StatusPending,
	StatusInProgress,
	StatusWaitingParts,
	StatusReadyPickup,
	StatusCompleted,
}

// RepairCategories is the fixed category set, Other last.
var RepairCategories = []RepairCategory{
	CategoryScreen,
	CategoryBattery,
	CategoryCharging,
	CategoryWater,
	CategorySoftware,
	CategoryOther,
}

// statusRank orders statuses for the workflow sort key.
var statusRank = map[RepairStatus]int{
	StatusPending:      0,
	StatusInProgress:   1,
	StatusWaitingParts: 2,
	StatusReadyPickup:  3,
	StatusCompleted:    4,
}

// StatusRank returns the workflow position of a status.
func StatusRank(s RepairStatus) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}

// ValidStatus reports whether s is one of the workflow statuses.
func ValidStatus(s RepairStatus) bool {
	_, ok := statusRank[s]
	return ok
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// NormalizeCategory maps a missing or unrecognized category to Other.
func NormalizeCategory(c RepairCategory) RepairCategory {
	for _, rc := range RepairCategories {
		if rc == c {
			return rc
		}
	}
	return CategoryOther
}

type Sale struct {
	ID            uuid.UUID
	Date          time.Time
	CustomerName  string
	Phone         string
	Item          string
	Price         decimal.Decimal
	PaymentMethod PaymentMethod
}

type RepairTicket struct {
	ID             uuid.UUID
	Date           time.Time
	CustomerName   string
	Phone          string
	Device         string
	Category       RepairCategory
	Issue          string
	Status         RepairStatus
	EstimatedCost  decimal.Decimal
	CompletionDate *time.Time
	PhotoPath      string
}

type InventoryItem struct {
	ID        uuid.UUID
	ItemName  string
	Quantity  int
	Price     decimal.Decimal
	Threshold int
}

// ValidationError reports required fields that were missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
