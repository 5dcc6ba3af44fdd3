package repository

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a referenced record no longer exists.
var ErrNotFound = errors.New("not found")

const (
	timeLayout = "2006-01-02 15:04:05"
	dayLayout  = "2006-01-02"
)

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// Parsing is lenient on purpose: hand-edited table files with a bad cell
// should degrade to zero values, not fail the whole read.

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// matchesCustomer applies the customer lookup's OR semantics: a record
// matches when the supplied name matches OR the supplied phone matches.
// With neither supplied, everything matches.
func matchesCustomer(customerName, customerPhone, name, phone string) bool {
	if name == "" && phone == "" {
		return true
	}
	if name != "" && containsFold(customerName, name) {
		return true
	}
	return phone != "" && containsFold(customerPhone, phone)
}

// sameDay truncation for inclusive date-range reports.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func withinRange(t, start, end time.Time) bool {
	d := dayOf(t)
	return !d.Before(dayOf(start)) && !d.After(dayOf(end))
}
