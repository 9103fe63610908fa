package calculator

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind says whether a history entry is a payment or a share.
type EntryKind string

const (
	EntryPaid  EntryKind = "paid"
	EntryShare EntryKind = "share"
)

// HistoryEntry is one change to a member's balance.
type HistoryEntry struct {
	ExpenseID   string
	Description string
	Date        time.Time
	Kind        EntryKind
	Amount      decimal.Decimal // signed: positive for paid, negative for share
	Running     decimal.Decimal // balance after this entry
}

// MemberHistory lists a member's balance changes in date order with a running
// balance. Expenses on the same date keep their ledger order; within one
// expense the payment precedes the share. The final Running value equals the
// member's NetBalance from ComputeBalances.
func MemberHistory(memberID string, expenses []Expense) []HistoryEntry {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b Expense) int {
		return a.Date.Compare(b.Date)
	})

	entries := []HistoryEntry{}
	running := decimal.Zero
	for _, e := range sorted {
		if e.PayerID == memberID {
			running = running.Add(e.Amount)
			entries = append(entries, HistoryEntry{
				ExpenseID:   e.ID,
				Description: e.Description,
				Date:        e.Date,
				Kind:        EntryPaid,
				Amount:      e.Amount,
				Running:     running,
			})
		}
		for _, s := range e.Shares {
			if s.MemberID != memberID {
				continue
			}
			running = running.Sub(s.Amount)
			entries = append(entries, HistoryEntry{
				ExpenseID:   e.ID,
				Description: e.Description,
				Date:        e.Date,
				Kind:        EntryShare,
				Amount:      s.Amount.Neg(),
				Running:     running,
			})
		}
	}
	return entries
}

// DaySpending is the spending of one calendar day (UTC).
type DaySpending struct {
	Day   string // YYYY-MM-DD
	Total decimal.Decimal
	Share decimal.Decimal // the requested member's share of Total
}

// SpendingByDay totals expenses per UTC day, oldest first. If memberID is not
// empty Share holds that member's share. Zero from/to bounds are open; both
// bounds are inclusive.
func SpendingByDay(expenses []Expense, memberID string, from, to time.Time) []DaySpending {
	byDay := make(map[string]*DaySpending)
	for _, e := range expenses {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		day := e.Date.UTC().Format(time.DateOnly)
		d, ok := byDay[day]
		if !ok {
			d = &DaySpending{Day: day, Total: decimal.Zero, Share: decimal.Zero}
			byDay[day] = d
		}
		d.Total = d.Total.Add(e.Amount)
		if memberID == "" {
			continue
		}
		for _, s := range e.Shares {
			if s.MemberID == memberID {
				d.Share = d.Share.Add(s.Amount)
			}
		}
	}

	days := make([]DaySpending, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	slices.SortFunc(days, func(a, b DaySpending) int {
		return cmp.Compare(a.Day, b.Day)
	})
	return days
}
