package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitType records how an expense's shares were derived.
type SplitType string

const (
	SplitEqual    SplitType = "equal"
	SplitWeighted SplitType = "weighted"
	SplitExact    SplitType = "exact"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitWeighted, SplitExact:
		return true
	}
	return false
}

// Expense represents one entry in a group's ledger.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger holds this expense.
	GroupID string

	// Description is the human-readable label (e.g., "Rent", "Groceries").
	Description string

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	// PayerID is the member who paid.
	PayerID string

	// Date is when the expense happened.
	Date time.Time

	// Category is a free-form label used for filtering (e.g., "Food").
	Category string

	// Note is optional free text.
	Note string

	// SplitType records how Shares were computed.
	SplitType SplitType

	// Shares lists each member's portion in input order. They sum to Amount.
	Shares []Share

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}

// MemberIDs returns the payer followed by every share member.
func (e *Expense) MemberIDs() []string {
	ids := make([]string, 0, len(e.Shares)+1)
	ids = append(ids, e.PayerID)
	for _, s := range e.Shares {
		ids = append(ids, s.MemberID)
	}
	return ids
}

// Share represents one member's portion of an expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// ExpenseFilter narrows a ledger listing. Zero values match everything.
type ExpenseFilter struct {
	From     time.Time
	To       time.Time
	Category string
}
