package models

import "github.com/shopspring/decimal"

// SettlementStatus tracks whether a recorded payment has actually been made.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
)

// Settlement represents a payment between group members to clear debts.
// Only completed settlements affect balances.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromMemberID is the member who pays (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who receives payment (creditor being paid).
	ToMemberID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Status is pending until the payment is confirmed.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CompletedAt is the Unix timestamp when it was marked completed, or 0.
	CompletedAt int64

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string
}

// Involves reports whether memberID pays or receives this settlement.
func (s *Settlement) Involves(memberID string) bool {
	return s.FromMemberID == memberID || s.ToMemberID == memberID
}
