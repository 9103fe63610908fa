package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrSubCentAmount    = errors.New("amount must not be smaller than one cent")
	ErrEmptyDescription = errors.New("description can't be empty")
	ErrUnknownMember    = errors.New("member is not in the group")
	ErrDuplicateShare   = errors.New("member appears more than once in shares")
	ErrNegativeShare    = errors.New("share amount can't be negative")
	ErrNoShares         = errors.New("expense must be shared with at least one member")
	ErrShareMismatch    = errors.New("shares must sum to the expense amount")
	ErrInvalidSplitType = errors.New("invalid split type")
	ErrSelfSettlement   = errors.New("settlement must be between two different members")
)

const maxDescriptionLen = 200

// ValidateExpense checks e against the group roster before it is recorded.
//
// The amount must be positive with at most cent precision, the payer and every
// share member must be on the roster, no member may appear twice, no share may
// be negative or finer than a cent, and the shares must sum to the amount exactly.
func ValidateExpense(e *Expense, group *Group) error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > maxDescriptionLen {
		return fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	}
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if e.SplitType != "" && !e.SplitType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSplitType, e.SplitType)
	}
	if _, ok := group.MemberByID(e.PayerID); !ok {
		return fmt.Errorf("payer %q: %w", e.PayerID, ErrUnknownMember)
	}
	if len(e.Shares) == 0 {
		return ErrNoShares
	}

	seen := make(map[string]bool, len(e.Shares))
	sum := decimal.Zero
	for _, s := range e.Shares {
		if _, ok := group.MemberByID(s.MemberID); !ok {
			return fmt.Errorf("share member %q: %w", s.MemberID, ErrUnknownMember)
		}
		if seen[s.MemberID] {
			return fmt.Errorf("share member %q: %w", s.MemberID, ErrDuplicateShare)
		}
		seen[s.MemberID] = true
		if s.Amount.IsNegative() {
			return fmt.Errorf("share member %q: %w", s.MemberID, ErrNegativeShare)
		}
		if !s.Amount.Equal(s.Amount.Truncate(2)) {
			return fmt.Errorf("share member %q: %w", s.MemberID, ErrSubCentAmount)
		}
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(e.Amount) {
		return fmt.Errorf("%w: shares total %s, amount %s", ErrShareMismatch, sum, e.Amount)
	}
	return nil
}

// ValidateSettlement checks a payment record against the group roster.
func ValidateSettlement(s *Settlement, group *Group) error {
	if err := validateAmount(s.Amount); err != nil {
		return err
	}
	if s.FromMemberID == s.ToMemberID {
		return ErrSelfSettlement
	}
	if _, ok := group.MemberByID(s.FromMemberID); !ok {
		return fmt.Errorf("from member %q: %w", s.FromMemberID, ErrUnknownMember)
	}
	if _, ok := group.MemberByID(s.ToMemberID); !ok {
		return fmt.Errorf("to member %q: %w", s.ToMemberID, ErrUnknownMember)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return ErrSubCentAmount
	}
	return nil
}
