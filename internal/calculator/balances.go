// Package calculator derives member balances and settlement plans from a group ledger.
package calculator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is a roster entry as seen by the engine.
type Member struct {
	ID   string
	Name string
}

// Share is one member's portion of an expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// Expense represents an expense with the minimal information needed for balance calculations.
// Shares are already computed by the caller; the engine never divides amounts.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	PayerID     string
	Date        time.Time
	Shares      []Share
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID   string
	Name       string
	NetBalance decimal.Decimal // Positive = is owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across all expenses
	TotalShare decimal.Decimal // Total of this member's shares across all expenses
}

// ComputeBalances derives every roster member's balance from the ledger.
//
// The result has one entry per member in roster order, including members with
// no activity. For each expense the payer is credited with the full amount and
// each share's member is debited with the share amount.
//
// Contributions referencing an id that is not on the roster (a payer or share
// member that was removed, or data that bypassed validation) are ignored.
// Use UnknownMembers to detect them. If the roster repeats an id, the first
// occurrence wins.
func ComputeBalances(members []Member, expenses []Expense) []MemberBalance {
	balances := make([]MemberBalance, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if _, dup := index[m.ID]; dup {
			continue
		}
		index[m.ID] = len(balances)
		balances = append(balances, MemberBalance{
			MemberID:   m.ID,
			Name:       m.Name,
			NetBalance: decimal.Zero,
			TotalPaid:  decimal.Zero,
			TotalShare: decimal.Zero,
		})
	}

	for _, e := range expenses {
		if i, ok := index[e.PayerID]; ok {
			balances[i].TotalPaid = balances[i].TotalPaid.Add(e.Amount)
		}
		for _, s := range e.Shares {
			if i, ok := index[s.MemberID]; ok {
				balances[i].TotalShare = balances[i].TotalShare.Add(s.Amount)
			}
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid.Sub(balances[i].TotalShare)
	}

	return balances
}

// BalanceMap returns the member id -> net balance view of balances.
func BalanceMap(balances []MemberBalance) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		m[b.MemberID] = b.NetBalance
	}
	return m
}

// UnknownMembers lists, in first-seen order, ids referenced by expenses
// (as payer or in shares) that are not on the roster.
func UnknownMembers(members []Member, expenses []Expense) []string {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	seen := make(map[string]bool)
	var unknown []string
	note := func(id string) {
		if known[id] || seen[id] {
			return
		}
		seen[id] = true
		unknown = append(unknown, id)
	}
	for _, e := range expenses {
		note(e.PayerID)
		for _, s := range e.Shares {
			note(s.MemberID)
		}
	}
	return unknown
}

// PaymentAsExpense expresses a completed payment from one member to another
// as a ledger entry: the sender is credited and the receiver carries the whole
// amount as their share.
func PaymentAsExpense(id, from, to string, amount decimal.Decimal, date time.Time) Expense {
	return Expense{
		ID:          id,
		Description: "Payment",
		Amount:      amount,
		PayerID:     from,
		Date:        date,
		Shares:      []Share{{MemberID: to, Amount: amount}},
	}
}
