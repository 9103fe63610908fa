package calculator

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// Transfer is a suggested payment from a debtor to a creditor.
// It is recomputed on every call and never persisted.
type Transfer struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// Planner matches debtors with creditors.
// The zero value uses money.Epsilon as the settled threshold.
type Planner struct {
	// Epsilon is the magnitude below which a balance counts as settled.
	Epsilon decimal.Decimal
}

type party struct {
	id      string
	pending decimal.Decimal
}

func (p Planner) epsilon() decimal.Decimal {
	if p.Epsilon.IsPositive() {
		return p.Epsilon
	}
	return money.Epsilon
}

// ComputeSettlements computes balances for the roster and returns the transfers that settle them.
func ComputeSettlements(members []Member, expenses []Expense) []Transfer {
	return PlanSettlements(ComputeBalances(members, expenses))
}

// PlanSettlements runs the default Planner over balances.
func PlanSettlements(balances []MemberBalance) []Transfer {
	return Planner{}.Plan(balances)
}

// Plan returns the transfers that bring every balance to zero.
//
// Algorithm (greedy, largest first):
//   - Balances within epsilon of zero are settled and take no part.
//   - Debtors and creditors are each sorted by outstanding magnitude,
//     descending; equal magnitudes keep the input order.
//   - The largest debtor pays the largest creditor min(owed, due). Whichever
//     side drops below epsilon is advanced (both, if both do).
//
// This is not guaranteed to use the fewest possible transfers, but it is
// deterministic and emits at most len(debtors)+len(creditors)-1 transfers.
func (p Planner) Plan(balances []MemberBalance) []Transfer {
	eps := p.epsilon()

	var debtors, creditors []party
	for _, b := range balances {
		if money.IsSettled(b.NetBalance, eps) {
			continue
		}
		if b.NetBalance.IsNegative() {
			debtors = append(debtors, party{id: b.MemberID, pending: b.NetBalance.Neg()})
		} else {
			creditors = append(creditors, party{id: b.MemberID, pending: b.NetBalance})
		}
	}

	byPendingDesc := func(a, b party) int { return b.pending.Cmp(a.pending) }
	slices.SortStableFunc(debtors, byPendingDesc)
	slices.SortStableFunc(creditors, byPendingDesc)

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := decimal.Min(debtor.pending, creditor.pending)
		transfers = append(transfers, Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		debtor.pending = debtor.pending.Sub(amount)
		creditor.pending = creditor.pending.Sub(amount)

		if debtor.pending.LessThan(eps) {
			i++
		}
		if creditor.pending.LessThan(eps) {
			j++
		}
	}

	return transfers
}

// ApplyTransfers returns a copy of balances with every transfer applied:
// the sender's balance rises by the amount and the receiver's falls.
// Transfers naming ids absent from balances are ignored.
func ApplyTransfers(balances map[string]decimal.Decimal, transfers []Transfer) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, t := range transfers {
		if b, ok := out[t.From]; ok {
			out[t.From] = b.Add(t.Amount)
		}
		if b, ok := out[t.To]; ok {
			out[t.To] = b.Sub(t.Amount)
		}
	}
	return out
}
