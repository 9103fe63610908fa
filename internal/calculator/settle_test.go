package calculator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/money"
)

func balancesOf(pairs ...string) []MemberBalance {
	var out []MemberBalance
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, MemberBalance{MemberID: pairs[i], NetBalance: d(pairs[i+1])})
	}
	return out
}

func assertTransfers(t *testing.T, got []Transfer, want []Transfer) {
	t.Helper()
	require.Len(t, got, len(want), "transfers: %+v", got)
	for i := range want {
		assert.Equal(t, want[i].From, got[i].From, "transfer %d from", i)
		assert.Equal(t, want[i].To, got[i].To, "transfer %d to", i)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "transfer %d amount = %s, want %s", i, got[i].Amount, want[i].Amount)
	}
}

func TestComputeSettlements_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		members  []Member
		expenses []Expense
		want     []Transfer
	}{
		{
			name:    "two members one expense",
			members: roster("A", "B"),
			expenses: []Expense{
				expense("e1", "A", "100", share("A", "50"), share("B", "50")),
			},
			want: []Transfer{{From: "B", To: "A", Amount: d("50")}},
		},
		{
			name:    "three members largest debtor first",
			members: roster("A", "B", "C"),
			expenses: []Expense{
				expense("e1", "A", "90", share("A", "30"), share("B", "30"), share("C", "30")),
				expense("e2", "B", "30", share("A", "10"), share("B", "10"), share("C", "10")),
			},
			want: []Transfer{
				{From: "C", To: "A", Amount: d("40")},
				{From: "B", To: "A", Amount: d("10")},
			},
		},
		{
			name:    "everyone even",
			members: roster("A", "B"),
			expenses: []Expense{
				expense("e1", "A", "10", share("A", "5"), share("B", "5")),
				expense("e2", "B", "10", share("A", "5"), share("B", "5")),
			},
			want: []Transfer{},
		},
		{
			name:     "empty roster",
			members:  nil,
			expenses: nil,
			want:     []Transfer{},
		},
		{
			name:     "empty ledger",
			members:  roster("A", "B", "C"),
			expenses: nil,
			want:     []Transfer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSettlements(tt.members, tt.expenses)
			assert.NotNil(t, got)
			assertTransfers(t, got, tt.want)
		})
	}
}

func TestPlanner_NearZeroBalancesAreSettled(t *testing.T) {
	balances := balancesOf("A", "0.001", "B", "-0.001")

	assert.Empty(t, Planner{Epsilon: d("0.01")}.Plan(balances))
	assert.Empty(t, PlanSettlements(balances))
}

func TestPlanner_ResidualBelowEpsilonAdvancesBoth(t *testing.T) {
	// B owes a hair more than A is due; the residual must not produce a transfer.
	balances := balancesOf("A", "10", "B", "-10.003", "C", "0.003")

	got := PlanSettlements(balances)

	assertTransfers(t, got, []Transfer{{From: "B", To: "A", Amount: d("10")}})
}

func TestPlanner_TiesKeepRosterOrder(t *testing.T) {
	balances := balancesOf("A", "-10", "B", "-10", "C", "10", "D", "10")

	got := PlanSettlements(balances)

	assertTransfers(t, got, []Transfer{
		{From: "A", To: "C", Amount: d("10")},
		{From: "B", To: "D", Amount: d("10")},
	})
}

func TestPlanner_OneCreditorManyDebtors(t *testing.T) {
	balances := balancesOf("A", "-5", "B", "-25", "C", "45", "D", "-15")

	got := PlanSettlements(balances)

	assertTransfers(t, got, []Transfer{
		{From: "B", To: "C", Amount: d("25")},
		{From: "D", To: "C", Amount: d("15")},
		{From: "A", To: "C", Amount: d("5")},
	})
}

func TestPlanner_Idempotent(t *testing.T) {
	members := roster("A", "B", "C", "D")
	expenses := []Expense{
		expense("e1", "A", "100", share("B", "40"), share("C", "35"), share("D", "25")),
		expense("e2", "C", "60", share("A", "30"), share("D", "30")),
	}

	first := ComputeSettlements(members, expenses)
	second := ComputeSettlements(members, expenses)

	assert.Equal(t, first, second)
}

// TestPlanner_Properties checks conservation, settlement correctness and the
// absence of spurious transfers over generated ledgers.
func TestPlanner_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))

	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(8)
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("m%d", i)
		}
		members := roster(ids...)

		var expenses []Expense
		count := rng.IntN(12)
		for e := 0; e < count; e++ {
			amount := decimal.New(int64(1+rng.IntN(100000)), -2)
			participants := ids[:1+rng.IntN(n)]
			shares, err := SplitEqual(amount, participants)
			require.NoError(t, err)
			expenses = append(expenses, Expense{
				ID:      fmt.Sprintf("e%d", e),
				PayerID: ids[rng.IntN(n)],
				Amount:  amount,
				Shares:  shares,
			})
		}

		balances := ComputeBalances(members, expenses)
		total := decimal.Zero
		for _, b := range balances {
			total = total.Add(b.NetBalance)
		}
		require.True(t, total.IsZero(), "round %d: balances sum to %s", round, total)

		transfers := PlanSettlements(balances)
		assert.LessOrEqual(t, len(transfers), max(len(balances)-1, 0), "round %d", round)

		bmap := BalanceMap(balances)
		for _, tr := range transfers {
			assert.True(t, tr.Amount.IsPositive(), "round %d: non-positive transfer %+v", round, tr)
			assert.False(t, money.IsSettled(bmap[tr.From], money.Epsilon), "round %d: settled member %s pays", round, tr.From)
			assert.False(t, money.IsSettled(bmap[tr.To], money.Epsilon), "round %d: settled member %s is paid", round, tr.To)
			assert.NotEqual(t, tr.From, tr.To)
		}

		for id, b := range ApplyTransfers(bmap, transfers) {
			assert.True(t, money.IsSettled(b, money.Epsilon), "round %d: %s left with %s", round, id, b)
		}
	}
}

func TestApplyTransfers(t *testing.T) {
	balances := map[string]decimal.Decimal{"A": d("50"), "B": d("-50")}

	got := ApplyTransfers(balances, []Transfer{{From: "B", To: "A", Amount: d("50")}, {From: "X", To: "A", Amount: d("1")}})

	assert.True(t, got["A"].Equal(d("-1")))
	assert.True(t, got["B"].IsZero())
	assert.True(t, balances["B"].Equal(d("-50")), "input must not change")
}
