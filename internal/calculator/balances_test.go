package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func roster(ids ...string) []Member {
	members := make([]Member, len(ids))
	for i, id := range ids {
		members[i] = Member{ID: id, Name: id}
	}
	return members
}

func expense(id, payer, amount string, shares ...Share) Expense {
	return Expense{ID: id, PayerID: payer, Amount: d(amount), Shares: shares}
}

func share(member, amount string) Share {
	return Share{MemberID: member, Amount: d(amount)}
}

func assertBalances(t *testing.T, got []MemberBalance, want map[string]string) {
	t.Helper()
	require.Len(t, got, len(want))
	for _, b := range got {
		w, ok := want[b.MemberID]
		require.True(t, ok, "unexpected member %s", b.MemberID)
		assert.True(t, b.NetBalance.Equal(d(w)), "%s balance = %s, want %s", b.MemberID, b.NetBalance, w)
	}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name     string
		members  []Member
		expenses []Expense
		want     map[string]string
	}{
		{
			name:    "two members equal split",
			members: roster("A", "B"),
			expenses: []Expense{
				expense("e1", "A", "100", share("A", "50"), share("B", "50")),
			},
			want: map[string]string{"A": "50", "B": "-50"},
		},
		{
			name:    "three members two payers",
			members: roster("A", "B", "C"),
			expenses: []Expense{
				expense("e1", "A", "90", share("A", "30"), share("B", "30"), share("C", "30")),
				expense("e2", "B", "30", share("A", "10"), share("B", "10"), share("C", "10")),
			},
			want: map[string]string{"A": "50", "B": "-10", "C": "-40"},
		},
		{
			name:     "member without activity is present",
			members:  roster("A", "B", "C"),
			expenses: []Expense{expense("e1", "A", "20", share("B", "20"))},
			want:     map[string]string{"A": "20", "B": "-20", "C": "0"},
		},
		{
			name:     "empty share list credits only the payer",
			members:  roster("A", "B"),
			expenses: []Expense{expense("e1", "A", "15")},
			want:     map[string]string{"A": "15", "B": "0"},
		},
		{
			name:    "unknown payer and share member are ignored",
			members: roster("A", "B"),
			expenses: []Expense{
				expense("e1", "Z", "40", share("A", "20"), share("B", "20")),
				expense("e2", "A", "10", share("Z", "10")),
			},
			want: map[string]string{"A": "-10", "B": "-20"},
		},
		{
			name:     "no expenses",
			members:  roster("A", "B"),
			expenses: nil,
			want:     map[string]string{"A": "0", "B": "0"},
		},
		{
			name:     "no members",
			members:  nil,
			expenses: []Expense{expense("e1", "A", "10", share("A", "10"))},
			want:     map[string]string{},
		},
		{
			name:    "decimal amounts do not drift",
			members: roster("A", "B", "C"),
			expenses: []Expense{
				expense("e1", "A", "0.10", share("B", "0.10")),
				expense("e2", "A", "0.20", share("C", "0.20")),
				expense("e3", "B", "0.30", share("A", "0.10"), share("C", "0.20")),
			},
			want: map[string]string{"A": "0.2", "B": "0.2", "C": "-0.4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalances(tt.members, tt.expenses)
			assertBalances(t, got, tt.want)
		})
	}
}

func TestComputeBalances_RosterOrderAndTotals(t *testing.T) {
	members := roster("C", "A", "B", "A")
	expenses := []Expense{
		expense("e1", "A", "60", share("A", "20"), share("B", "20"), share("C", "20")),
	}

	got := ComputeBalances(members, expenses)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{got[0].MemberID, got[1].MemberID, got[2].MemberID})
	assert.True(t, got[1].TotalPaid.Equal(d("60")))
	assert.True(t, got[1].TotalShare.Equal(d("20")))
	assert.True(t, got[1].NetBalance.Equal(d("40")))
}

func TestComputeBalances_Conservation(t *testing.T) {
	members := roster("A", "B", "C", "D")
	expenses := []Expense{
		expense("e1", "A", "100", share("A", "33.34"), share("B", "33.33"), share("C", "33.33")),
		expense("e2", "D", "12.50", share("A", "6.25"), share("D", "6.25")),
		expense("e3", "B", "7", share("C", "7")),
	}

	total := decimal.Zero
	for _, b := range ComputeBalances(members, expenses) {
		total = total.Add(b.NetBalance)
	}
	assert.True(t, total.IsZero(), "balances sum to %s", total)
}

func TestComputeBalances_DoesNotMutateInput(t *testing.T) {
	members := roster("A", "B")
	expenses := []Expense{expense("e1", "A", "10", share("B", "10"))}

	first := ComputeBalances(members, expenses)
	second := ComputeBalances(members, expenses)

	assert.Equal(t, first, second)
	assert.True(t, expenses[0].Amount.Equal(d("10")))
	assert.Len(t, expenses[0].Shares, 1)
}

func TestUnknownMembers(t *testing.T) {
	members := roster("A", "B")
	expenses := []Expense{
		expense("e1", "Z", "40", share("A", "20"), share("Y", "20")),
		expense("e2", "A", "10", share("Z", "10")),
	}

	assert.Equal(t, []string{"Z", "Y"}, UnknownMembers(members, expenses))
	assert.Empty(t, UnknownMembers(members, expenses[:0]))
}

func TestBalanceMap(t *testing.T) {
	got := BalanceMap(ComputeBalances(roster("A", "B"), []Expense{
		expense("e1", "A", "100", share("A", "50"), share("B", "50")),
	}))

	assert.True(t, got["A"].Equal(d("50")))
	assert.True(t, got["B"].Equal(d("-50")))
}

func TestPaymentAsExpense(t *testing.T) {
	members := roster("A", "B")
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	expenses := []Expense{
		expense("e1", "A", "100", share("A", "50"), share("B", "50")),
		PaymentAsExpense("p1", "B", "A", d("50"), now),
	}

	for _, b := range ComputeBalances(members, expenses) {
		assert.True(t, b.NetBalance.IsZero(), "%s balance = %s", b.MemberID, b.NetBalance)
	}
}
