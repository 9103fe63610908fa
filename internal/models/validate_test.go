package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testGroup() *Group {
	return &Group{
		ID:   "g1",
		Name: "Apartment",
		Members: []Member{
			{ID: "alice", Name: "Alice", UserID: "u-alice"},
			{ID: "bob", Name: "Bob"},
		},
	}
}

func validExpense() *Expense {
	return &Expense{
		Description: "Rent",
		Amount:      decimal.RequireFromString("1000"),
		PayerID:     "alice",
		SplitType:   SplitEqual,
		Shares: []Share{
			{MemberID: "alice", Amount: decimal.RequireFromString("500")},
			{MemberID: "bob", Amount: decimal.RequireFromString("500")},
		},
	}
}

func TestValidateExpense(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{name: "valid", mutate: func(e *Expense) {}},
		{name: "blank description", mutate: func(e *Expense) { e.Description = "  " }, wantErr: ErrEmptyDescription},
		{name: "zero amount", mutate: func(e *Expense) { e.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(e *Expense) { e.Amount = decimal.NewFromInt(-5) }, wantErr: ErrInvalidAmount},
		{name: "sub-cent amount", mutate: func(e *Expense) { e.Amount = decimal.RequireFromString("1000.001") }, wantErr: ErrSubCentAmount},
		{name: "unknown payer", mutate: func(e *Expense) { e.PayerID = "carol" }, wantErr: ErrUnknownMember},
		{name: "unknown share member", mutate: func(e *Expense) { e.Shares[1].MemberID = "carol" }, wantErr: ErrUnknownMember},
		{name: "duplicate share member", mutate: func(e *Expense) { e.Shares[1].MemberID = "alice" }, wantErr: ErrDuplicateShare},
		{
			name: "negative share",
			mutate: func(e *Expense) {
				e.Shares[0].Amount = decimal.NewFromInt(1100)
				e.Shares[1].Amount = decimal.NewFromInt(-100)
			},
			wantErr: ErrNegativeShare,
		},
		{
			name: "sub-cent shares",
			mutate: func(e *Expense) {
				e.Shares[0].Amount = decimal.RequireFromString("500.005")
				e.Shares[1].Amount = decimal.RequireFromString("499.995")
			},
			wantErr: ErrSubCentAmount,
		},
		{
			name: "zero share",
			mutate: func(e *Expense) {
				e.Shares[0].Amount = decimal.NewFromInt(1000)
				e.Shares[1].Amount = decimal.Zero
			},
		},
		{name: "no shares", mutate: func(e *Expense) { e.Shares = nil }, wantErr: ErrNoShares},
		{name: "shares short by a cent", mutate: func(e *Expense) { e.Shares[1].Amount = decimal.RequireFromString("499.99") }, wantErr: ErrShareMismatch},
		{name: "bad split type", mutate: func(e *Expense) { e.SplitType = "percentage" }, wantErr: ErrInvalidSplitType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(e)
			err := ValidateExpense(e, testGroup())
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateSettlement(t *testing.T) {
	g := testGroup()
	ok := &Settlement{FromMemberID: "bob", ToMemberID: "alice", Amount: decimal.NewFromInt(50)}
	assert.NoError(t, ValidateSettlement(ok, g))

	self := &Settlement{FromMemberID: "bob", ToMemberID: "bob", Amount: decimal.NewFromInt(50)}
	assert.ErrorIs(t, ValidateSettlement(self, g), ErrSelfSettlement)

	unknown := &Settlement{FromMemberID: "carol", ToMemberID: "alice", Amount: decimal.NewFromInt(50)}
	assert.ErrorIs(t, ValidateSettlement(unknown, g), ErrUnknownMember)

	zero := &Settlement{FromMemberID: "bob", ToMemberID: "alice"}
	assert.ErrorIs(t, ValidateSettlement(zero, g), ErrInvalidAmount)
}

func TestGroupLookups(t *testing.T) {
	g := testGroup()

	m, ok := g.MemberForUser("u-alice")
	assert.True(t, ok)
	assert.Equal(t, "alice", m.ID)
	assert.False(t, g.HasUser(""))
	assert.False(t, g.HasUser("u-bob"))
	assert.Equal(t, []string{"alice", "bob"}, g.MemberIDs())
}
