package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

var (
	ErrNoMembers      = errors.New("must split between at least one member")
	ErrInvalidWeights = errors.New("weights must be non-negative with a positive total")
	ErrNonPositive    = errors.New("amount must be positive")
)

// Weight is a member's relative weight in a weighted split.
type Weight struct {
	MemberID string
	Weight   decimal.Decimal
}

// SplitEqual divides amount equally between memberIDs to the cent.
// Leftover cents go one each to the first members, so the shares always sum
// to amount exactly.
func SplitEqual(amount decimal.Decimal, memberIDs []string) ([]Share, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositive
	}
	if len(memberIDs) == 0 {
		return nil, ErrNoMembers
	}
	weights := make([]Weight, len(memberIDs))
	for i, id := range memberIDs {
		weights[i] = Weight{MemberID: id, Weight: decimal.NewFromInt(1)}
	}
	return SplitWeighted(amount, weights)
}

// SplitWeighted divides amount in proportion to weights.
//
// Each share is first rounded down to the cent; the leftover cents are then
// handed out one at a time by largest remainder, ties going to the earlier
// member. Members with weight zero get a zero share.
func SplitWeighted(amount decimal.Decimal, weights []Weight) ([]Share, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositive
	}
	if len(weights) == 0 {
		return nil, ErrNoMembers
	}
	total := decimal.Zero
	for _, w := range weights {
		if w.Weight.IsNegative() {
			return nil, ErrInvalidWeights
		}
		total = total.Add(w.Weight)
	}
	if !total.IsPositive() {
		return nil, ErrInvalidWeights
	}

	// Work in whole cents.
	cents := amount.Shift(money.MinorUnitPlaces).Truncate(0)
	if !cents.Equal(amount.Shift(money.MinorUnitPlaces)) {
		return nil, fmt.Errorf("amount %s has sub-cent precision", amount)
	}

	type portion struct {
		index     int
		cents     decimal.Decimal
		remainder decimal.Decimal
	}
	portions := make([]portion, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		exact := cents.Mul(w.Weight).Div(total)
		floor := exact.Floor()
		portions[i] = portion{index: i, cents: floor, remainder: exact.Sub(floor)}
		allocated = allocated.Add(floor)
	}

	leftover := cents.Sub(allocated).IntPart()
	order := make([]int, len(portions))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return portions[b].remainder.Cmp(portions[a].remainder)
	})
	for k := int64(0); k < leftover; k++ {
		i := order[int(k)%len(order)]
		portions[i].cents = portions[i].cents.Add(decimal.NewFromInt(1))
	}

	shares := make([]Share, len(weights))
	for i, w := range weights {
		shares[i] = Share{
			MemberID: w.MemberID,
			Amount:   portions[i].cents.Shift(-money.MinorUnitPlaces),
		}
	}
	return shares, nil
}

// SplitExact checks caller-supplied shares against amount and returns them unchanged.
func SplitExact(amount decimal.Decimal, shares []Share) ([]Share, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositive
	}
	if len(shares) == 0 {
		return nil, ErrNoMembers
	}
	sum := decimal.Zero
	for _, s := range shares {
		if !s.Amount.Equal(s.Amount.Truncate(money.MinorUnitPlaces)) {
			return nil, fmt.Errorf("share for %q has sub-cent precision", s.MemberID)
		}
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(amount) {
		return nil, fmt.Errorf("shares sum to %s, expected %s", sum, amount)
	}
	return shares, nil
}
