package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = &api.Member{
			ID:       m.ID,
			Name:     m.Name,
			UserID:   m.UserID,
			JoinedAt: m.JoinedAt,
		}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func toAPIShares(shares []models.Share) []*api.Share {
	out := make([]*api.Share, len(shares))
	for i, s := range shares {
		out[i] = &api.Share{MemberID: s.MemberID, Amount: money.Format(s.Amount)}
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      money.Format(e.Amount),
		PayerID:     e.PayerID,
		Date:        e.Date.UTC().Format(api.DateLayout),
		Category:    e.Category,
		Note:        e.Note,
		SplitType:   string(e.SplitType),
		Shares:      toAPIShares(e.Shares),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromMemberID: s.FromMemberID,
		ToMemberID:   s.ToMemberID,
		Amount:       money.Format(s.Amount),
		Status:       string(s.Status),
		Note:         s.Note,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
		CompletedAt:  s.CompletedAt,
	}
}

// engineMembers converts a roster to calculator input.
func engineMembers(g *models.Group) []calculator.Member {
	members := make([]calculator.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = calculator.Member{ID: m.ID, Name: m.Name}
	}
	return members
}

// engineExpense converts a stored expense to calculator input.
func engineExpense(e *models.Expense) calculator.Expense {
	shares := make([]calculator.Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = calculator.Share{MemberID: s.MemberID, Amount: s.Amount}
	}
	return calculator.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PayerID:     e.PayerID,
		Date:        e.Date,
		Shares:      shares,
	}
}

// parseDate parses an optional YYYY-MM-DD date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(api.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// parseRange parses an optional inclusive date range. The upper bound is
// moved to the last second of its day.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.IsZero() {
		end = end.Add(24*time.Hour - time.Second)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("date range ends before it starts")
	}
	return start, end, nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// toAPITransfer renders t using names to label both members.
func toAPITransfer(t calculator.Transfer, names map[string]string) *api.Transfer {
	return &api.Transfer{
		FromMemberID: t.From,
		FromName:     names[t.From],
		ToMemberID:   t.To,
		ToName:       names[t.To],
		Amount:       money.Format(t.Amount),
	}
}

// memberNames maps member ids to display names.
func memberNames(balances []calculator.MemberBalance) map[string]string {
	names := make(map[string]string, len(balances))
	for _, b := range balances {
		names[b.MemberID] = b.Name
	}
	return names
}
