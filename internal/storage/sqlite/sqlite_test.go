package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != alice.ID {
			t.Errorf("Expected user %s, got %+v", alice.ID, got)
		}
	})

	t.Run("missing user returns nil", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil user, got %+v", got)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other Alice", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email")
		}
	})

	t.Run("GetUsersByIDs skips unknown ids", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "missing"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		bob.DisplayName = "Robert"
		bob.AvatarURL = "https://example.com/bob.png"
		if err := store.UpdateUser(ctx, bob); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, bob.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.DisplayName != "Robert" || got.AvatarURL != bob.AvatarURL {
			t.Errorf("Profile not updated: %+v", got)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice@example.com", "Alice")

	group := &models.Group{
		Name: "Apartment",
		Members: []models.Member{
			{Name: "Alice", UserID: alice.ID},
			{Name: "Bob"},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateGroup assigns ids", func(t *testing.T) {
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		for _, m := range group.Members {
			if m.ID == "" || m.GroupID != group.ID {
				t.Errorf("Member not initialised: %+v", m)
			}
		}
	})

	t.Run("GetGroup keeps roster order", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 || got.Members[0].Name != "Alice" || got.Members[1].Name != "Bob" {
			t.Errorf("Unexpected roster: %+v", got.Members)
		}
		if got.Members[0].UserID != alice.ID || got.Members[1].UserID != "" {
			t.Errorf("Unexpected user links: %+v", got.Members)
		}
	})

	t.Run("AddMembers appends", func(t *testing.T) {
		err := store.AddMembers(ctx, group.ID, []models.Member{{Name: "Charlie"}, {Name: "Diana"}})
		if err != nil {
			t.Fatalf("AddMembers failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		names := make([]string, len(got.Members))
		for i, m := range got.Members {
			names[i] = m.Name
		}
		if strings.Join(names, ",") != "Alice,Bob,Charlie,Diana" {
			t.Errorf("Unexpected roster order: %v", names)
		}
	})

	t.Run("RemoveMember", func(t *testing.T) {
		got, _ := store.GetGroup(ctx, group.ID)
		diana := got.Members[3]
		if err := store.RemoveMember(ctx, group.ID, diana.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		err := store.RemoveMember(ctx, group.ID, diana.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListGroupsForUser", func(t *testing.T) {
		other := &models.Group{Name: "Trip", Members: []models.Member{{Name: "Zed"}}}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		groups, err := store.ListGroupsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("Expected only the apartment group, got %d groups", len(groups))
		}
	})

	t.Run("UpdateGroup renames", func(t *testing.T) {
		group.Name = "Flat"
		if err := store.UpdateGroup(ctx, group); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if got.Name != "Flat" {
			t.Errorf("Name = %q, want Flat", got.Name)
		}
	})

	t.Run("DeleteGroup", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		_, err := store.GetGroup(ctx, group.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []models.Member{{Name: "Alice"}, {Name: "Bob"}}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	alice, bob := group.Members[0].ID, group.Members[1].ID

	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	newExpense := func(desc, amount, category string, date time.Time) *models.Expense {
		half := dec(amount).Div(decimal.NewFromInt(2))
		return &models.Expense{
			GroupID:     group.ID,
			Description: desc,
			Amount:      dec(amount),
			PayerID:     alice,
			Date:        date,
			Category:    category,
			SplitType:   models.SplitEqual,
			Shares: []models.Share{
				{MemberID: bob, Amount: half},
				{MemberID: alice, Amount: half},
			},
			CreatedBy: "tester",
		}
	}

	hotel := newExpense("Hotel", "300.50", "Lodging", day(3))
	dinner := newExpense("Dinner", "80", "Food", day(1))
	lunch := newExpense("Lunch", "20.20", "food", day(2))
	for _, e := range []*models.Expense{hotel, dinner, lunch} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	t.Run("GetExpense preserves amounts and share order", func(t *testing.T) {
		got, err := store.GetExpense(ctx, hotel.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(dec("300.50")) {
			t.Errorf("Amount = %s, want 300.50", got.Amount)
		}
		if len(got.Shares) != 2 || got.Shares[0].MemberID != bob {
			t.Errorf("Unexpected shares: %+v", got.Shares)
		}
		if !got.Shares[0].Amount.Equal(dec("150.25")) {
			t.Errorf("Share = %s, want 150.25", got.Shares[0].Amount)
		}
		if !got.Date.Equal(day(3)) {
			t.Errorf("Date = %v, want %v", got.Date, day(3))
		}
	})

	t.Run("ListExpenses orders by date", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, group.ID, models.ExpenseFilter{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Expected 3 expenses, got %d", len(got))
		}
		want := []string{"Dinner", "Lunch", "Hotel"}
		for i, e := range got {
			if e.Description != want[i] {
				t.Errorf("expenses[%d] = %s, want %s", i, e.Description, want[i])
			}
			if len(e.Shares) != 2 {
				t.Errorf("%s has %d shares, want 2", e.Description, len(e.Shares))
			}
		}
	})

	t.Run("ListExpenses filters", func(t *testing.T) {
		tests := []struct {
			name   string
			filter models.ExpenseFilter
			want   int
		}{
			{"category ignores case", models.ExpenseFilter{Category: "FOOD"}, 2},
			{"from bound inclusive", models.ExpenseFilter{From: day(2)}, 2},
			{"to bound inclusive", models.ExpenseFilter{To: day(2)}, 2},
			{"range and category", models.ExpenseFilter{From: day(2), To: day(3), Category: "lodging"}, 1},
			{"empty range", models.ExpenseFilter{From: day(10)}, 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := store.ListExpenses(ctx, group.ID, tt.filter)
				if err != nil {
					t.Fatalf("ListExpenses failed: %v", err)
				}
				if len(got) != tt.want {
					t.Errorf("got %d expenses, want %d", len(got), tt.want)
				}
			})
		}
	})

	t.Run("UpdateExpense replaces shares", func(t *testing.T) {
		dinner.Amount = dec("90")
		dinner.SplitType = models.SplitExact
		dinner.Shares = []models.Share{{MemberID: bob, Amount: dec("90")}}
		if err := store.UpdateExpense(ctx, dinner); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		got, _ := store.GetExpense(ctx, dinner.ID)
		if len(got.Shares) != 1 || !got.Amount.Equal(dec("90")) || got.SplitType != models.SplitExact {
			t.Errorf("Update not applied: %+v", got)
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, lunch.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, lunch.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteExpense(ctx, lunch.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []models.Member{{Name: "Alice"}, {Name: "Bob"}}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: group.Members[1].ID,
		ToMemberID:   group.Members[0].ID,
		Amount:       dec("42.10"),
		CreatedBy:    "tester",
	}
	if err := store.CreateSettlement(ctx, settlement); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if settlement.Status != models.SettlementPending {
		t.Errorf("Status = %s, want pending", settlement.Status)
	}

	if err := store.CompleteSettlement(ctx, settlement.ID, 1700000000); err != nil {
		t.Fatalf("CompleteSettlement failed: %v", err)
	}
	if err := store.CompleteSettlement(ctx, settlement.ID, 1700000001); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound completing twice, got %v", err)
	}

	list, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettlementsByGroup failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 settlement, got %d", len(list))
	}
	got := list[0]
	if got.Status != models.SettlementCompleted || got.CompletedAt != 1700000000 {
		t.Errorf("Unexpected settlement state: %+v", got)
	}
	if !got.Amount.Equal(dec("42.10")) {
		t.Errorf("Amount = %s, want 42.10", got.Amount)
	}

	if err := store.DeleteSettlement(ctx, settlement.ID); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	if _, err := store.GetSettlement(ctx, settlement.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGenerateName(t *testing.T) {
	members := func(names ...string) []models.Member {
		out := make([]models.Member, len(names))
		for i, n := range names {
			out[i] = models.Member{Name: n}
		}
		return out
	}

	tests := []struct {
		members      []models.Member
		wantContains string
	}{
		{nil, "Group -"},
		{members("Alice"), "Split with Alice"},
		{members("Alice", "Bob", "Charlie"), "Split with Alice, Bob, Charlie"},
		{members("Alice", "Bob", "Charlie", "Diana"), "Split with Alice, Bob and 2 others"},
	}

	for _, tt := range tests {
		t.Run(tt.wantContains, func(t *testing.T) {
			got := generateName(tt.members)
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("generateName() = %q, want to contain %q", got, tt.wantContains)
			}
		})
	}
}
