// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a group, member, expense or settlement does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need.
// Balances are never stored; they are computed from the ledger on every read.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	SettlementStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs omits ids that don't exist.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	UpdateUser(ctx context.Context, user *models.User) error
}

// GroupStore persists groups and their rosters.
type GroupStore interface {
	// CreateGroup persists the group and its initial members.
	// IDs and timestamps left empty are filled in.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with its roster in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups where userID is a linked member.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup renames a group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group with its members, expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMembers appends members to the roster. IDs left empty are filled in.
	AddMembers(ctx context.Context, groupID string, members []models.Member) error

	RemoveMember(ctx context.Context, groupID, memberID string) error
}

// ExpenseStore persists a group's ledger.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces the expense fields and its share list.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns the ledger ordered by date, then creation.
	ListExpenses(ctx context.Context, groupID string, filter models.ExpenseFilter) ([]*models.Expense, error)
}

// SettlementStore persists recorded payments.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// CompleteSettlement marks a pending settlement as completed.
	CompleteSettlement(ctx context.Context, settlementID string, completedAt int64) error
	DeleteSettlement(ctx context.Context, settlementID string) error
}
