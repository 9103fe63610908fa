package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = `id, group_id, description, amount, payer_id, spent_at, category, note,
	split_type, created_by, created_at, updated_at`

// CreateExpense persists a new expense together with its shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = expense.CreatedAt
	if expense.Date.IsZero() {
		expense.Date = time.Unix(expense.CreatedAt, 0).UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.PayerID,
		expense.Date.Unix(), expense.Category, expense.Note, string(expense.SplitType),
		expense.CreatedBy, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense and its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount FROM expense_shares WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	expense.Shares = []models.Share{}
	for rows.Next() {
		var sh models.Share
		if err := rows.Scan(&sh.MemberID, &sh.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		expense.Shares = append(expense.Shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return expense, nil
}

// UpdateExpense rewrites an expense and replaces its share list.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, payer_id = ?, spent_at = ?, category = ?,
		 note = ?, split_type = ?, updated_at = ? WHERE id = ?`,
		expense.Description, expense.Amount, expense.PayerID, expense.Date.Unix(), expense.Category,
		expense.Note, string(expense.SplitType), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := checkAffected(res, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense. Its shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, "expense", expenseID)
}

// ListExpenses returns a group's ledger in date order, narrowed by filter.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, filter models.ExpenseFilter) ([]*models.Expense, error) {
	var (
		where = []string{"group_id = ?"}
		args  = []any{groupID}
	)
	if !filter.From.IsZero() {
		where = append(where, "spent_at >= ?")
		args = append(args, filter.From.Unix())
	}
	if !filter.To.IsZero() {
		where = append(where, "spent_at <= ?")
		args = append(args, filter.To.Unix())
	}
	if filter.Category != "" {
		where = append(where, "category = ? COLLATE NOCASE")
		args = append(args, filter.Category)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE `+strings.Join(where, " AND ")+
			` ORDER BY spent_at, created_at, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := []*models.Expense{}
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Shares = []models.Share{}
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	shareRows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.member_id, s.amount
		 FROM expense_shares s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ?
		 ORDER BY s.expense_id, s.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID string
		var sh models.Share
		if err := shareRows.Scan(&expenseID, &sh.MemberID, &sh.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Shares = append(e.Shares, sh)
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return expenses, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, sh := range expense.Shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, member_id, amount, position) VALUES (?, ?, ?, ?)",
			expense.ID, sh.MemberID, sh.Amount, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var spentAt int64
	var splitType string
	err := row.Scan(
		&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.PayerID, &spentAt, &e.Category, &e.Note,
		&splitType, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Date = time.Unix(spentAt, 0).UTC()
	e.SplitType = models.SplitType(splitType)
	return e, nil
}
