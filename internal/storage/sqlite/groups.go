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

// CreateGroup persists a new group and its initial roster.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = group.CreatedAt
	}
	if strings.TrimSpace(group.Name) == "" {
		group.Name = generateName(group.Members)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, 0, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group with its members in join order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = loadMembers(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsForUser returns the groups userID belongs to, most recently updated first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT g.id, g.name, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.updated_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, g := range groups {
		g.Members, err = loadMembers(ctx, s.db, g.ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup renames a group.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, updated_at = ? WHERE id = ?",
		group.Name, group.UpdatedAt, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return checkAffected(res, "group", group.ID)
}

// DeleteGroup removes a group. Members, expenses and settlements cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return checkAffected(res, "group", groupID)
}

// AddMembers appends members to the end of a group's roster.
func (s *SQLiteStore) AddMembers(ctx context.Context, groupID string, members []models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM group_members WHERE group_id = ?",
		groupID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read roster size: %w", err)
	}

	if err := insertMembers(ctx, tx, groupID, next, members); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveMember deletes a member from the roster.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND id = ?",
		groupID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if err := checkAffected(res, "member", memberID); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, start int, members []models.Member) error {
	now := time.Now().Unix()
	for i := range members {
		m := &members[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.JoinedAt == 0 {
			m.JoinedAt = now
		}
		m.GroupID = groupID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (id, group_id, name, user_id, joined_at, position) VALUES (?, ?, ?, ?, ?, ?)",
			m.ID, groupID, m.Name, nullString(m.UserID), m.JoinedAt, start+i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

func touchGroup(ctx context.Context, tx *sql.Tx, groupID string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group timestamp: %w", err)
	}
	return checkAffected(res, "group", groupID)
}

func loadMembers(ctx context.Context, q querier, groupID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, group_id, name, user_id, joined_at FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		var userID sql.NullString
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &userID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.UserID = userID.String
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// generateName builds a default group name from the initial roster.
func generateName(members []models.Member) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	switch {
	case len(names) == 0:
		return fmt.Sprintf("Group - %s", time.Now().Format("Jan 2, 2006"))
	case len(names) <= 3:
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	default:
		return fmt.Sprintf("Split with %s and %d others", strings.Join(names[:2], ", "), len(names)-2)
	}
}
