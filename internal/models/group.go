package models

import "slices"

// Group represents a set of members sharing one expense ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Apartment", "Ski Trip").
	Name string

	// Members is the roster in join order.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last rename or roster change.
	UpdatedAt int64
}

// Member is one person in a group's roster.
type Member struct {
	// ID is unique within the group (UUID format).
	ID string

	// GroupID is the owning group.
	GroupID string

	// Name is the display name.
	Name string

	// UserID links the member to a registered account. Empty for people
	// tracked by name only.
	UserID string

	// JoinedAt is the Unix timestamp when the member was added.
	JoinedAt int64
}

// MemberByID returns the member with the given id.
func (g *Group) MemberByID(id string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// MemberForUser returns the member linked to userID.
func (g *Group) MemberForUser(userID string) (Member, bool) {
	if userID == "" {
		return Member{}, false
	}
	for _, m := range g.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

// HasUser reports whether userID is linked to a member of the group.
func (g *Group) HasUser(userID string) bool {
	_, ok := g.MemberForUser(userID)
	return ok
}

// MemberIDs returns the roster ids in order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// MissingMembers returns the ids that are not on the roster, each once, in input order.
func (g *Group) MissingMembers(ids ...string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := g.MemberByID(id); ok || slices.Contains(missing, id) {
			continue
		}
		missing = append(missing, id)
	}
	return missing
}
