package api

type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   string `json:"user_id,omitempty"`
	JoinedAt int64  `json:"joined_at"`
}

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []*Member `json:"members"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
}

// NewMember adds a person to a roster. When Email names a registered user the
// member is linked to that account and Name defaults to its display name.
type NewMember struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type CreateGroupRequest struct {
	Name    string       `json:"name"`
	Members []*NewMember `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddMembersRequest struct {
	GroupID string       `json:"group_id"`
	Members []*NewMember `json:"members"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

type MemberBalance struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	NetBalance string `json:"net_balance"`
	TotalPaid  string `json:"total_paid"`
	TotalShare string `json:"total_share"`
}

// Transfer is a suggested payment that moves the group toward zero balances.
type Transfer struct {
	FromMemberID string `json:"from_member_id"`
	FromName     string `json:"from_name"`
	ToMemberID   string `json:"to_member_id"`
	ToName       string `json:"to_name"`
	Amount       string `json:"amount"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Balances    []*MemberBalance `json:"balances"`
	Settlements []*Transfer      `json:"settlements"`
	TotalSpent  string           `json:"total_spent"`
}

type HistoryEntry struct {
	ExpenseID   string `json:"expense_id"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Running     string `json:"running"`
}

type GetMemberHistoryRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

type GetMemberHistoryResponse struct {
	Entries []*HistoryEntry `json:"entries"`
	Balance string          `json:"balance"`
}

type DaySpending struct {
	Day   string `json:"day"`
	Total string `json:"total"`
	Share string `json:"share"`
}

// GetSpendingRequest asks for daily group spending. From and To are optional
// inclusive dates; MemberID is optional and fills in Share.
type GetSpendingRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

type GetSpendingResponse struct {
	Days  []*DaySpending `json:"days"`
	Total string         `json:"total"`
	Share string         `json:"share"`
}
