package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

var (
	errUnsettledMember = errors.New("member still has an outstanding balance")
	errPendingPayment  = errors.New("member has a pending settlement")
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store   storage.Store
	planner calculator.Planner
	metrics *LedgerMetrics
}

// NewGroupService creates a new GroupService. metrics may be nil.
func NewGroupService(store storage.Store, planner calculator.Planner, metrics *LedgerMetrics) *GroupService {
	if planner.Epsilon.IsZero() {
		planner.Epsilon = money.Epsilon
	}
	return &GroupService{store: store, planner: planner, metrics: metrics}
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	creator, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storageError("GetUserByID", err)
	}
	if creator == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("unknown user"))
	}

	members := []models.Member{{Name: creator.DisplayName, UserID: creator.ID}}
	added, err := s.resolveMembers(ctx, req.Msg.Members, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range added {
		if m.UserID == creator.ID {
			continue
		}
		members = append(members, m)
	}

	group := &models.Group{
		Name:    strings.TrimSpace(req.Msg.Name),
		Members: members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, storageError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups lists the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, storageError("ListGroupsForUser", err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument(fmt.Errorf("name can't be empty"))
	}

	group.Name = name
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, storageError("UpdateGroup", err)
	}

	slog.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group and its whole ledger.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, storageError("DeleteGroup", err)
	}

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMembers appends people to a group's roster.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.Info("AddMembers request received", "group_id", req.Msg.GroupID, "members_count", len(req.Msg.Members))

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.Members) == 0 {
		return nil, invalidArgument(fmt.Errorf("at least one member required"))
	}

	members, err := s.resolveMembers(ctx, req.Msg.Members, group)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddMembers(ctx, group.ID, members); err != nil {
		return nil, storageError("AddMembers", err)
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, storageError("GetGroup", err)
	}

	slog.Info("Members added", "group_id", group.ID, "count", len(members))
	return connect.NewResponse(&api.AddMembersResponse{Group: toAPIGroup(updated)}), nil
}

// RemoveMember takes a member off the roster. Only members whose balance is
// settled and who have no pending settlements can be removed, so the remaining
// balances still sum to zero.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if _, ok := group.MemberByID(req.Msg.MemberID); !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("member %s: %w", req.Msg.MemberID, storage.ErrNotFound))
	}

	l, err := loadLedger(ctx, s.store, group)
	if err != nil {
		return nil, err
	}
	balance := calculator.BalanceMap(calculator.ComputeBalances(l.members, l.entries))[req.Msg.MemberID]
	if !money.IsSettled(balance, s.planner.Epsilon) {
		slog.Warn("RemoveMember refused", "group_id", group.ID, "member_id", req.Msg.MemberID, "balance", balance.String())
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("%w (%s)", errUnsettledMember, money.Format(balance)))
	}
	for _, st := range l.settlements {
		if st.Status == models.SettlementPending && st.Involves(req.Msg.MemberID) {
			slog.Warn("RemoveMember refused", "group_id", group.ID, "member_id", req.Msg.MemberID, "settlement_id", st.ID)
			return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%w: %s", errPendingPayment, st.ID))
		}
	}

	if err := s.store.RemoveMember(ctx, group.ID, req.Msg.MemberID); err != nil {
		return nil, storageError("RemoveMember", err)
	}
	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, storageError("GetGroup", err)
	}

	slog.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.MemberID)
	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(updated)}), nil
}

// GetGroupBalances computes every member's balance and a settlement plan.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	l, err := loadLedger(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	balances := calculator.ComputeBalances(l.members, l.entries)
	transfers := s.planner.Plan(balances)
	s.metrics.observe(len(transfers))

	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &api.MemberBalance{
			MemberID:   b.MemberID,
			Name:       b.Name,
			NetBalance: money.Format(b.NetBalance),
			TotalPaid:  money.Format(b.TotalPaid),
			TotalShare: money.Format(b.TotalShare),
		}
	}

	names := memberNames(balances)
	plan := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		plan[i] = toAPITransfer(t, names)
	}

	total := decimal.Zero
	for _, e := range l.expenses {
		total = total.Add(e.Amount)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"expenses", len(l.expenses),
		"transfers", len(transfers),
	)
	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:    out,
		Settlements: plan,
		TotalSpent:  money.Format(total),
	}), nil
}

// GetMemberHistory lists the changes to one member's balance over time.
func (s *GroupService) GetMemberHistory(ctx context.Context, req *connect.Request[api.GetMemberHistoryRequest]) (*connect.Response[api.GetMemberHistoryResponse], error) {
	slog.Info("GetMemberHistory request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if _, ok := group.MemberByID(req.Msg.MemberID); !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("member %s: %w", req.Msg.MemberID, storage.ErrNotFound))
	}
	l, err := loadLedger(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	history := calculator.MemberHistory(req.Msg.MemberID, l.entries)
	entries := make([]*api.HistoryEntry, len(history))
	balance := decimal.Zero
	for i, h := range history {
		entries[i] = &api.HistoryEntry{
			ExpenseID:   h.ExpenseID,
			Description: h.Description,
			Date:        h.Date.UTC().Format(api.DateLayout),
			Kind:        string(h.Kind),
			Amount:      money.Format(h.Amount),
			Running:     money.Format(h.Running),
		}
		balance = h.Running
	}

	return connect.NewResponse(&api.GetMemberHistoryResponse{
		Entries: entries,
		Balance: money.Format(balance),
	}), nil
}

// GetSpending totals group spending per day, optionally with one member's share.
func (s *GroupService) GetSpending(ctx context.Context, req *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error) {
	slog.Info("GetSpending request received",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.MemberID,
		"from", req.Msg.From,
		"to", req.Msg.To,
	)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if req.Msg.MemberID != "" {
		if _, ok := group.MemberByID(req.Msg.MemberID); !ok {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("member %s: %w", req.Msg.MemberID, storage.ErrNotFound))
		}
	}
	from, to, err := parseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, invalidArgument(err)
	}
	l, err := loadLedger(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	days := calculator.SpendingByDay(l.expenseEntries(), req.Msg.MemberID, from, to)
	out := make([]*api.DaySpending, len(days))
	total, share := decimal.Zero, decimal.Zero
	for i, d := range days {
		out[i] = &api.DaySpending{
			Day:   d.Day,
			Total: money.Format(d.Total),
			Share: money.Format(d.Share),
		}
		total = total.Add(d.Total)
		share = share.Add(d.Share)
	}

	return connect.NewResponse(&api.GetSpendingResponse{
		Days:  out,
		Total: money.Format(total),
		Share: money.Format(share),
	}), nil
}

// resolveMembers turns requested members into roster entries. Members given
// by email are linked to that account. Linking a user twice is rejected.
func (s *GroupService) resolveMembers(ctx context.Context, requested []*api.NewMember, group *models.Group) ([]models.Member, error) {
	linked := make(map[string]bool)
	if group != nil {
		for _, m := range group.Members {
			if m.UserID != "" {
				linked[m.UserID] = true
			}
		}
	}

	members := make([]models.Member, 0, len(requested))
	for _, nm := range requested {
		if nm == nil {
			continue
		}
		name := strings.TrimSpace(nm.Name)
		email := strings.TrimSpace(nm.Email)

		if email == "" {
			if name == "" {
				return nil, invalidArgument(fmt.Errorf("member needs a name or an email"))
			}
			members = append(members, models.Member{Name: name})
			continue
		}

		user, err := s.store.GetUserByEmail(ctx, auth.NormalizeEmail(email))
		if err != nil {
			return nil, storageError("GetUserByEmail", err)
		}
		if user == nil {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no user registered with email %s", email))
		}
		if linked[user.ID] {
			if group == nil {
				continue
			}
			return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("%s is already a member", email))
		}
		linked[user.ID] = true
		if name == "" {
			name = user.DisplayName
		}
		members = append(members, models.Member{Name: name, UserID: user.ID})
	}
	return members, nil
}
