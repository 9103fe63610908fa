package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

var errAlreadyCompleted = errors.New("settlement is already completed")

// SettlementService implements the Connect SettlementService.
// Completed settlements count as payments in the group's balances.
type SettlementService struct {
	store     storage.Store
	publisher events.Publisher
	planner   calculator.Planner
}

// NewSettlementService creates a new SettlementService. planner drives the
// suggested transfers in ListSuggestedSettlements.
func NewSettlementService(store storage.Store, publisher events.Publisher, planner calculator.Planner) *SettlementService {
	return &SettlementService{store: store, publisher: publisher, planner: planner}
}

// RecordSettlement records a payment between two members.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.FromMemberID,
		"to", req.Msg.ToMemberID,
		"amount", req.Msg.Amount,
	)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, invalidArgument(err)
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: req.Msg.FromMemberID,
		ToMemberID:   req.Msg.ToMemberID,
		Amount:       amount,
		Status:       models.SettlementPending,
		CreatedBy:    middleware.GetUserID(ctx),
		Note:         strings.TrimSpace(req.Msg.Note),
	}
	if err := models.ValidateSettlement(settlement, group); err != nil {
		return nil, invalidArgument(err)
	}
	if req.Msg.Completed {
		settlement.Status = models.SettlementCompleted
		settlement.CompletedAt = time.Now().Unix()
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, storageError("CreateSettlement", err)
	}

	out := toAPISettlement(settlement)
	publishEvent(ctx, s.publisher, events.New(events.SettlementRecorded, group.ID, settlement.ID, settlement.CreatedBy, out))
	if settlement.Status == models.SettlementCompleted {
		publishEvent(ctx, s.publisher, events.New(events.SettlementCompleted, group.ID, settlement.ID, settlement.CreatedBy, out))
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "status", settlement.Status)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: out}), nil
}

// CompleteSettlement marks a pending settlement as paid.
func (s *SettlementService) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	slog.Info("CompleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	settlement, group, err := s.loadSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, err
	}
	if settlement.Status == models.SettlementCompleted {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errAlreadyCompleted)
	}
	if err := models.ValidateSettlement(settlement, group); err != nil {
		slog.Warn("CompleteSettlement refused", "settlement_id", settlement.ID, "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	completedAt := time.Now().Unix()
	if err := s.store.CompleteSettlement(ctx, settlement.ID, completedAt); err != nil {
		return nil, storageError("CompleteSettlement", err)
	}
	settlement.Status = models.SettlementCompleted
	settlement.CompletedAt = completedAt

	out := toAPISettlement(settlement)
	publishEvent(ctx, s.publisher, events.New(events.SettlementCompleted, settlement.GroupID, settlement.ID, middleware.GetUserID(ctx), out))

	slog.Info("Settlement completed", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.CompleteSettlementResponse{Settlement: out}), nil
}

// ListSettlements lists a group's recorded payments, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, storageError("ListSettlementsByGroup", err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a recorded payment.
func (s *SettlementService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	settlement, group, err := s.loadSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, err
	}
	// Pending records never reached the ledger and can always go.
	if settlement.Status == models.SettlementCompleted {
		if err := requireRoster(group, settlement.FromMemberID, settlement.ToMemberID); err != nil {
			return nil, err
		}
	}
	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		return nil, storageError("DeleteSettlement", err)
	}

	slog.Info("Settlement deleted", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// ListSuggestedSettlements plans every group the caller belongs to and returns
// the transfers their member pays or receives, grouped by group.
func (s *SettlementService) ListSuggestedSettlements(ctx context.Context, req *connect.Request[api.ListSuggestedSettlementsRequest]) (*connect.Response[api.ListSuggestedSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListSuggestedSettlements request received", "user_id", userID)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, storageError("ListGroupsForUser", err)
	}

	var (
		out       []*api.SuggestedSettlement
		toPay     = decimal.Zero
		toReceive = decimal.Zero
	)
	for _, group := range groups {
		me, ok := group.MemberForUser(userID)
		if !ok {
			continue
		}
		l, err := loadLedger(ctx, s.store, group)
		if err != nil {
			return nil, err
		}
		balances := calculator.ComputeBalances(l.members, l.entries)
		names := memberNames(balances)

		for _, t := range s.planner.Plan(balances) {
			switch me.ID {
			case t.From:
				toPay = toPay.Add(t.Amount)
			case t.To:
				toReceive = toReceive.Add(t.Amount)
			default:
				continue
			}
			out = append(out, &api.SuggestedSettlement{
				GroupID:   group.ID,
				GroupName: group.Name,
				Transfer:  toAPITransfer(t, names),
			})
		}
	}

	slog.Info("ListSuggestedSettlements successful", "user_id", userID, "groups", len(groups), "count", len(out))
	return connect.NewResponse(&api.ListSuggestedSettlementsResponse{
		Settlements: out,
		TotalToPay:  money.Format(toPay),
		TotalToGet:  money.Format(toReceive),
	}), nil
}

// loadSettlement fetches a settlement and checks the caller belongs to its group.
func (s *SettlementService) loadSettlement(ctx context.Context, settlementID string) (*models.Settlement, *models.Group, error) {
	if settlementID == "" {
		return nil, nil, invalidArgument(fmt.Errorf("settlement_id required"))
	}
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, nil, storageError("GetSettlement", err)
	}
	group, err := loadGroupForCaller(ctx, s.store, settlement.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return settlement, group, nil
}
