package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

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

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, publisher events.Publisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// PreviewSplit computes shares for an amount without recording anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	slog.Info("PreviewSplit request received", "group_id", req.Msg.GroupID, "amount", req.Msg.Amount)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, invalidArgument(err)
	}
	_, shares, err := buildShares(group, amount, req.Msg.Split)
	if err != nil {
		return nil, invalidArgument(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{Shares: toAPIShares(shares)}), nil
}

// CreateExpense records an expense in a group's ledger.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received", "group_id", req.Msg.GroupID)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{GroupID: group.ID, CreatedBy: middleware.GetUserID(ctx)}
	if err := applyExpenseInput(expense, req.Msg.Expense, group); err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, invalidArgument(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, storageError("CreateExpense", err)
	}

	out := toAPIExpense(expense)
	s.publish(ctx, events.New(events.ExpenseCreated, group.ID, expense.ID, expense.CreatedBy, out))

	slog.Info("Expense created", "group_id", group.ID, "expense_id", expense.ID, "amount", out.Amount)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: out}), nil
}

// GetExpense retrieves one expense.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, _, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces the editable fields of an expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, group, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	if err := requireRoster(group, expense.MemberIDs()...); err != nil {
		return nil, err
	}
	if err := applyExpenseInput(expense, req.Msg.Expense, group); err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", expense.ID, "error", err)
		return nil, invalidArgument(err)
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, storageError("UpdateExpense", err)
	}

	out := toAPIExpense(expense)
	s.publish(ctx, events.New(events.ExpenseUpdated, group.ID, expense.ID, middleware.GetUserID(ctx), out))

	slog.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: out}), nil
}

// DeleteExpense removes an expense from the ledger.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, group, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	if err := requireRoster(group, expense.MemberIDs()...); err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		return nil, storageError("DeleteExpense", err)
	}

	s.publish(ctx, events.New(events.ExpenseDeleted, group.ID, expense.ID, middleware.GetUserID(ctx), nil))

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's ledger, optionally filtered by date and category.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"category", req.Msg.Category,
	)

	group, err := loadGroupForCaller(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	from, to, err := parseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, invalidArgument(err)
	}

	expenses, err := s.store.ListExpenses(ctx, group.ID, models.ExpenseFilter{
		From:     from,
		To:       to,
		Category: strings.TrimSpace(req.Msg.Category),
	})
	if err != nil {
		return nil, storageError("ListExpenses", err)
	}

	out := make([]*api.Expense, len(expenses))
	total := decimal.Zero
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
		total = total.Add(e.Amount)
	}

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses: out,
		Total:    money.Format(total),
	}), nil
}

// loadExpense fetches an expense and checks the caller belongs to its group.
func (s *ExpenseService) loadExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Group, error) {
	if expenseID == "" {
		return nil, nil, invalidArgument(fmt.Errorf("expense_id required"))
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, storageError("GetExpense", err)
	}
	group, err := loadGroupForCaller(ctx, s.store, expense.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return expense, group, nil
}

func (s *ExpenseService) publish(ctx context.Context, e events.Event) {
	publishEvent(ctx, s.publisher, e)
}

// publishEvent sends e. A broker failure never fails the RPC that caused it.
func publishEvent(ctx context.Context, p events.Publisher, e events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish event", "type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}

// applyExpenseInput copies in onto e, computes its shares and validates the result.
func applyExpenseInput(e *models.Expense, in *api.ExpenseInput, group *models.Group) error {
	if in == nil {
		return fmt.Errorf("expense required")
	}
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = today()
	}
	splitType, shares, err := buildShares(group, amount, in.Split)
	if err != nil {
		return err
	}

	e.Description = strings.TrimSpace(in.Description)
	e.Amount = amount
	e.PayerID = in.PayerID
	e.Date = date
	e.Category = strings.TrimSpace(in.Category)
	e.Note = strings.TrimSpace(in.Note)
	e.SplitType = splitType
	e.Shares = shares

	return models.ValidateExpense(e, group)
}

// buildShares divides amount according to split. A missing split divides
// equally between the whole roster.
func buildShares(group *models.Group, amount decimal.Decimal, split *api.Split) (models.SplitType, []models.Share, error) {
	if split == nil {
		split = &api.Split{}
	}
	splitType := models.SplitType(strings.ToLower(strings.TrimSpace(split.Type)))
	if splitType == "" {
		splitType = models.SplitEqual
	}

	var (
		shares []calculator.Share
		err    error
	)
	switch splitType {
	case models.SplitEqual:
		ids := split.MemberIDs
		if len(ids) == 0 {
			ids = group.MemberIDs()
		}
		shares, err = calculator.SplitEqual(amount, ids)

	case models.SplitWeighted:
		weights := make([]calculator.Weight, 0, len(split.Weights))
		for _, w := range split.Weights {
			if w == nil {
				continue
			}
			value, perr := decimal.NewFromString(strings.TrimSpace(w.Weight))
			if perr != nil {
				return "", nil, fmt.Errorf("weight for %q: %w", w.MemberID, calculator.ErrInvalidWeights)
			}
			weights = append(weights, calculator.Weight{MemberID: w.MemberID, Weight: value})
		}
		shares, err = calculator.SplitWeighted(amount, weights)

	case models.SplitExact:
		given := make([]calculator.Share, 0, len(split.Shares))
		for _, sh := range split.Shares {
			if sh == nil {
				continue
			}
			value, perr := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(sh.Amount), ",", "."))
			if perr != nil {
				return "", nil, fmt.Errorf("share for %q: %w", sh.MemberID, money.ErrInvalidAmount)
			}
			given = append(given, calculator.Share{MemberID: sh.MemberID, Amount: value})
		}
		shares, err = calculator.SplitExact(amount, given)

	default:
		return "", nil, fmt.Errorf("%w: %q", models.ErrInvalidSplitType, split.Type)
	}
	if err != nil {
		return "", nil, err
	}

	out := make([]models.Share, len(shares))
	for i, sh := range shares {
		if _, ok := group.MemberByID(sh.MemberID); !ok {
			return "", nil, fmt.Errorf("member %q: %w", sh.MemberID, models.ErrUnknownMember)
		}
		out[i] = models.Share{MemberID: sh.MemberID, Amount: sh.Amount}
	}
	return splitType, out, nil
}
