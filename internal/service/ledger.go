package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ledger is a group's expenses plus its completed payments, ready for the engine.
type ledger struct {
	members  []calculator.Member
	expenses    []*models.Expense
	settlements []*models.Settlement
	entries     []calculator.Expense // expenses followed by completed payments
}

// loadLedger reads everything that contributes to a group's balances.
func loadLedger(ctx context.Context, store storage.Store, group *models.Group) (*ledger, error) {
	expenses, err := store.ListExpenses(ctx, group.ID, models.ExpenseFilter{})
	if err != nil {
		return nil, storageError("ListExpenses", err)
	}
	settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, storageError("ListSettlementsByGroup", err)
	}

	l := &ledger{
		members:     engineMembers(group),
		expenses:    expenses,
		settlements: settlements,
		entries:     make([]calculator.Expense, 0, len(expenses)+len(settlements)),
	}
	for _, e := range expenses {
		l.entries = append(l.entries, engineExpense(e))
	}
	for _, s := range settlements {
		if s.Status != models.SettlementCompleted {
			continue
		}
		l.entries = append(l.entries, calculator.PaymentAsExpense(
			s.ID, s.FromMemberID, s.ToMemberID, s.Amount, time.Unix(s.CompletedAt, 0).UTC(),
		))
	}

	if unknown := calculator.UnknownMembers(l.members, l.entries); len(unknown) > 0 {
		slog.Warn("Ledger references members not in roster",
			"group_id", group.ID,
			"member_ids", unknown,
		)
	}
	return l, nil
}

// expenseEntries returns only the real expenses, without payments.
func (l *ledger) expenseEntries() []calculator.Expense {
	return l.entries[:len(l.expenses)]
}

// LedgerMetrics observes engine results.
type LedgerMetrics struct {
	transfers prometheus.Histogram
	computed  prometheus.Counter
}

// NewLedgerMetrics registers the engine collectors on reg.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		transfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "settlement_transfers",
			Help:      "Number of transfers in each computed settlement plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		computed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "balance_computations_total",
			Help:      "Balance projections computed from a ledger.",
		}),
	}
	reg.MustRegister(m.transfers, m.computed)
	return m
}

func (m *LedgerMetrics) observe(transfers int) {
	if m == nil {
		return
	}
	m.computed.Inc()
	m.transfers.Observe(float64(transfers))
}
