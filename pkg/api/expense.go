package api

type Share struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

type Weight struct {
	MemberID string `json:"member_id"`
	Weight   string `json:"weight"`
}

type Expense struct {
	ID          string   `json:"id"`
	GroupID     string   `json:"group_id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	PayerID     string   `json:"payer_id"`
	Date        string   `json:"date"`
	Category    string   `json:"category,omitempty"`
	Note        string   `json:"note,omitempty"`
	SplitType   string   `json:"split_type"`
	Shares      []*Share `json:"shares"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

// Split says how to divide an amount. Equal uses MemberIDs (all members when
// empty), weighted uses Weights, exact uses Shares as given.
type Split struct {
	Type      string    `json:"type"`
	MemberIDs []string  `json:"member_ids,omitempty"`
	Weights   []*Weight `json:"weights,omitempty"`
	Shares    []*Share  `json:"shares,omitempty"`
}

// ExpenseInput carries the editable fields of an expense.
type ExpenseInput struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	PayerID     string `json:"payer_id"`
	Date        string `json:"date,omitempty"`
	Category    string `json:"category,omitempty"`
	Note        string `json:"note,omitempty"`
	Split       *Split `json:"split"`
}

type PreviewSplitRequest struct {
	GroupID string `json:"group_id"`
	Amount  string `json:"amount"`
	Split   *Split `json:"split"`
}

type PreviewSplitResponse struct {
	Shares []*Share `json:"shares"`
}

type CreateExpenseRequest struct {
	GroupID string        `json:"group_id"`
	Expense *ExpenseInput `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID string        `json:"expense_id"`
	Expense   *ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// ListExpensesRequest filters a group's ledger. From and To are optional
// inclusive dates; Category matches without regard to case.
type ListExpensesRequest struct {
	GroupID  string `json:"group_id"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Category string `json:"category,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Total    string     `json:"total"`
}
