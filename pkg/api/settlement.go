package api

// Settlement is a recorded payment between two members.
type Settlement struct {
	ID           string `json:"id"`
	GroupID      string `json:"group_id"`
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
	Note         string `json:"note,omitempty"`
	CreatedBy    string `json:"created_by"`
	CreatedAt    int64  `json:"created_at"`
	CompletedAt  int64  `json:"completed_at,omitempty"`
}

// RecordSettlementRequest records a payment. Completed records it as already paid.
type RecordSettlementRequest struct {
	GroupID      string `json:"group_id"`
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Note         string `json:"note,omitempty"`
	Completed    bool   `json:"completed,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type CompleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type CompleteSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

// SuggestedSettlement is a suggested transfer in one of the caller's groups.
type SuggestedSettlement struct {
	GroupID   string    `json:"group_id"`
	GroupName string    `json:"group_name"`
	Transfer  *Transfer `json:"transfer"`
}

// ListSuggestedSettlementsRequest lists the transfers the caller pays or
// receives across every group they belong to.
type ListSuggestedSettlementsRequest struct{}

type ListSuggestedSettlementsResponse struct {
	Settlements []*SuggestedSettlement `json:"settlements"`
	TotalToPay  string                 `json:"total_to_pay"`
	TotalToGet  string                 `json:"total_to_get"`
}
