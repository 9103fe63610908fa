package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	// SettlementServiceName is the fully-qualified name of the SettlementService service.
	SettlementServiceName = "splitledger.v1.SettlementService"

	SettlementServiceRecordSettlementProcedure   = "/splitledger.v1.SettlementService/RecordSettlement"
	SettlementServiceCompleteSettlementProcedure = "/splitledger.v1.SettlementService/CompleteSettlement"
	SettlementServiceListSettlementsProcedure    = "/splitledger.v1.SettlementService/ListSettlements"
	SettlementServiceDeleteSettlementProcedure   = "/splitledger.v1.SettlementService/DeleteSettlement"

	SettlementServiceListSuggestedSettlementsProcedure = "/splitledger.v1.SettlementService/ListSuggestedSettlements"
)

// SettlementServiceHandler is implemented by the server side of SettlementService.
type SettlementServiceHandler interface {
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	CompleteSettlement(context.Context, *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	ListSuggestedSettlements(context.Context, *connect.Request[api.ListSuggestedSettlementsRequest]) (*connect.Response[api.ListSuggestedSettlementsResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	recordSettlement := connect.NewUnaryHandler(SettlementServiceRecordSettlementProcedure, svc.RecordSettlement, opts...)
	completeSettlement := connect.NewUnaryHandler(SettlementServiceCompleteSettlementProcedure, svc.CompleteSettlement, opts...)
	listSettlements := connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	deleteSettlement := connect.NewUnaryHandler(SettlementServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...)
	listSuggestedSettlements := connect.NewUnaryHandler(SettlementServiceListSuggestedSettlementsProcedure, svc.ListSuggestedSettlements, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceRecordSettlementProcedure:
			recordSettlement.ServeHTTP(w, r)
		case SettlementServiceCompleteSettlementProcedure:
			completeSettlement.ServeHTTP(w, r)
		case SettlementServiceListSettlementsProcedure:
			listSettlements.ServeHTTP(w, r)
		case SettlementServiceDeleteSettlementProcedure:
			deleteSettlement.ServeHTTP(w, r)
		case SettlementServiceListSuggestedSettlementsProcedure:
			listSuggestedSettlements.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettlementServiceClient is a client for SettlementService.
type SettlementServiceClient interface {
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	CompleteSettlement(context.Context, *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	ListSuggestedSettlements(context.Context, *connect.Request[api.ListSuggestedSettlementsRequest]) (*connect.Response[api.ListSuggestedSettlementsResponse], error)
}

// NewSettlementServiceClient returns a client for the SettlementService served at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &settlementServiceClient{
		recordSettlement:   connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+SettlementServiceRecordSettlementProcedure, opts...),
		completeSettlement: connect.NewClient[api.CompleteSettlementRequest, api.CompleteSettlementResponse](httpClient, baseURL+SettlementServiceCompleteSettlementProcedure, opts...),
		listSettlements:    connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		deleteSettlement:   connect.NewClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+SettlementServiceDeleteSettlementProcedure, opts...),

		listSuggestedSettlements: connect.NewClient[api.ListSuggestedSettlementsRequest, api.ListSuggestedSettlementsResponse](
			httpClient, baseURL+SettlementServiceListSuggestedSettlementsProcedure, opts...),
	}
}

type settlementServiceClient struct {
	recordSettlement   *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	completeSettlement *connect.Client[api.CompleteSettlementRequest, api.CompleteSettlementResponse]
	listSettlements    *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	deleteSettlement   *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]

	listSuggestedSettlements *connect.Client[api.ListSuggestedSettlementsRequest, api.ListSuggestedSettlementsResponse]
}

func (c *settlementServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	return c.completeSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSuggestedSettlements(ctx context.Context, req *connect.Request[api.ListSuggestedSettlementsRequest]) (*connect.Response[api.ListSuggestedSettlementsResponse], error) {
	return c.listSuggestedSettlements.CallUnary(ctx, req)
}
