package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "splitledger.v1.GroupService"

	GroupServiceCreateGroupProcedure      = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure         = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure       = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure      = "/splitledger.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure      = "/splitledger.v1.GroupService/DeleteGroup"
	GroupServiceAddMembersProcedure       = "/splitledger.v1.GroupService/AddMembers"
	GroupServiceRemoveMemberProcedure     = "/splitledger.v1.GroupService/RemoveMember"
	GroupServiceGetGroupBalancesProcedure = "/splitledger.v1.GroupService/GetGroupBalances"
	GroupServiceGetMemberHistoryProcedure = "/splitledger.v1.GroupService/GetMemberHistory"
	GroupServiceGetSpendingProcedure      = "/splitledger.v1.GroupService/GetSpending"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetMemberHistory(context.Context, *connect.Request[api.GetMemberHistoryRequest]) (*connect.Response[api.GetMemberHistoryResponse], error)
	GetSpending(context.Context, *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	createGroup := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroup := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroups := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	updateGroup := connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...)
	deleteGroup := connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...)
	addMembers := connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...)
	removeMember := connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	getGroupBalances := connect.NewUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...)
	getMemberHistory := connect.NewUnaryHandler(GroupServiceGetMemberHistoryProcedure, svc.GetMemberHistory, opts...)
	getSpending := connect.NewUnaryHandler(GroupServiceGetSpendingProcedure, svc.GetSpending, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroup.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroup.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroups.ServeHTTP(w, r)
		case GroupServiceUpdateGroupProcedure:
			updateGroup.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			deleteGroup.ServeHTTP(w, r)
		case GroupServiceAddMembersProcedure:
			addMembers.ServeHTTP(w, r)
		case GroupServiceRemoveMemberProcedure:
			removeMember.ServeHTTP(w, r)
		case GroupServiceGetGroupBalancesProcedure:
			getGroupBalances.ServeHTTP(w, r)
		case GroupServiceGetMemberHistoryProcedure:
			getMemberHistory.ServeHTTP(w, r)
		case GroupServiceGetSpendingProcedure:
			getSpending.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// GroupServiceClient is a client for GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetMemberHistory(context.Context, *connect.Request[api.GetMemberHistoryRequest]) (*connect.Response[api.GetMemberHistoryResponse], error)
	GetSpending(context.Context, *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error)
}

// NewGroupServiceClient returns a client for the GroupService served at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &groupServiceClient{
		createGroup:      connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:         connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:       connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		updateGroup:      connect.NewClient[api.UpdateGroupRequest, api.UpdateGroupResponse](httpClient, baseURL+GroupServiceUpdateGroupProcedure, opts...),
		deleteGroup:      connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		addMembers:       connect.NewClient[api.AddMembersRequest, api.AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
		removeMember:     connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		getGroupBalances: connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+GroupServiceGetGroupBalancesProcedure, opts...),
		getMemberHistory: connect.NewClient[api.GetMemberHistoryRequest, api.GetMemberHistoryResponse](httpClient, baseURL+GroupServiceGetMemberHistoryProcedure, opts...),
		getSpending:      connect.NewClient[api.GetSpendingRequest, api.GetSpendingResponse](httpClient, baseURL+GroupServiceGetSpendingProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup      *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup         *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups       *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	updateGroup      *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	deleteGroup      *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	addMembers       *connect.Client[api.AddMembersRequest, api.AddMembersResponse]
	removeMember     *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	getGroupBalances *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getMemberHistory *connect.Client[api.GetMemberHistoryRequest, api.GetMemberHistoryResponse]
	getSpending      *connect.Client[api.GetSpendingRequest, api.GetSpendingResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetMemberHistory(ctx context.Context, req *connect.Request[api.GetMemberHistoryRequest]) (*connect.Response[api.GetMemberHistoryResponse], error) {
	return c.getMemberHistory.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetSpending(ctx context.Context, req *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error) {
	return c.getSpending.CallUnary(ctx, req)
}
