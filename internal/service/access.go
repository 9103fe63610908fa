package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errNotGroupMember = errors.New("you are not a member of this group")
	errRemovedMember  = errors.New("entry involves a member who is no longer in the group")
)

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// loadGroupForCaller fetches a group and checks the caller is one of its linked members.
func loadGroupForCaller(ctx context.Context, store storage.GroupStore, groupID string) (*models.Group, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storageError("GetGroup", err)
	}
	if !group.HasUser(userID) {
		slog.Warn("Group access denied", "group_id", groupID, "user_id", userID)
		return nil, connect.NewError(connect.CodePermissionDenied, errNotGroupMember)
	}
	return group, nil
}

// storageError maps a store failure to a Connect error and logs it.
func storageError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info(op+" target not found", "error", err)
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// requireRoster refuses changes to ledger entries that name members who are no
// longer on the roster.
func requireRoster(group *models.Group, memberIDs ...string) error {
	missing := group.MissingMembers(memberIDs...)
	if len(missing) == 0 {
		return nil
	}
	slog.Warn("Ledger entry references removed members", "group_id", group.ID, "member_ids", missing)
	return connect.NewError(connect.CodeFailedPrecondition,
		fmt.Errorf("%w: %s", errRemovedMember, strings.Join(missing, ", ")))
}
