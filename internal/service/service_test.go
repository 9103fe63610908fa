package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	auth        apiconnect.AuthServiceClient
	groups      apiconnect.GroupServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
	published   *recordingPublisher

	// store bypasses the services to set up ledgers they would refuse to build.
	store *sqlite.SQLiteStore
}

// setupTestServer serves every service over httptest backed by a temp SQLite file.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	published := &recordingPublisher{}
	reg := prometheus.NewRegistry()

	required := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.RequireAuth(jwtManager),
	)
	optional := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.OptionalAuth(jwtManager),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), optional))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, calculator.Planner{}, NewLedgerMetrics(reg)), required))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, published), required))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(store, published, calculator.Planner{}), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		published:   published,
		store:       store,
	}
}

// register creates an account and returns its session token.
func (e *testEnv) register(t *testing.T, email, name string) (string, *api.User) {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token, resp.Msg.User
}

// createGroup creates a group owned by token's user with extra name-only members.
func (e *testEnv) createGroup(t *testing.T, token, name string, members ...string) *api.Group {
	t.Helper()
	req := &api.CreateGroupRequest{Name: name}
	for _, m := range members {
		req.Members = append(req.Members, &api.NewMember{Name: m})
	}
	resp, err := e.groups.CreateGroup(context.Background(), withToken(token, req))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func withToken[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func memberID(t *testing.T, g *api.Group, name string) string {
	t.Helper()
	for _, m := range g.Members {
		if m.Name == name {
			return m.ID
		}
	}
	t.Fatalf("member %q not in group", name)
	return ""
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}
