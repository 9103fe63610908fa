package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	token, user := env.register(t, "Alice@Example.com", "Alice")
	if token == "" {
		t.Fatal("expected token")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email: expected normalized, got %q", user.Email)
	}

	resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.User.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, resp.Msg.User.ID)
	}

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestRegister_Errors(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "taken@example.com", "Taken")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "taken@example.com", DisplayName: "X", Password: "password123"}, connect.CodeAlreadyExists},
		{"weak password", &api.RegisterRequest{Email: "new@example.com", DisplayName: "X", Password: "short"}, connect.CodeInvalidArgument},
		{"missing name", &api.RegisterRequest{Email: "new@example.com", Password: "password123"}, connect.CodeInvalidArgument},
		{"bad email", &api.RegisterRequest{Email: "nope", DisplayName: "X", Password: "password123"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, user := env.register(t, "alice@example.com", "Alice")

	resp, err := env.auth.GetCurrentUser(ctx, withToken(token, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.DisplayName != "Alice" || resp.Msg.User.ID != user.ID {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}

	_, err = env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.GetCurrentUser(ctx, withToken("garbage", &api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token, _ := env.register(t, "alice@example.com", "Alice")

	resp, err := env.auth.UpdateProfile(ctx, withToken(token, &api.UpdateProfileRequest{
		DisplayName: "Alice B.",
		AvatarURL:   "https://example.com/a.png",
	}))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.Msg.User.DisplayName != "Alice B." || resp.Msg.User.AvatarURL != "https://example.com/a.png" {
		t.Errorf("profile not updated: %+v", resp.Msg.User)
	}

	_, err = env.auth.UpdateProfile(ctx, withToken(token, &api.UpdateProfileRequest{AvatarURL: "ftp://x"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
