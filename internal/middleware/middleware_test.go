package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			if got != tt.want || ok != tt.ok {
				t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "user-1", "a@example.com")
	if GetUserID(ctx) != "user-1" || GetEmail(ctx) != "a@example.com" {
		t.Errorf("identity not stored in context")
	}
	if GetUserID(context.Background()) != "" {
		t.Errorf("expected empty user id")
	}
}

type fakeRequest struct {
	connect.AnyRequest
	header http.Header
}

func (r fakeRequest) Spec() connect.Spec {
	return connect.Spec{Procedure: "/splitledger.v1.Test/Do"}
}

func (r fakeRequest) Header() http.Header {
	return r.header
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := m.Interceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, nil
	})
	fail := m.Interceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	req := fakeRequest{header: http.Header{}}
	ok(context.Background(), req)
	ok(context.Background(), req)
	fail(context.Background(), req)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/splitledger.v1.Test/Do", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/splitledger.v1.Test/Do", "not_found")); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
}
