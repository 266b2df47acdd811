package payment

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newCallbackRouter(t *testing.T) (http.Handler, *[]GatewayMessage) {
	t.Helper()
	bus := NewGatewayBus()
	var got []GatewayMessage
	unsubscribe := bus.Subscribe(func(m GatewayMessage) { got = append(got, m) })
	t.Cleanup(unsubscribe)

	r := chi.NewRouter()
	NewCallbackHandler(bus, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, &got
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   []GatewayMessage
	}{
		{
			name:   "post with data envelope",
			method: http.MethodPost,
			target: "/payments/gateway/callback",
			body:   `{"data":{"status":"success","trxref":"ref-1"}}`,
			want:   []GatewayMessage{{Status: "success", TrxRef: "ref-1"}},
		},
		{
			name:   "get with query parameters",
			method: http.MethodGet,
			target: "/payments/gateway/callback?status=success&trxref=ref-2",
			want:   []GatewayMessage{{Status: "success", TrxRef: "ref-2"}},
		},
		{
			name:   "malformed body is dropped",
			method: http.MethodPost,
			target: "/payments/gateway/callback",
			body:   `not json`,
		},
		{
			name:   "message without reference is dropped",
			method: http.MethodPost,
			target: "/payments/gateway/callback",
			body:   `{"data":{"status":"success"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, got := newCallbackRouter(t)
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.want, *got)
		})
	}
}
