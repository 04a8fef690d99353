package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled_PassThrough(t *testing.T) {
	for name, keys := range map[string][]string{
		"nil keys":          nil,
		"empty string keys": {"", ""},
	} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		req := httptest.NewRequest("POST", "/analyze", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, name)
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/analyze", "", http.StatusUnauthorized},
		{"basic scheme", "/analyze", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"invalid token", "/hospital/inquiry", "Bearer wrong-key", http.StatusUnauthorized},
		{"prefix of valid key", "/analyze", "Bearer key", http.StatusUnauthorized},
		{"first key", "/analyze", "Bearer key1", http.StatusOK},
		{"second key", "/hospital/inquiry", "Bearer key2", http.StatusOK},
		{"usage needs auth", "/usage", "", http.StatusUnauthorized},
		{"root exempt", "/", "", http.StatusOK},
		{"health exempt", "/health", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.want, rr.Code)
			if tt.want != http.StatusUnauthorized {
				return
			}

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
			assert.Equal(t, ErrorCodeUnauthorized, errResp.Code)
		})
	}
}
