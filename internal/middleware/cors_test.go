package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		origin         string
		userAgent      string
		method         string
		expectCors     bool
		expectNext     bool
		expectedStatus int
	}{
		{
			name:           "AllowedOrigin",
			origin:         "http://localhost:8080",
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "AnyLocalhostPort",
			origin:         "http://localhost:3000",
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NoOrigin",
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			expectCors:     false,
			expectNext:     false,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "AllowedUserAgent",
			origin:         "https://somewhere.else",
			userAgent:      "curl/8.1",
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Preflight",
			origin:         "http://localhost:8080",
			method:         http.MethodOptions,
			expectCors:     true,
			expectNext:     false,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, "/session", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.userAgent != "" {
				req.Header.Set("User-Agent", tc.userAgent)
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			Cors()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNext, nextCalled)
			if tc.expectCors {
				assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
