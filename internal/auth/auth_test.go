package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	enabled := Middleware(Config{Enabled: true, Token: "s3cret"})(ok)
	disabled := Middleware(Config{})(ok)

	tests := []struct {
		name    string
		handler http.Handler
		path    string
		header  string
		want    int
	}{
		{"disabled lets everything through", disabled, "/api/v1/sun/track", "", http.StatusOK},
		{"missing header", enabled, "/api/v1/sun/track", "", http.StatusUnauthorized},
		{"wrong token", enabled, "/api/v1/sun/track", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", enabled, "/api/v1/sun/track", "Basic s3cret", http.StatusUnauthorized},
		{"bare token", enabled, "/api/v1/sun/track", "s3cret", http.StatusUnauthorized},
		{"empty bearer", enabled, "/api/v1/sun/track", "Bearer ", http.StatusUnauthorized},
		{"valid token", enabled, "/api/v1/sun/track", "Bearer s3cret", http.StatusOK},
		{"scheme is case-insensitive", enabled, "/api/v1/sun/polar", "bearer s3cret", http.StatusOK},
		{"healthz exempt", enabled, "/healthz", "", http.StatusOK},
		{"readyz exempt", enabled, "/readyz", "", http.StatusOK},
		{"metrics exempt", enabled, "/metrics", "", http.StatusOK},
		{"marks exempt", enabled, "/api/v1/sun/marks", "", http.StatusOK},
		{"stream protected", enabled, "/api/v1/stream/sweep", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}
