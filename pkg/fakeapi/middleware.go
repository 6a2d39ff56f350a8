package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse represents a REST API error response.
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// bearerAuth rejects requests whose Authorization header does not carry token.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] != token {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// shopAuth accepts either the configured access token header or basic auth.
func shopAuth(accessToken, apiKey, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, pass, ok := r.BasicAuth(); ok && apiKey != "" && user == apiKey && pass == password {
				next.ServeHTTP(w, r)
				return
			}
			if accessToken != "" && r.Header.Get("X-Shopify-Access-Token") == accessToken {
				next.ServeHTTP(w, r)
				return
			}
			writeJSONError(w, http.StatusUnauthorized, "[API] Invalid API key or access token")
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Errors: message})
}
