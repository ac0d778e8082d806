package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookify/internal/auth"
)

const TestSecret = "test-secret"

// TestEmail is the default authenticated user in handler tests.
const TestEmail = "reader@example.com"

// Token returns a valid bearer token for email.
func Token(email string) string {
	token, _ := auth.GenerateToken(TestSecret, email, time.Hour)
	return token
}

// ExpiredToken returns a token that stopped being valid an hour ago.
func ExpiredToken(email string) string {
	token, _ := auth.GenerateToken(TestSecret, email, -time.Hour)
	return token
}

// NewRequest builds a JSON request for handler tests.
func NewRequest(method, path string, body interface{}) *http.Request {
	var r *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(raw))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth builds a JSON request carrying a bearer token.
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// DecodeBody reads a recorded response body into a generic map.
func DecodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	result := w.Result()
	defer result.Body.Close()

	raw, _ := io.ReadAll(result.Body)
	var body map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return body
}
