package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerTokenFromHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/realtime/v1", nil)
	req.Header.Set("Authorization", "Bearer abc123")

	if token := bearerToken(req); token != "abc123" {
		t.Errorf("Expected token abc123, got %q", token)
	}
}

func TestBearerTokenFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/realtime/v1?token=abc123", nil)

	if token := bearerToken(req); token != "abc123" {
		t.Errorf("Expected token abc123, got %q", token)
	}
}

func TestBearerTokenHeaderWinsOverQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/realtime/v1?token=from-query", nil)
	req.Header.Set("Authorization", "Bearer from-header")

	if token := bearerToken(req); token != "from-header" {
		t.Errorf("Expected token from-header, got %q", token)
	}
}

func TestBearerTokenMalformedHeaderFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/realtime/v1?token=from-query", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")

	if token := bearerToken(req); token != "from-query" {
		t.Errorf("Expected token from-query, got %q", token)
	}
}

func TestBearerTokenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/realtime/v1", nil)

	if token := bearerToken(req); token != "" {
		t.Errorf("Expected empty token, got %q", token)
	}
}
