package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nsyszr/chatline/pkg/model"
	"github.com/nsyszr/chatline/pkg/storage"
	"github.com/nsyszr/chatline/pkg/storage/memory"
)

const testSecret = "test-secret-key"

func newTestStore(t *testing.T) storage.Interface {
	t.Helper()

	store := memory.NewStore()
	err := store.Users().Create(context.Background(), &model.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return store
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	identity, err := v.Verify(context.Background(), signToken(t, testSecret, "user-1"))
	if err != nil {
		t.Fatalf("Failed to verify valid token: %v", err)
	}
	if identity.UserID != "user-1" {
		t.Errorf("Expected user id user-1, got %s", identity.UserID)
	}
	if identity.Username != "alice" {
		t.Errorf("Expected username alice, got %s", identity.Username)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	_, err := v.Verify(context.Background(), "")
	if err == nil {
		t.Fatal("Expected an error for a missing token")
	}
	if !IsAuthError(err) {
		t.Fatalf("Expected an auth error, got %v", err)
	}
	if reason := err.(*AuthError).Reason; reason != ErrReasonTokenMissing {
		t.Errorf("Expected reason %s, got %s", ErrReasonTokenMissing, reason)
	}
}

func TestVerifyWrongSignature(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	_, err := v.Verify(context.Background(), signToken(t, "another-secret", "user-1"))
	if err == nil {
		t.Fatal("Expected an error for a token signed with the wrong secret")
	}
	if !IsAuthError(err) {
		t.Fatalf("Expected an auth error, got %v", err)
	}
	if reason := err.(*AuthError).Reason; reason != ErrReasonTokenInvalid {
		t.Errorf("Expected reason %s, got %s", ErrReasonTokenInvalid, reason)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	_, err := v.Verify(context.Background(), "not.a.token")
	if err == nil {
		t.Fatal("Expected an error for a garbage token")
	}
	if !IsAuthError(err) {
		t.Fatalf("Expected an auth error, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	_, err = v.Verify(context.Background(), signed)
	if err == nil {
		t.Fatal("Expected an error for an expired token")
	}
	if !IsAuthError(err) {
		t.Fatalf("Expected an auth error, got %v", err)
	}
}

func TestVerifyTokenWithoutSubject(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	_, err = v.Verify(context.Background(), signed)
	if err == nil {
		t.Fatal("Expected an error for a token without subject")
	}
	if reason := err.(*AuthError).Reason; reason != ErrReasonTokenInvalid {
		t.Errorf("Expected reason %s, got %s", ErrReasonTokenInvalid, reason)
	}
}

func TestVerifyUnknownSubject(t *testing.T) {
	v := NewVerifier(testSecret, newTestStore(t))

	_, err := v.Verify(context.Background(), signToken(t, testSecret, "user-99"))
	if err == nil {
		t.Fatal("Expected an error for an unknown subject")
	}
	if !IsAuthError(err) {
		t.Fatalf("Expected an auth error, got %v", err)
	}
	if reason := err.(*AuthError).Reason; reason != ErrReasonUserNotFound {
		t.Errorf("Expected reason %s, got %s", ErrReasonUserNotFound, reason)
	}
}
