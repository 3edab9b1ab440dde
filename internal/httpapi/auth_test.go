package httpapi

import (
	"context"
	"strings"
	"testing"
	"time"

	"warungkilat/backend/internal/domain"
)

// userStoreStub records password upgrades so the tests can observe the
// plaintext-to-bcrypt migration on login.
type userStoreStub struct {
	users    []domain.UserAccount
	upgrades map[string]string
}

func newUserStoreStub(users ...domain.UserAccount) *userStoreStub {
	return &userStoreStub{users: users, upgrades: make(map[string]string)}
}

func (s *userStoreStub) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.users = append(s.users, user)
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	return s.users, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.upgrades[username] = password
	for i := range s.users {
		if s.users[i].Username == username {
			s.users[i].Password = password
		}
	}
	return nil
}

func TestLoginAndParseTokenRoundTrip(t *testing.T) {
	stub := newUserStoreStub(domain.UserAccount{
		ID:       7,
		Username: "admin",
		Password: mustHash(t, "rahasia-kuat"),
		Role:     "admin",
		Active:   true,
	})
	auth := NewAuthManager("unit-test-secret-key-of-decent-size", time.Hour, stub)

	resp, err := auth.Login(domain.LoginRequest{Username: "Admin ", Password: "rahasia-kuat"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != "admin" || resp.AccessToken == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "admin" || actor.Role != "admin" || actor.ID != 7 {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestLoginUpgradesPlaintextPassword(t *testing.T) {
	stub := newUserStoreStub(domain.UserAccount{
		ID:       3,
		Username: "cashier",
		Password: "warisan123",
		Role:     "cashier",
		Active:   true,
	})
	auth := NewAuthManager("unit-test-secret-key-of-decent-size", time.Hour, stub)

	if _, err := auth.Login(domain.LoginRequest{Username: "cashier", Password: "warisan123"}); err != nil {
		t.Fatalf("login with legacy password: %v", err)
	}

	upgraded, ok := stub.upgrades["cashier"]
	if !ok {
		t.Fatal("expected plaintext password to be rehashed in the store")
	}
	if !isPasswordHash(upgraded) {
		t.Fatalf("stored password is not a bcrypt hash: %q", upgraded)
	}

	// The old plaintext value must no longer be accepted as a stored hash.
	if verifyPassword("warisan123", "warisan123") {
		t.Fatal("plaintext stored value must never verify")
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	stub := newUserStoreStub(domain.UserAccount{
		Username: "bekas",
		Password: mustHash(t, "whatever1"),
		Role:     "cashier",
		Active:   false,
	})
	auth := NewAuthManager("unit-test-secret-key-of-decent-size", time.Hour, stub)

	_, err := auth.Login(domain.LoginRequest{Username: "bekas", Password: "whatever1"})
	if err == nil || !strings.Contains(err.Error(), "inactive") {
		t.Fatalf("expected inactive account error, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthManager("unit-test-secret-key-of-decent-size", time.Hour, nil)

	if _, err := auth.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewAuthManager("issuer-secret-key-of-decent-size!!", time.Hour, newUserStoreStub(domain.UserAccount{
		Username: "admin",
		Password: mustHash(t, "rahasia-kuat"),
		Role:     "admin",
		Active:   true,
	}))
	resp, err := issuer.Login(domain.LoginRequest{Username: "admin", Password: "rahasia-kuat"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	verifier := NewAuthManager("a-completely-different-secret-key!!", time.Hour, nil)
	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}
