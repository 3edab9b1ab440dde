package main

import (
	"strings"
	"testing"

	"warungkilat/backend/internal/config"
)

func TestValidateSecurityConfig(t *testing.T) {
	weak := config.Config{AuthSecret: "short"}
	if err := validateSecurityConfig(weak); err == nil {
		t.Fatal("expected error for short AUTH_SECRET")
	}

	empty := config.Config{}
	err := validateSecurityConfig(empty)
	if err == nil || !strings.Contains(err.Error(), "AUTH_SECRET") {
		t.Fatalf("expected AUTH_SECRET error, got %v", err)
	}

	strong := config.Config{AuthSecret: strings.Repeat("k", 32)}
	if err := validateSecurityConfig(strong); err != nil {
		t.Fatalf("expected strong secret to pass: %v", err)
	}
}
