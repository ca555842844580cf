package utils

import (
	"testing"
	"time"
)

func TestVerificationTokenRoundTrip(t *testing.T) {
	token, err := NewVerificationToken(42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewVerificationToken failed: %v", err)
	}

	userID, err := ParseVerificationToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseVerificationToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestVerificationTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewVerificationToken(42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewVerificationToken failed: %v", err)
	}
	if _, err := ParseVerificationToken(token, "other-secret"); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestVerificationTokenExpires(t *testing.T) {
	token, err := NewVerificationToken(42, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewVerificationToken failed: %v", err)
	}
	if _, err := ParseVerificationToken(token, "secret"); err == nil {
		t.Error("expired token was accepted")
	}
}
