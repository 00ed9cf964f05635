package token

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	m := NewManager("test-secret", time.Hour)
	signed, err := m.Issue("t-1", 2)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.TicketID != "t-1" {
		t.Fatalf("ticket id = %q, want t-1", claims.TicketID)
	}
	if claims.Attempt != 2 {
		t.Fatalf("attempt = %d, want 2", claims.Attempt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewManager("secret-a", time.Hour).Issue("t-1", 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Parse(signed); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()

	m := &Manager{secret: []byte("test-secret"), ttl: -time.Minute}
	signed, err := m.Issue("t-1", 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Parse(signed); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	m := NewManager("test-secret", time.Hour)
	if _, err := m.Parse("not-a-token"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}
