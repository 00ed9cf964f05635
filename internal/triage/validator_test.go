package triage

import (
	"testing"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		subject     string
		description string
		wantAccept  bool
	}{
		{
			name:        "accepts a substantive ticket",
			subject:     "Cannot log in",
			description: "I cannot login to my account, I keep seeing error 403 after my password reset",
			wantAccept:  true,
		},
		{
			name:        "rejects a too-short description",
			subject:     "Login",
			description: "it's broken",
			wantAccept:  false,
		},
		{
			name:        "rejects text with no category vocabulary",
			subject:     "Question",
			description: "I wanted to ask about something general regarding your company offices",
			wantAccept:  false,
		},
		{
			name:        "rejects vague text even when long enough",
			subject:     "",
			description: "error error error error error error",
			wantAccept:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ticket := &domain.Ticket{Subject: tt.subject, Description: tt.description}
			got := Validate(ticket)
			if got.Accepted != tt.wantAccept {
				t.Fatalf("Validate() accepted = %v, want %v (note %q)", got.Accepted, tt.wantAccept, got.Note)
			}
			if !got.Accepted && got.Note == "" {
				t.Fatal("rejection must carry a note")
			}
			if got.Accepted && got.Note != "" {
				t.Fatalf("acceptance must not carry a note, got %q", got.Note)
			}
		})
	}
}

func TestValidateUsesClarifications(t *testing.T) {
	t.Parallel()

	// The base text alone has no category signal; the clarification supplies
	// it, so re-validation after feedback must pass.
	ticket := &domain.Ticket{
		Subject:     "Something is off",
		Description: "The thing I use every day stopped working this morning somehow",
	}
	if got := Validate(ticket); got.Accepted {
		t.Fatal("expected rejection without clarification")
	}

	ticket.Clarifications = []string{"it shows a timeout error when the page loads"}
	if got := Validate(ticket); !got.Accepted {
		t.Fatalf("expected acceptance with clarification, got note %q", got.Note)
	}
}
