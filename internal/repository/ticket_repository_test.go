package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestTextArrayNormalizesNil(t *testing.T) {
	t.Parallel()

	got := textArray(nil)
	if got == nil {
		t.Fatal("textArray(nil) returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("textArray(nil) returned %v, want empty slice", got)
	}

	in := []string{"login", "password"}
	got = textArray(in)
	if len(got) != 2 || got[0] != "login" || got[1] != "password" {
		t.Fatalf("textArray(%v) returned %v, want unchanged", in, got)
	}
}

// A ticket fresh from submission has nil keywords and clarifications. The
// tickets table declares those columns TEXT[] NOT NULL, so the bound values
// must encode as '{}' on the wire rather than SQL NULL.
func TestTextArrayEncodesNonNull(t *testing.T) {
	t.Parallel()

	m := pgtype.NewMap()

	raw, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, []string(nil), nil)
	if err != nil {
		t.Fatalf("encode nil slice: %v", err)
	}
	if raw != nil {
		t.Fatal("nil []string no longer encodes as SQL NULL; the normalization may be redundant")
	}

	buf, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, textArray(nil), nil)
	if err != nil {
		t.Fatalf("encode normalized slice: %v", err)
	}
	if buf == nil {
		t.Fatal("normalized empty slice encoded as SQL NULL")
	}
	if got := string(buf); got != "{}" {
		t.Fatalf("normalized empty slice encoded as %q, want {}", got)
	}
}
