package uuid

import "testing"

func TestNew_VersionAndVariant(t *testing.T) {
	u := New()
	if u[6]>>4 != 4 {
		t.Fatalf("expected version 4, got %d", u[6]>>4)
	}
	if u[8]>>6 != 2 {
		t.Fatalf("expected RFC 4122 variant, got %d", u[8]>>6)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	u := New()
	parsed, err := Parse(u.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != u {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, u)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{
		"", "not-a-uuid", "1234", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
		// 32 hex digits with the wrong 8-4-4-4-12 grouping
		"123456789-abc-def0-8000-00000000000",
		"1234567-89ab-cdef-0800-0000000000000",
	} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestIsNil(t *testing.T) {
	var zero UUID
	if !zero.IsNil() {
		t.Fatal("zero UUID must be nil")
	}
	if New().IsNil() {
		t.Fatal("fresh UUID must not be nil")
	}
}
