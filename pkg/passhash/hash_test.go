package passhash

import (
	"strings"
	"testing"
)

// low iteration count keeps the test fast while exercising the full path
const testIters = 1000

func TestHashAndVerify(t *testing.T) {
	enc, err := HashPasswordWithIters("s3cret", testIters)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(enc, "pbkdf2_sha256$") {
		t.Fatalf("unexpected encoding: %s", enc)
	}

	ok, err := VerifyPassword("s3cret", enc)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("correct password must verify")
	}

	ok, err = VerifyPassword("wrong", enc)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashPasswordWithIters("same password", testIters)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := HashPasswordWithIters("same password", testIters)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, enc := range []string{"", "bcrypt$whatever", "pbkdf2_sha256$abc$def", "pbkdf2_sha256$0$a$b"} {
		if _, err := VerifyPassword("pw", enc); err == nil {
			t.Fatalf("expected error for %q", enc)
		}
	}
}
