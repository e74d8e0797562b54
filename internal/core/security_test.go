// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should be argon2id encoded, got %q", hash[:12])
	}

	valid, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !valid {
		t.Error("correct password should verify")
	}

	valid, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if valid {
		t.Error("wrong password should not verify")
	}
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	t.Parallel()

	valid, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if valid {
		t.Error("nil hash should never verify")
	}
	if newHash != "" {
		t.Errorf("nil hash should not produce a rehash, got %q", newHash)
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := VerifyPassword("pw", "not-a-hash"); err == nil {
		t.Error("malformed hash should error")
	}

	if _, err := VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c$d"); err == nil {
		t.Error("non-argon2id hash should error")
	}
}
