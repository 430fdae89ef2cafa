package hashutil

import "testing"

func TestGenerateSalt_Unique(t *testing.T) {
	a := GenerateSalt()
	b := GenerateSalt()
	if a == "" || b == "" {
		t.Fatal("expected non-empty salts")
	}
	if a == b {
		t.Errorf("expected distinct salts, got %q twice", a)
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	h1 := HashPassword("secret", "salt1")
	h2 := HashPassword("secret", "salt1")
	if h1 != h2 {
		t.Errorf("same input hashed differently: %q vs %q", h1, h2)
	}
}

func TestHashPassword_SaltChangesDigest(t *testing.T) {
	h1 := HashPassword("secret", "salt1")
	h2 := HashPassword("secret", "salt2")
	if h1 == h2 {
		t.Error("expected different digests for different salts")
	}
}

func TestCheckPassword(t *testing.T) {
	salt := GenerateSalt()
	digest := HashPassword("hunter2", salt)

	if !CheckPassword("hunter2", salt, digest) {
		t.Error("expected matching password to check")
	}
	if CheckPassword("hunter3", salt, digest) {
		t.Error("expected wrong password to fail")
	}
}
