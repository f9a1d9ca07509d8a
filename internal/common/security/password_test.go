package security

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "pw" {
		t.Fatal("hash must not equal the plain password")
	}

	if !CheckPasswordHash("pw", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
	if CheckPasswordHash("pw", "not-a-hash") {
		t.Error("garbage hash accepted")
	}
}
