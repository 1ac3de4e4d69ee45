package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("expected correct password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}

	// Hashing is salted, two hashes of the same input differ.
	again, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword again: %v", err)
	}
	if hash == again {
		t.Fatal("expected distinct salted hashes")
	}
}
