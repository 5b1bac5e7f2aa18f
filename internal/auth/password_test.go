package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in the clear")
	}

	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "Hunter2") {
		t.Fatal("wrong password accepted")
	}
	if CheckPassword("not-a-hash", "hunter2") {
		t.Fatal("garbage hash accepted")
	}
}
