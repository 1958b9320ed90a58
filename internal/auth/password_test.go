package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordCostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of failing.
	for _, cost := range []int{-1, 0, 99} {
		if _, err := HashPassword("pw", cost); err != nil {
			t.Errorf("HashPassword(cost=%d) failed: %v", cost, err)
		}
	}
}
