package blockchain

import (
	"errors"
	"strings"
	"testing"

	"github.com/bruteosaur/backend/internal/models"
)

func TestDeriveAddressMnemonic(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		wantErr bool
	}{
		{"too short", 10, true},
		{"eleven words", 11, true},
		{"minimum", 12, false},
		{"fifteen", 15, false},
		{"eighteen", 18, false},
		{"maximum", 24, false},
		{"too long", 25, true},
		{"single word", 1, true},
		{"empty", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phrase := strings.TrimSpace(strings.Repeat("word ", tt.words))
			addr, err := DeriveAddress(models.ConnectionTypeMnemonic, phrase)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredential) {
					t.Fatalf("DeriveAddress(%d words) error = %v, want ErrInvalidCredential", tt.words, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveAddress(%d words) unexpected error: %v", tt.words, err)
			}
			if !AddressRegex.MatchString(addr) {
				t.Errorf("derived address %q does not match the address shape", addr)
			}
		})
	}
}

func TestDeriveAddressMnemonicWhitespace(t *testing.T) {
	// Arbitrary whitespace between words must not change the count.
	phrase := "one  two\tthree four five six seven eight nine ten eleven  twelve"
	addr, err := DeriveAddress(models.ConnectionTypeMnemonic, phrase)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !AddressRegex.MatchString(addr) {
		t.Errorf("derived address %q does not match the address shape", addr)
	}
}

func TestDeriveAddressPrivateKey(t *testing.T) {
	valid := strings.Repeat("a1f0", 16) // 64 hex chars

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid lowercase", valid, false},
		{"valid uppercase", strings.ToUpper(valid), false},
		{"too short", valid[:63], true},
		{"too long", valid + "a", true},
		{"non-hex charset", strings.Repeat("z", 64), true},
		{"with 0x prefix", "0x" + valid[:62], true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := DeriveAddress(models.ConnectionTypePrivateKey, tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredential) {
					t.Fatalf("DeriveAddress(%q) error = %v, want ErrInvalidCredential", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveAddress(%q) unexpected error: %v", tt.key, err)
			}
			if !AddressRegex.MatchString(addr) {
				t.Errorf("derived address %q does not match the address shape", addr)
			}
		})
	}
}

func TestDeriveAddressDeterministic(t *testing.T) {
	key := strings.Repeat("ab12", 16)
	a1, err := DeriveAddress(models.ConnectionTypePrivateKey, key)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := DeriveAddress(models.ConnectionTypePrivateKey, key)
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Errorf("same secret derived different addresses: %q vs %q", a1, a2)
	}

	other, err := DeriveAddress(models.ConnectionTypePrivateKey, strings.Repeat("cd34", 16))
	if err != nil {
		t.Fatal(err)
	}
	if other == a1 {
		t.Error("different secrets derived the same address")
	}
}

func TestDeriveAddressUnsupportedType(t *testing.T) {
	_, err := DeriveAddress("keystore", "whatever")
	if err == nil {
		t.Fatal("expected error for unsupported connection type")
	}
	if errors.Is(err, ErrInvalidCredential) {
		t.Error("unsupported type should not be reported as a credential format failure")
	}
}
