package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bruteosaur/backend/internal/models"
)

const (
	mnemonicMinWords = 12
	mnemonicMaxWords = 24
)

var privateKeyRegex = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

var ErrInvalidCredential = errors.New("invalid mnemonic or private key")

// DeriveAddress validates a manually submitted secret and produces its
// address. The derivation is a sha256 placeholder, not real key derivation,
// but it is deterministic: the same secret always maps to the same address.
func DeriveAddress(connectionType, secret string) (string, error) {
	switch connectionType {
	case models.ConnectionTypeMnemonic:
		words := strings.Fields(secret)
		if len(words) < mnemonicMinWords || len(words) > mnemonicMaxWords {
			return "", fmt.Errorf("%w: mnemonic must be %d-%d words, got %d",
				ErrInvalidCredential, mnemonicMinWords, mnemonicMaxWords, len(words))
		}
	case models.ConnectionTypePrivateKey:
		if !privateKeyRegex.MatchString(secret) {
			return "", fmt.Errorf("%w: private key must be 64 hex characters", ErrInvalidCredential)
		}
	default:
		return "", fmt.Errorf("unsupported connection type %q", connectionType)
	}

	sum := sha256.Sum256([]byte(secret))
	return "0x" + hex.EncodeToString(sum[:20]), nil
}
