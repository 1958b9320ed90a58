package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Wallet methods
const (
	MethodMetaMask       = "MetaMask"
	MethodTrustWallet    = "Trust Wallet"
	MethodCoinbaseWallet = "Coinbase Wallet"
	MethodRainbow        = "Rainbow"
	MethodManualInput    = "Manual Input"
)

// WalletMethods are the extension-flow methods a client may claim.
// Manual Input is assigned by the server for mnemonic/private_key channels.
var WalletMethods = []string{MethodMetaMask, MethodTrustWallet, MethodCoinbaseWallet, MethodRainbow}

func IsValidWalletMethod(m string) bool {
	for _, v := range WalletMethods {
		if v == m {
			return true
		}
	}
	return false
}

// Connection channels
const (
	ConnectionTypeWallet     = "wallet"
	ConnectionTypeMnemonic   = "mnemonic"
	ConnectionTypePrivateKey = "private_key"
)

// Validation statuses. Pending exists in the enum for a future asynchronous
// oracle; the orchestrator always resolves synchronously, so a persisted row
// is never pending.
const (
	ValidationStatusPending = "pending"
	ValidationStatusSuccess = "success"
	ValidationStatusFailed  = "failed"
)

// Failure reasons recorded on the audit row.
const (
	ReasonInvalidCredentialFormat = "invalid_credential_format"
	ReasonZeroBalanceNotAllowed   = "zero_balance_not_allowed"
)

// Connection attempt states
const (
	ConnStateReceived       = "received"
	ConnStateNormalizing    = "normalizing"
	ConnStateOracleLookup   = "oracle_lookup"
	ConnStateRejected       = "rejected"
	ConnStateAccepted       = "accepted"
	ConnStateLogged         = "logged"
	ConnStateProfileUpdated = "profile_updated"
)

// Valid state transitions: from -> []to. Every attempt must pass through
// Logged: rejections and acceptances alike end with an audit write, and only
// an accepted attempt goes on to update the profile binding.
var ValidConnectionTransitions = map[string][]string{
	ConnStateReceived:       {ConnStateNormalizing},
	ConnStateNormalizing:    {ConnStateOracleLookup, ConnStateRejected},
	ConnStateOracleLookup:   {ConnStateAccepted, ConnStateRejected},
	ConnStateRejected:       {ConnStateLogged},
	ConnStateAccepted:       {ConnStateLogged},
	ConnStateLogged:         {ConnStateProfileUpdated},
	ConnStateProfileUpdated: {},
}

func IsValidConnectionTransition(from, to string) bool {
	allowed, ok := ValidConnectionTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// WalletLog is one immutable audit row per connection attempt. Rows are never
// mutated or deleted after Append.
type WalletLog struct {
	ID            uuid.UUID `json:"id"`
	Seq           int64     `json:"-"` // insertion order, breaks created_at ties
	UserID        uuid.UUID `json:"user_id"`
	WalletMethod  string    `json:"wallet_method"`
	WalletAddress string    `json:"wallet_address"` // empty when normalization failed
	Balance       float64   `json:"balance"`
	ConnectionType string   `json:"connection_type"` // wallet / mnemonic / private_key
	// The submitted secret is never stored verbatim; only a digest for
	// forensic correlation and a short preview for operators.
	InputHash     *string   `json:"input_hash,omitempty"`
	InputRedacted *string   `json:"input_redacted,omitempty"`
	ValidationStatus string `json:"validation_status"`
	ErrorReason   *string   `json:"error_reason,omitempty"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent"`
	CreatedAt     time.Time `json:"created_at"`
}

// WalletLogWithUser is an audit row joined with its owner, so operator
// listings do not need a second lookup per row.
type WalletLogWithUser struct {
	WalletLog
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// RedactSecret converts a raw manual secret into the storable pair:
// a sha256 digest and a first/last-4 preview.
func RedactSecret(secret string) (hash string, redacted string) {
	sum := sha256.Sum256([]byte(secret))
	hash = hex.EncodeToString(sum[:])
	if secret == "" {
		return hash, ""
	}
	if len(secret) <= 8 {
		return hash, secret[:1] + "***"
	}
	return hash, secret[:4] + "..." + secret[len(secret)-4:]
}
