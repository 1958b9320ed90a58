package models

import (
	"strings"
	"testing"
)

func TestIsValidConnectionTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{ConnStateReceived, ConnStateNormalizing, true},
		{ConnStateNormalizing, ConnStateOracleLookup, true},
		{ConnStateOracleLookup, ConnStateAccepted, true},
		{ConnStateAccepted, ConnStateLogged, true},
		{ConnStateLogged, ConnStateProfileUpdated, true},

		// Rejection paths: both rejection kinds still reach the log write
		{ConnStateNormalizing, ConnStateRejected, true},
		{ConnStateOracleLookup, ConnStateRejected, true},
		{ConnStateRejected, ConnStateLogged, true},

		// Invalid transitions
		{ConnStateReceived, ConnStateOracleLookup, false},
		{ConnStateReceived, ConnStateRejected, false},
		{ConnStateNormalizing, ConnStateAccepted, false},
		{ConnStateOracleLookup, ConnStateLogged, false},
		{ConnStateRejected, ConnStateProfileUpdated, false},
		{ConnStateAccepted, ConnStateProfileUpdated, false},
		{ConnStateProfileUpdated, ConnStateReceived, false},
		{ConnStateLogged, ConnStateAccepted, false},
		{"nonexistent", ConnStateLogged, false},
		{ConnStateReceived, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidConnectionTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidConnectionTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllConnectionStatesHaveTransitionEntry(t *testing.T) {
	allStates := []string{
		ConnStateReceived, ConnStateNormalizing, ConnStateOracleLookup,
		ConnStateRejected, ConnStateAccepted, ConnStateLogged, ConnStateProfileUpdated,
	}

	for _, state := range allStates {
		if _, ok := ValidConnectionTransitions[state]; !ok {
			t.Errorf("state %q missing from ValidConnectionTransitions map", state)
		}
	}
}

func TestEveryTerminalPathPassesThroughLogged(t *testing.T) {
	// Rejected and Accepted may only move to Logged: no code path can reach a
	// terminal outcome without the audit write.
	for _, state := range []string{ConnStateRejected, ConnStateAccepted} {
		allowed := ValidConnectionTransitions[state]
		if len(allowed) != 1 || allowed[0] != ConnStateLogged {
			t.Errorf("transitions from %q = %v, want only [%q]", state, allowed, ConnStateLogged)
		}
	}
}

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		redacted string
	}{
		{"mnemonic", "abandon ability able about above absent absorb abstract absurd abuse access accident", "aban...dent"},
		{"private key", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaabbbb", "aaaa...bbbb"},
		{"short", "tiny", "t***"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, redacted := RedactSecret(tt.secret)
			if redacted != tt.redacted {
				t.Errorf("RedactSecret(%q) redacted = %q, want %q", tt.secret, redacted, tt.redacted)
			}
			if len(hash) != 64 {
				t.Errorf("RedactSecret(%q) hash length = %d, want 64", tt.secret, len(hash))
			}
			if len(tt.secret) > 8 && strings.Contains(redacted, tt.secret) {
				t.Errorf("redacted form %q leaks the raw secret", redacted)
			}
		})
	}
}

func TestRedactSecretDeterministic(t *testing.T) {
	h1, _ := RedactSecret("same secret words here repeated for a mnemonic test")
	h2, _ := RedactSecret("same secret words here repeated for a mnemonic test")
	if h1 != h2 {
		t.Errorf("same secret produced different hashes: %q vs %q", h1, h2)
	}
	h3, _ := RedactSecret("a different secret")
	if h1 == h3 {
		t.Error("different secrets produced the same hash")
	}
}
