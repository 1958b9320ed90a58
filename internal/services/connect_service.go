package services

import (
	"context"
	"errors"
	"time"

	"github.com/bruteosaur/backend/internal/blockchain"
	"github.com/bruteosaur/backend/internal/events"
	"github.com/bruteosaur/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserStore is the profile contract the orchestrator needs: resolve a caller
// and overwrite their wallet binding.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateWallet(ctx context.Context, id uuid.UUID, method, address string, balance float64) error
}

// AuditStore receives exactly one row per connection attempt.
type AuditStore interface {
	Append(ctx context.Context, entry *models.WalletLog) error
}

type BalanceOracle interface {
	LookupBalance(ctx context.Context, address string) (float64, error)
}

// ConnectService drives a connection attempt through the state machine in
// models.ValidConnectionTransitions. It is the only writer of wallet_logs and
// of the profile binding; the oracle and normalizer below it only raise typed
// failures.
//
// The audit write and the binding write are two independent operations with
// no shared transaction: a crash between them can leave a success row with a
// stale binding. Accepted eventual-consistency gap. Two concurrent attempts
// for the same user race on the binding; last writer wins.
type ConnectService struct {
	users     UserStore
	logs      AuditStore
	oracle    BalanceOracle
	publisher events.Publisher
	log       *zap.Logger
}

func NewConnectService(users UserStore, logs AuditStore, oracle BalanceOracle, publisher events.Publisher, log *zap.Logger) *ConnectService {
	return &ConnectService{users: users, logs: logs, oracle: oracle, publisher: publisher, log: log}
}

type WalletConnectRequest struct {
	WalletMethod  string
	WalletAddress string
	IPAddress     string
	UserAgent     string
}

type ManualConnectRequest struct {
	InputType string // mnemonic / private_key
	Input     string
	IPAddress string
	UserAgent string
}

type ConnectResult struct {
	Method  string  `json:"method"`
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// attempt carries one in-flight connection through the pipeline.
type attempt struct {
	method         string
	connectionType string
	address        string
	secret         string
	ipAddress      string
	userAgent      string
}

// ConnectWallet handles the extension flow: the client submits a claimed
// method and address.
func (s *ConnectService) ConnectWallet(ctx context.Context, userID uuid.UUID, req WalletConnectRequest) (*ConnectResult, error) {
	if !models.IsValidWalletMethod(req.WalletMethod) {
		return nil, NewServiceError(CodeValidationError, "unknown wallet method")
	}
	if !blockchain.AddressRegex.MatchString(req.WalletAddress) {
		return nil, NewServiceError(CodeValidationError, "invalid wallet address")
	}
	return s.run(ctx, userID, attempt{
		method:         req.WalletMethod,
		connectionType: models.ConnectionTypeWallet,
		address:        req.WalletAddress,
		ipAddress:      req.IPAddress,
		userAgent:      req.UserAgent,
	})
}

// ConnectManual handles raw mnemonic / private key submission.
func (s *ConnectService) ConnectManual(ctx context.Context, userID uuid.UUID, req ManualConnectRequest) (*ConnectResult, error) {
	if req.InputType != models.ConnectionTypeMnemonic && req.InputType != models.ConnectionTypePrivateKey {
		return nil, NewServiceError(CodeValidationError, "input_type must be mnemonic or private_key")
	}
	if req.Input == "" {
		return nil, NewServiceError(CodeValidationError, "input is required")
	}
	return s.run(ctx, userID, attempt{
		method:         models.MethodManualInput,
		connectionType: req.InputType,
		secret:         req.Input,
		ipAddress:      req.IPAddress,
		userAgent:      req.UserAgent,
	})
}

func (s *ConnectService) run(ctx context.Context, userID uuid.UUID, at attempt) (*ConnectResult, error) {
	state := models.ConnStateReceived

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError(CodeNotFound, "user not found")
	}

	s.advance(&state, models.ConnStateNormalizing)
	address := at.address
	if at.connectionType != models.ConnectionTypeWallet {
		derived, err := blockchain.DeriveAddress(at.connectionType, at.secret)
		if err != nil {
			return nil, s.reject(ctx, &state, user.ID, at, "", models.ReasonInvalidCredentialFormat,
				NewServiceError(CodeInvalidCredentialFormat, "invalid mnemonic or private key"))
		}
		address = derived
	}

	s.advance(&state, models.ConnStateOracleLookup)
	balance, err := s.oracle.LookupBalance(ctx, address)
	if err != nil {
		if errors.Is(err, blockchain.ErrInvalidAddress) {
			return nil, s.reject(ctx, &state, user.ID, at, address, models.ReasonInvalidCredentialFormat,
				NewServiceError(CodeInvalidCredentialFormat, "invalid wallet address"))
		}
		// Infrastructure failure: the only path where the audit row may
		// legitimately be missing. Logged loudly so operators can alert on it.
		s.log.Error("oracle lookup failed, attempt not audited",
			zap.String("user_id", user.ID.String()),
			zap.String("address", address),
			zap.Error(err),
		)
		return nil, NewServiceError(CodeInternal, "internal error")
	}

	if balance == 0 {
		return nil, s.reject(ctx, &state, user.ID, at, address, models.ReasonZeroBalanceNotAllowed,
			NewServiceError(CodeZeroBalanceNotAllowed, "zero balance wallets are not allowed"))
	}

	s.advance(&state, models.ConnStateAccepted)

	// Audit row first, binding second (see consistency note on the type).
	s.advance(&state, models.ConnStateLogged)
	entry := s.buildEntry(user.ID, at, address, balance, models.ValidationStatusSuccess, nil)
	if err := s.logs.Append(ctx, entry); err != nil {
		s.log.Error("audit write failed, attempt not recorded",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, NewServiceError(CodeInternal, "internal error")
	}

	s.advance(&state, models.ConnStateProfileUpdated)
	if err := s.users.UpdateWallet(ctx, user.ID, at.method, address, balance); err != nil {
		s.log.Error("wallet binding update failed after audit write",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, NewServiceError(CodeInternal, "internal error")
	}

	// Best-effort broadcast, decoupled from the response path. Failures are
	// not pushed; they are visible through the log and aggregation only.
	if err := s.publisher.Publish(ctx, events.StreamWallet, events.Event{
		Type: events.EventWalletConnected,
		Payload: map[string]any{
			"user_id":   user.ID.String(),
			"method":    at.method,
			"address":   address,
			"balance":   balance,
			"timestamp": entry.CreatedAt.Format(time.RFC3339),
		},
	}); err != nil {
		s.log.Warn("wallet-connected broadcast failed", zap.Error(err))
	}

	s.log.Info("wallet connected",
		zap.String("user_id", user.ID.String()),
		zap.String("method", at.method),
		zap.String("address", address),
	)

	return &ConnectResult{Method: at.method, Address: address, Balance: balance}, nil
}

// reject terminates the attempt: records the failed audit row and returns the
// caller-facing error. No profile mutation, no broadcast.
func (s *ConnectService) reject(ctx context.Context, state *string, userID uuid.UUID, at attempt, address, reason string, cause *ServiceError) error {
	s.advance(state, models.ConnStateRejected)
	s.advance(state, models.ConnStateLogged)

	entry := s.buildEntry(userID, at, address, 0, models.ValidationStatusFailed, &reason)
	if err := s.logs.Append(ctx, entry); err != nil {
		s.log.Error("audit write failed, rejection not recorded",
			zap.String("user_id", userID.String()),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return NewServiceError(CodeInternal, "internal error")
	}
	return cause
}

func (s *ConnectService) buildEntry(userID uuid.UUID, at attempt, address string, balance float64, status string, reason *string) *models.WalletLog {
	entry := &models.WalletLog{
		UserID:           userID,
		WalletMethod:     at.method,
		WalletAddress:    address,
		Balance:          balance,
		ConnectionType:   at.connectionType,
		ValidationStatus: status,
		ErrorReason:      reason,
		IPAddress:        at.ipAddress,
		UserAgent:        at.userAgent,
	}
	if at.secret != "" {
		hash, redacted := models.RedactSecret(at.secret)
		entry.InputHash = &hash
		entry.InputRedacted = &redacted
	}
	return entry
}

// advance moves the attempt to its next state. An illegal transition is a
// programming error, not a runtime condition.
func (s *ConnectService) advance(state *string, next string) {
	if !models.IsValidConnectionTransition(*state, next) {
		s.log.DPanic("invalid connection state transition",
			zap.String("from", *state),
			zap.String("to", next),
		)
	}
	*state = next
}
