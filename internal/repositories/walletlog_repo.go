package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bruteosaur/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LogFilter narrows List queries. Zero values mean "no filter".
type LogFilter struct {
	UserID *uuid.UUID
	Status string
	Method string
	From   *time.Time
	To     *time.Time
}

const logColumns = `id, seq, user_id, wallet_method, wallet_address, balance, connection_type,
	input_hash, input_redacted, validation_status, error_reason, ip_address, user_agent, created_at`

// WalletLogRepo is the append-only audit store for connection attempts.
// Rows are never updated or deleted.
type WalletLogRepo struct {
	pool *pgxpool.Pool
}

func NewWalletLogRepo(pool *pgxpool.Pool) *WalletLogRepo {
	return &WalletLogRepo{pool: pool}
}

func (r *WalletLogRepo) Append(ctx context.Context, entry *models.WalletLog) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO wallet_logs (
			user_id, wallet_method, wallet_address, balance, connection_type,
			input_hash, input_redacted, validation_status, error_reason, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, seq, created_at
	`, entry.UserID, entry.WalletMethod, entry.WalletAddress, entry.Balance, entry.ConnectionType,
		entry.InputHash, entry.InputRedacted, entry.ValidationStatus, entry.ErrorReason,
		entry.IPAddress, entry.UserAgent,
	).Scan(&entry.ID, &entry.Seq, &entry.CreatedAt)
}

func (r *WalletLogRepo) scanLog(row interface{ Scan(...any) error }) (*models.WalletLog, error) {
	var l models.WalletLog
	err := row.Scan(&l.ID, &l.Seq, &l.UserID, &l.WalletMethod, &l.WalletAddress, &l.Balance,
		&l.ConnectionType, &l.InputHash, &l.InputRedacted, &l.ValidationStatus, &l.ErrorReason,
		&l.IPAddress, &l.UserAgent, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// buildWhere renders the filter as a WHERE clause. prefix qualifies columns
// for joined queries where names like created_at would be ambiguous.
func (f LogFilter) buildWhere(prefix string) (string, []any) {
	where := "TRUE"
	args := []any{}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where += fmt.Sprintf(" AND %suser_id = $%d", prefix, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND %svalidation_status = $%d", prefix, len(args))
	}
	if f.Method != "" {
		args = append(args, f.Method)
		where += fmt.Sprintf(" AND %swallet_method = $%d", prefix, len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND %screated_at >= $%d", prefix, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND %screated_at < $%d", prefix, len(args))
	}
	return where, args
}

// List returns one page of audit rows plus the total match count. Ordering is
// created_at DESC with seq DESC breaking ties, so concurrent appends never
// shuffle rows between adjacent pages.
func (r *WalletLogRepo) List(ctx context.Context, filter LogFilter, page, pageSize int) ([]models.WalletLog, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	where, args := filter.buildWhere("")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM wallet_logs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM wallet_logs WHERE %s ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d`,
		logColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []models.WalletLog
	for rows.Next() {
		l, err := r.scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *l)
	}
	return logs, total, rows.Err()
}

func (r *WalletLogRepo) scanLogWithUser(row interface{ Scan(...any) error }) (*models.WalletLogWithUser, error) {
	var l models.WalletLogWithUser
	err := row.Scan(&l.ID, &l.Seq, &l.UserID, &l.WalletMethod, &l.WalletAddress, &l.Balance,
		&l.ConnectionType, &l.InputHash, &l.InputRedacted, &l.ValidationStatus, &l.ErrorReason,
		&l.IPAddress, &l.UserAgent, &l.CreatedAt, &l.UserName, &l.UserEmail)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const joinedLogColumns = `l.id, l.seq, l.user_id, l.wallet_method, l.wallet_address, l.balance, l.connection_type,
	l.input_hash, l.input_redacted, l.validation_status, l.error_reason, l.ip_address, l.user_agent, l.created_at,
	u.name, u.email`

// ListWithUsers is List joined with the owning user's name and email, for the
// operator console.
func (r *WalletLogRepo) ListWithUsers(ctx context.Context, filter LogFilter, page, pageSize int) ([]models.WalletLogWithUser, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	where, args := filter.buildWhere("l.")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM wallet_logs l WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM wallet_logs l JOIN users u ON u.id = l.user_id
		 WHERE %s ORDER BY l.created_at DESC, l.seq DESC LIMIT $%d OFFSET $%d`,
		joinedLogColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []models.WalletLogWithUser
	for rows.Next() {
		l, err := r.scanLogWithUser(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *l)
	}
	return logs, total, rows.Err()
}

func (r *WalletLogRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM wallet_logs WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *WalletLogRepo) CountByStatusSince(ctx context.Context, status string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM wallet_logs WHERE validation_status = $1 AND created_at >= $2`,
		status, since).Scan(&n)
	return n, err
}

// SumSuccessBalances totals the balances of all successful attempts, the base
// figure for the dashboard revenue metric.
func (r *WalletLogRepo) SumSuccessBalances(ctx context.Context) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(sum(balance), 0) FROM wallet_logs WHERE validation_status = $1`,
		models.ValidationStatusSuccess).Scan(&sum)
	return sum, err
}
