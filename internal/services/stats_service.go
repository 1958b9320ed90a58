package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bruteosaur/backend/internal/models"
	"go.uber.org/zap"
)

type UserStatsStore interface {
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	CountRegisteredSince(ctx context.Context, since time.Time) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}

type LogStatsStore interface {
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByStatusSince(ctx context.Context, status string, since time.Time) (int, error)
	SumSuccessBalances(ctx context.Context) (float64, error)
}

type DashboardStats struct {
	TotalUsers         int     `json:"total_users"`
	ActiveUsers        int     `json:"active_users"`
	TodayRegistrations int     `json:"today_registrations"`
	FailedConnections  int     `json:"failed_connections"`
	TotalRevenue       float64 `json:"total_revenue"`
}

type RealtimeStats struct {
	UsersLast24Hours          int `json:"users_last_24_hours"`
	ConnectionsLastHour       int `json:"connections_last_hour"`
	FailedConnectionsLastHour int `json:"failed_connections_last_hour"`
	ActiveConnections         int `json:"active_connections"`
}

// StatsService computes operator-console aggregates on demand by scanning the
// stores. The sub-counts of one response are read without any transaction, so
// a snapshot may be internally inconsistent while writes are in flight; fine
// for a dashboard, not for reconciliation.
type StatsService struct {
	users    UserStatsStore
	logs     LogStatsStore
	btcPrice float64
	log      *zap.Logger
}

func NewStatsService(users UserStatsStore, logs LogStatsStore, btcPrice float64, log *zap.Logger) *StatsService {
	return &StatsService{users: users, logs: logs, btcPrice: btcPrice, log: log}
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.users.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.ActiveUsers, err = s.users.CountByStatus(ctx, models.UserStatusActive); err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if stats.TodayRegistrations, err = s.users.CountRegisteredSince(ctx, midnight); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if stats.FailedConnections, err = s.logs.CountByStatusSince(ctx, models.ValidationStatusFailed, midnight); err != nil {
		return nil, fmt.Errorf("count failed connections: %w", err)
	}

	sum, err := s.logs.SumSuccessBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum balances: %w", err)
	}
	stats.TotalRevenue = sum * s.btcPrice

	return stats, nil
}

func (s *StatsService) Realtime(ctx context.Context) (*RealtimeStats, error) {
	now := time.Now()
	last24h := now.Add(-24 * time.Hour)
	lastHour := now.Add(-time.Hour)
	last5min := now.Add(-5 * time.Minute)

	stats := &RealtimeStats{}
	var err error

	if stats.UsersLast24Hours, err = s.users.CountRegisteredSince(ctx, last24h); err != nil {
		return nil, fmt.Errorf("count recent registrations: %w", err)
	}
	if stats.ConnectionsLastHour, err = s.logs.CountSince(ctx, lastHour); err != nil {
		return nil, fmt.Errorf("count recent connections: %w", err)
	}
	if stats.FailedConnectionsLastHour, err = s.logs.CountByStatusSince(ctx, models.ValidationStatusFailed, lastHour); err != nil {
		return nil, fmt.Errorf("count recent failures: %w", err)
	}
	if stats.ActiveConnections, err = s.users.CountActiveSince(ctx, last5min); err != nil {
		return nil, fmt.Errorf("count active connections: %w", err)
	}

	return stats, nil
}
