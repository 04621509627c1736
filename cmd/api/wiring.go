package main

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/habit-tracker/internal/config"
	appsession "github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// newSessionStore は設定に応じたセッションストアを作成します。
// 既定は署名付きクッキー、SESSION_BACKEND=redis のときはサーバー側保存になります。
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		opt, err := redis.ParseURL(cfg.SessionRedisURL)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opt)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		return appsession.NewRedisStore(client, []byte(cfg.SecretKey)), nil
	default:
		return cookie.NewStore([]byte(cfg.SecretKey)), nil
	}
}

// dashboardStore は3つのリポジトリを束ねて admin.Store を満たすアダプターです。
type dashboardStore struct {
	users    *storage.UserRepository
	habits   *storage.HabitRepository
	tracking *storage.TrackingRepository
}

func (s *dashboardStore) ListUsers(ctx context.Context) ([]storage.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *dashboardStore) ListHabits(ctx context.Context) ([]storage.Habit, error) {
	return s.habits.ListHabits(ctx)
}

func (s *dashboardStore) ListEntries(ctx context.Context) ([]storage.Entry, error) {
	return s.tracking.ListEntries(ctx)
}
