// Package admin は管理者向けの集計ダッシュボードを提供します。
package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/auth"
	"github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// Role はダッシュボードにアクセスできるロールです。
const Role = "admin"

// Store はダッシュボードが必要とする読み取り操作をまとめたインターフェースです。
type Store interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
	ListHabits(ctx context.Context) ([]storage.Habit, error)
	ListEntries(ctx context.Context) ([]storage.Entry, error)
}

// DashboardHandler は GET /admin/dashboard のハンドラーを返します。
// 全ユーザー・全習慣・全記録をフィルタもページングもせずに描画します。
// 小規模データ前提の割り切りで、スケールしないのは既知の制限です。
func DashboardHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		usuarios, err := store.ListUsers(ctx)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar el panel de administración.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		habitos, err := store.ListHabits(ctx)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar el panel de administración.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		seguimientos, err := store.ListEntries(ctx)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar el panel de administración.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
			"flashes":      session.Flashes(c),
			"currentUser":  auth.CurrentUser(c),
			"usuarios":     usuarios,
			"habitos":      habitos,
			"seguimientos": seguimientos,
		})
	}
}
