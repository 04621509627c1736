// Package habits は習慣の作成と一覧表示のハンドラーを提供します。
package habits

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/auth"
	"github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// Store は習慣機能が必要とする永続化の操作サブセットです。
type Store interface {
	CreateHabitForUser(ctx context.Context, userID int64, nombre, descripcion string) (*storage.Habit, error)
	ListHabitsForUser(ctx context.Context, userID int64) ([]storage.Habit, error)
}

// FormHandler は GET /nuevo_habito のハンドラーを返します。
// 現在ユーザーに関連付いた習慣の一覧と作成フォームを描画します。
func FormHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		habitos, err := store.ListHabitsForUser(c.Request.Context(), user.ID)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar los hábitos.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		c.HTML(http.StatusOK, "nuevo_habito.html", gin.H{
			"flashes":        session.Flashes(c),
			"currentUser":    user,
			"habitosUsuario": habitos,
		})
	}
}

// CreateHandler は POST /nuevo_habito のハンドラーを返します。
// 習慣1行と結合行1行が同一トランザクションで挿入され、成功時はフォームへ戻ります。
func CreateHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		nombre := strings.TrimSpace(c.PostForm("nombre"))
		descripcion := strings.TrimSpace(c.PostForm("descripcion"))

		if nombre == "" || descripcion == "" {
			_ = session.AddFlash(c, session.LevelDanger, "Nombre y descripción son obligatorios.")
			c.Redirect(http.StatusFound, "/nuevo_habito")
			return
		}

		if _, err := store.CreateHabitForUser(c.Request.Context(), user.ID, nombre, descripcion); err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al crear el hábito.")
			c.Redirect(http.StatusFound, "/nuevo_habito")
			return
		}

		c.Redirect(http.StatusFound, "/nuevo_habito")
	}
}
