// Package tracking は習慣の達成記録の登録と一覧表示のハンドラーを提供します。
package tracking

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/auth"
	"github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// dateLayout はフォームの fecha フィールドが使う日付形式です。
const dateLayout = "2006-01-02"

// Store は記録機能が必要とする永続化の操作サブセットです。
type Store interface {
	CreateEntry(ctx context.Context, userID, habitID int64, fecha time.Time, cumplido bool) (*storage.Entry, error)
	ListEntriesForUser(ctx context.Context, userID int64) ([]storage.Entry, error)
}

// HabitLister はフォームの選択肢となる習慣一覧の取得を提供します。
type HabitLister interface {
	ListHabitsForUser(ctx context.Context, userID int64) ([]storage.Habit, error)
}

// FormHandler は GET /registrar_seguimiento のハンドラーを返します。
// 現在ユーザーの習慣を選択肢に持つフォームと、過去の全記録を描画します。
func FormHandler(store Store, habits HabitLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		habitos, err := habits.ListHabitsForUser(c.Request.Context(), user.ID)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar los hábitos.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		seguimientos, err := store.ListEntriesForUser(c.Request.Context(), user.ID)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar los seguimientos.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		c.HTML(http.StatusOK, "registrar_seguimiento.html", gin.H{
			"flashes":      session.Flashes(c),
			"currentUser":  user,
			"habitos":      habitos,
			"seguimientos": seguimientos,
		})
	}
}

// CreateHandler は POST /registrar_seguimiento のハンドラーを返します。
// habit_id が現在ユーザーに関連付いているかは検証せず、同一日の重複記録も拒否しません。
// フォームは本人の習慣しか提示しませんが、ハンドラー側での再検証は行わない仕様です。
func CreateHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		habitID, err := strconv.ParseInt(c.PostForm("habit_id"), 10, 64)
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Debes seleccionar un hábito.")
			c.Redirect(http.StatusFound, "/registrar_seguimiento")
			return
		}

		fecha, err := time.Parse(dateLayout, c.PostForm("fecha"))
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "La fecha no es válida.")
			c.Redirect(http.StatusFound, "/registrar_seguimiento")
			return
		}

		// チェックボックスは値が送られてきたら達成扱い。
		cumplido := c.PostForm("cumplido") != ""

		if _, err := store.CreateEntry(c.Request.Context(), user.ID, habitID, fecha, cumplido); err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al registrar el seguimiento.")
			c.Redirect(http.StatusFound, "/registrar_seguimiento")
			return
		}

		c.Redirect(http.StatusFound, "/registrar_seguimiento")
	}
}
