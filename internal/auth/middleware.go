package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// ContextUserKey は、リクエスト単位で解決した現在ユーザーを共有するためのキーです。
const ContextUserKey = "auth.user"

// LoadCurrentUser はセッションのユーザーIDを永続化層で解決し、
// リクエストスコープのコンテキストに現在ユーザーを載せるミドルウェアを返します。
// 解決結果はリクエストをまたいでキャッシュされません。
func (m *Manager) LoadCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := session.CurrentUserID(c); ok {
			if user, err := m.users.GetUserByID(c.Request.Context(), id); err == nil {
				c.Set(ContextUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser はミドルウェアが解決した現在ユーザーを返します。未ログインなら nil です。
func CurrentUser(c *gin.Context) *storage.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*storage.User)
	return user
}

// RequireAuthenticated はログイン済みユーザーのみを通すミドルウェアです。
// 未ログインの場合はログイン画面へ転送し、後続のハンドラーは実行されません。
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			_ = session.AddFlash(c, session.LevelWarning, "Debes iniciar sesión para continuar.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole は指定ロールのユーザーのみを通すミドルウェアです。
// 判定はロール文字列の等価比較で、未ログインの場合も拒否されます。
func RequireRole(rol string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Rol != rol {
			_ = session.AddFlash(c, session.LevelDanger, "Acceso restringido a administradores.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
