// Package auth は登録・ログイン・ログアウトとロールによる認可を提供します。
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// UserStore は認証が必要とするユーザー永続化の操作サブセットです。
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, rol string) (*storage.User, error)
	GetUserByID(ctx context.Context, id int64) (*storage.User, error)
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)
}

// Manager は認証処理をまとめた構造体です。
type Manager struct {
	users  UserStore
	hasher *PasswordHasher
}

// NewManager は認証マネージャーを作成します。
func NewManager(users UserStore, hasher *PasswordHasher) *Manager {
	return &Manager{users: users, hasher: hasher}
}

// RegisterForm は GET /registro のハンドラーです。ログイン済みならユーザー一覧へ転送します。
func (m *Manager) RegisterForm(c *gin.Context) {
	if _, ok := session.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/usuarios")
		return
	}
	c.HTML(http.StatusOK, "registro.html", gin.H{
		"flashes": session.Flashes(c),
	})
}

// Register は POST /registro のハンドラーです。
// 検証・重複エラーはフラッシュ通知に変換してフォームへ戻します。
func (m *Manager) Register(c *gin.Context) {
	if _, ok := session.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/usuarios")
		return
	}

	username := strings.TrimSpace(c.PostForm("usuario"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if username == "" || password == "" || confirm == "" {
		_ = session.AddFlash(c, session.LevelDanger, "Todos los campos son obligatorios.")
		c.Redirect(http.StatusFound, "/registro")
		return
	}
	if password != confirm {
		_ = session.AddFlash(c, session.LevelDanger, "Las contraseñas no coinciden.")
		c.Redirect(http.StatusFound, "/registro")
		return
	}

	// 先行チェック。同時登録ではここを通過してもコミット時に一意制約違反になり得るので、
	// CreateUser が返す ErrUsernameTaken も同じ通知に変換する。
	_, err := m.users.GetUserByUsername(c.Request.Context(), username)
	if err == nil {
		_ = session.AddFlash(c, session.LevelWarning, "El nombre de usuario ya existe.")
		c.Redirect(http.StatusFound, "/registro")
		return
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		_ = session.AddFlash(c, session.LevelDanger, "Error al crear la cuenta.")
		c.Redirect(http.StatusFound, "/registro")
		return
	}

	digest, err := m.hasher.Hash(password)
	if err != nil {
		_ = session.AddFlash(c, session.LevelDanger, "Error al crear la cuenta.")
		c.Redirect(http.StatusFound, "/registro")
		return
	}

	if _, err := m.users.CreateUser(c.Request.Context(), username, digest, storage.RoleDefault); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			_ = session.AddFlash(c, session.LevelWarning, "El nombre de usuario ya existe.")
		} else {
			_ = session.AddFlash(c, session.LevelDanger, "Error al crear la cuenta.")
		}
		c.Redirect(http.StatusFound, "/registro")
		return
	}

	_ = session.AddFlash(c, session.LevelSuccess, "Cuenta creada exitosamente. Por favor, inicia sesión.")
	c.Redirect(http.StatusFound, "/login")
}

// LoginForm は GET /login のハンドラーです。ログイン済みならトップへ転送します。
func (m *Manager) LoginForm(c *gin.Context) {
	if _, ok := session.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"flashes": session.Flashes(c),
	})
}

// Login は POST /login のハンドラーです。
// ユーザー名不明とパスワード不一致は区別せず、同じ汎用メッセージで失敗させます。
func (m *Manager) Login(c *gin.Context) {
	if _, ok := session.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		_ = session.AddFlash(c, session.LevelDanger, "Nombre de usuario y contraseña son obligatorios.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := m.users.GetUserByUsername(c.Request.Context(), username)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		_ = session.AddFlash(c, session.LevelDanger, "Error al iniciar sesión.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil || !m.hasher.Verify(user.PasswordHash, password) {
		_ = session.AddFlash(c, session.LevelDanger, "Nombre de usuario o contraseña incorrectos.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := session.SetUser(c, user.ID, user.Username); err != nil {
		_ = session.AddFlash(c, session.LevelDanger, "Error al iniciar sesión.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	_ = session.AddFlash(c, session.LevelSuccess, "Inicio de sesión exitoso!")
	c.Redirect(http.StatusFound, "/")
}

// Logout は GET /logout のハンドラーです。未ログインで呼ばれても同じ結果になります。
func (m *Manager) Logout(c *gin.Context) {
	_ = session.ClearUser(c)
	_ = session.AddFlash(c, session.LevelInfo, "Has cerrado sesión.")
	c.Redirect(http.StatusFound, "/login")
}
