// Package web は誰でも閲覧できるページ（トップとユーザー一覧）のハンドラーを提供します。
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/auth"
	"github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
)

// UserLister はユーザー一覧の取得を提供します。
type UserLister interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
}

// HomeHandler は GET / のハンドラーを返します。
func HomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "base.html", gin.H{
			"flashes":     session.Flashes(c),
			"currentUser": auth.CurrentUser(c),
		})
	}
}

// UsersHandler は GET /usuarios のハンドラーを返します。認証なしで閲覧できる読み取り専用一覧です。
func UsersHandler(store UserLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		usuarios, err := store.ListUsers(c.Request.Context())
		if err != nil {
			_ = session.AddFlash(c, session.LevelDanger, "Error al cargar los usuarios.")
			c.Redirect(http.StatusFound, "/")
			return
		}

		c.HTML(http.StatusOK, "usuarios.html", gin.H{
			"flashes":     session.Flashes(c),
			"currentUser": auth.CurrentUser(c),
			"usuarios":    usuarios,
		})
	}
}
