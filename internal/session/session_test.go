package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/session"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions(session.CookieName, cookie.NewStore([]byte("test-secret"))))
	return router
}

func do(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func carryCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	return rec.Result().Cookies()
}

func TestUserBinding(t *testing.T) {
	router := newTestRouter()
	router.GET("/set", func(c *gin.Context) {
		if err := session.SetUser(c, 9, "alice"); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/get", func(c *gin.Context) {
		id, idOK := session.CurrentUserID(c)
		name, nameOK := session.CurrentUsername(c)
		if !idOK || !nameOK {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "%d:%s", id, name)
	})
	router.GET("/clear", func(c *gin.Context) {
		_ = session.ClearUser(c)
		c.Status(http.StatusOK)
	})

	// 束縛前は匿名
	rec := do(router, "/get", nil)
	if rec.Body.String() != "anonymous" {
		t.Fatalf("expected anonymous, got %q", rec.Body.String())
	}

	rec = do(router, "/set", nil)
	cookies := carryCookies(rec)
	if len(cookies) == 0 {
		t.Fatal("SetUser should persist a session cookie")
	}

	rec = do(router, "/get", cookies)
	if rec.Body.String() != "9:alice" {
		t.Fatalf("expected bound user, got %q", rec.Body.String())
	}

	rec = do(router, "/clear", cookies)
	rec = do(router, "/get", carryCookies(rec))
	if rec.Body.String() != "anonymous" {
		t.Fatalf("expected anonymous after clear, got %q", rec.Body.String())
	}
}

func TestFlashesAreShownOnce(t *testing.T) {
	router := newTestRouter()
	router.GET("/add", func(c *gin.Context) {
		_ = session.AddFlash(c, session.LevelSuccess, "hecho")
		c.Status(http.StatusOK)
	})
	router.GET("/show", func(c *gin.Context) {
		flashes := session.Flashes(c)
		if len(flashes) == 0 {
			c.String(http.StatusOK, "empty")
			return
		}
		c.String(http.StatusOK, "%s:%s", flashes[0].Level, flashes[0].Message)
	})

	rec := do(router, "/add", nil)
	cookies := carryCookies(rec)

	rec = do(router, "/show", cookies)
	if rec.Body.String() != "success:hecho" {
		t.Fatalf("expected queued flash, got %q", rec.Body.String())
	}

	// 取り出したらキューは空になっている
	rec = do(router, "/show", carryCookies(rec))
	if rec.Body.String() != "empty" {
		t.Fatalf("flash should be consumed, got %q", rec.Body.String())
	}
}

// ClearUser はフラッシュキューを消さない。ログアウト直後の通知が生き残る。
func TestClearUserKeepsFlashes(t *testing.T) {
	router := newTestRouter()
	router.GET("/logout-like", func(c *gin.Context) {
		_ = session.SetUser(c, 9, "alice")
		_ = session.ClearUser(c)
		_ = session.AddFlash(c, session.LevelInfo, "Has cerrado sesión.")
		c.Status(http.StatusOK)
	})
	router.GET("/show", func(c *gin.Context) {
		flashes := session.Flashes(c)
		_, loggedIn := session.CurrentUserID(c)
		if loggedIn {
			c.String(http.StatusOK, "still-logged-in")
			return
		}
		if len(flashes) != 1 {
			c.String(http.StatusOK, "no-flash")
			return
		}
		c.String(http.StatusOK, flashes[0].Message)
	})

	rec := do(router, "/logout-like", nil)
	rec = do(router, "/show", carryCookies(rec))
	if rec.Body.String() != "Has cerrado sesión." {
		t.Fatalf("flash should survive ClearUser, got %q", rec.Body.String())
	}
}
