// Package session はクッキーまたは Redis を背後に持つセッション状態への
// 型付きアクセスと、一度だけ表示するフラッシュ通知のキューを提供します。
package session

import (
	"encoding/gob"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName はセッションクッキーの名前です。
const CookieName = "ht_session"

const (
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "username"
)

var maxSessionLifetime = 12 * time.Hour

// MaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func MaxAgeSeconds() int {
	return int(maxSessionLifetime.Seconds())
}

// フラッシュ通知の深刻度。テンプレート側で表示スタイルの選択に使います。
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Flash は次のページ描画で一度だけ表示される通知です。
type Flash struct {
	Level   string
	Message string
}

func init() {
	// クッキーストアと Redis ストアはどちらも gob でシリアライズするため登録が必要。
	gob.Register(Flash{})
}

// SetUser はセッションに現在ユーザーのIDとユーザー名を束縛します。
func SetUser(c *gin.Context, userID int64, username string) error {
	s := sessions.Default(c)
	s.Set(sessionKeyUserID, userID)
	s.Set(sessionKeyUsername, username)
	return s.Save()
}

// CurrentUserID はセッションに束縛されたユーザーIDを返します。
func CurrentUserID(c *gin.Context) (int64, bool) {
	id, ok := sessions.Default(c).Get(sessionKeyUserID).(int64)
	return id, ok
}

// CurrentUsername はセッションに束縛されたユーザー名を返します。
func CurrentUsername(c *gin.Context) (string, bool) {
	name, ok := sessions.Default(c).Get(sessionKeyUsername).(string)
	return name, ok
}

// ClearUser はユーザー束縛だけを取り除きます。フラッシュキューは維持されるため、
// ログアウト直後の通知を失わずに済みます。未ログインでの呼び出しは no-op です。
func ClearUser(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(sessionKeyUserID)
	s.Delete(sessionKeyUsername)
	return s.Save()
}

// AddFlash は次のリクエストで表示する通知をキューに追加します。
func AddFlash(c *gin.Context, level, message string) error {
	s := sessions.Default(c)
	s.AddFlash(Flash{Level: level, Message: message})
	return s.Save()
}

// Flashes はキューされた通知をすべて取り出し、キューを空にして保存します。
func Flashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	// Flashes の呼び出しでキューから除去されるので、その状態を永続化する。
	_ = s.Save()

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
