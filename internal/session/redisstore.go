package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"net/http"
	"strings"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gorillasessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore はセッション本体を Redis に保存するストアです。
// クッキーには署名付きのセッションIDだけを置き、値は session:<id> キーに
// gob でシリアライズして TTL 付きで保存します。
type RedisStore struct {
	client *redis.Client
	codecs []securecookie.Codec
	opts   *gorillasessions.Options
}

// NewRedisStore は Redis ストアを作成します。keyPairs はセッションIDクッキーの署名鍵です。
func NewRedisStore(client *redis.Client, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(keyPairs...),
		opts: &gorillasessions.Options{
			Path:   "/",
			MaxAge: MaxAgeSeconds(),
		},
	}
}

// Options はミドルウェア登録時に指定されたクッキー設定を適用します。
func (s *RedisStore) Options(options ginsessions.Options) {
	s.opts = &gorillasessions.Options{
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
}

// Get はリクエスト内でキャッシュされたセッションを返します。
func (s *RedisStore) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

// New はクッキーのセッションIDを検証し、Redis から値を読み出してセッションを復元します。
// クッキーが無い、署名が不正、または Redis に値が無い場合は新規セッションになります。
func (s *RedisStore) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	session := gorillasessions.NewSession(s, name)
	opts := *s.opts
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	found, err := s.load(r.Context(), session)
	if err != nil {
		return session, err
	}
	session.IsNew = !found
	return session, nil
}

// Save はセッションを Redis に書き込み、署名済みセッションIDをクッキーに設定します。
// MaxAge が 0 以下の場合はセッションを破棄します。
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gorillasessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge <= 0 {
		if err := s.erase(ctx, session); err != nil {
			return err
		}
		http.SetCookie(w, gorillasessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(ctx, session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gorillasessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) load(ctx context.Context, session *gorillasessions.Session) (bool, error) {
	data, err := s.client.Get(ctx, redisKey(session.ID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) save(ctx context.Context, session *gorillasessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	return s.client.Set(ctx, redisKey(session.ID), buf.Bytes(), ttl).Err()
}

func (s *RedisStore) erase(ctx context.Context, session *gorillasessions.Session) error {
	if session.ID == "" {
		return nil
	}
	return s.client.Del(ctx, redisKey(session.ID)).Err()
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}
