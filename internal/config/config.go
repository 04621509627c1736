// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SessionBackend はセッションデータの保存先を表します。
type SessionBackend string

const (
	// SessionBackendCookie は署名付きクッキーにセッション全体を保存します。
	SessionBackendCookie SessionBackend = "cookie"
	// SessionBackendRedis はセッションIDのみをクッキーに置き、本体を Redis に保存します。
	SessionBackendRedis SessionBackend = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// データベース設定
	DatabaseURL   string // PostgreSQL の接続文字列
	MigrationsDir string // golang-migrate が読むマイグレーションのディレクトリ

	// セッション設定
	SecretKey       string         // セッション署名用の秘密鍵
	SecretGenerated bool           // SECRET_KEY 未設定でランダム値を生成したかどうか
	SessionBackend  SessionBackend // セッションの保存先 (cookie または redis)
	SessionRedisURL string         // redis バックエンド利用時の接続URL

	// サーバー設定
	Port    string // HTTPサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// パスワードハッシュ設定
	BcryptCost int // bcrypt のコストパラメータ

	// テンプレート設定
	TemplatesGlob string // HTMLテンプレートのグロブパターン
}

// Load は環境変数から設定を読み込みます。
// .env ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env ファイルを読み込む（存在しない場合はスキップ）
	_ = godotenv.Load()

	config := &Config{
		// データベース設定
		DatabaseURL:   getEnv("DB_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		// セッション設定
		SecretKey:       getEnv("SECRET_KEY", ""),
		SessionBackend:  SessionBackend(getEnv("SESSION_BACKEND", string(SessionBackendCookie))),
		SessionRedisURL: getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),

		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// パスワードハッシュ設定（0 のときは bcrypt.DefaultCost を使用）
		BcryptCost: getEnvAsInt("BCRYPT_COST", 0),

		// テンプレート設定
		TemplatesGlob: getEnv("TEMPLATES_GLOB", "templates/*.html"),
	}

	// SECRET_KEY 未設定時はプロセス生存期間だけ有効なランダム値で代替する。
	// この場合、再起動をまたいでセッションは維持されない。
	if config.SecretKey == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate fallback secret key: %w", err)
		}
		config.SecretKey = secret
		config.SecretGenerated = true
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	switch c.SessionBackend {
	case SessionBackendCookie:
		// 追加設定は不要
	case SessionBackendRedis:
		if c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (expected cookie or redis)", c.SessionBackend)
	}
	return nil
}

// randomSecret は SECRET_KEY の代替となるランダム値を生成します。
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
