// Package main はサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/habit-tracker/internal/admin"
	"github.com/yourusername/habit-tracker/internal/auth"
	"github.com/yourusername/habit-tracker/internal/config"
	"github.com/yourusername/habit-tracker/internal/habits"
	appsession "github.com/yourusername/habit-tracker/internal/session"
	"github.com/yourusername/habit-tracker/internal/storage"
	"github.com/yourusername/habit-tracker/internal/tracking"
	"github.com/yourusername/habit-tracker/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.SecretGenerated {
		// フォールバック鍵は再起動で変わるため、既存のセッションはすべて無効になる
		log.Printf("SECRET_KEY is not set; using a process-lifetime random key (sessions will not survive a restart)")
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// スキーマを最新化してから接続プールを張る
	if err := storage.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	pool, err := storage.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// セッションストアの設定（バックエンドは設定で cookie / redis を切り替え）
	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   appsession.MaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.Use(sessions.Sessions(appsession.CookieName, store))
	router.LoadHTMLGlob(cfg.TemplatesGlob)

	// リポジトリと認証マネージャーの配線
	users := storage.NewUserRepository(pool)
	habitsRepo := storage.NewHabitRepository(pool)
	trackingRepo := storage.NewTrackingRepository(pool)
	authManager := auth.NewManager(users, auth.NewPasswordHasher(cfg.BcryptCost))

	// 現在ユーザーはリクエストごとに一度だけ解決する
	router.Use(authManager.LoadCurrentUser())

	setupRoutes(router, authManager, users, habitsRepo, trackingRepo)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "habit-tracker",
		"version": "0.1.0",
	})
}

// setupRoutes はルーティングと認可ガードの配線を行います。
func setupRoutes(
	router *gin.Engine,
	authManager *auth.Manager,
	users *storage.UserRepository,
	habitsRepo *storage.HabitRepository,
	trackingRepo *storage.TrackingRepository,
) {
	router.GET("/health", handleHealth)

	// 誰でも閲覧できるページ
	router.GET("/", web.HomeHandler())
	router.GET("/usuarios", web.UsersHandler(users))

	// 認証フロー（ログイン済みユーザーはハンドラー側で転送される）
	router.GET("/registro", authManager.RegisterForm)
	router.POST("/registro", authManager.Register)
	router.GET("/login", authManager.LoginForm)
	router.POST("/login", authManager.Login)
	router.GET("/logout", authManager.Logout)

	// 要ログインのページ
	protected := router.Group("", auth.RequireAuthenticated())
	{
		protected.GET("/nuevo_habito", habits.FormHandler(habitsRepo))
		protected.POST("/nuevo_habito", habits.CreateHandler(habitsRepo))
		protected.GET("/registrar_seguimiento", tracking.FormHandler(trackingRepo, habitsRepo))
		protected.POST("/registrar_seguimiento", tracking.CreateHandler(trackingRepo))
	}

	// 管理者専用ページ
	adminRoutes := router.Group("/admin", auth.RequireRole(admin.Role))
	{
		adminRoutes.GET("/dashboard", admin.DashboardHandler(&dashboardStore{
			users:    users,
			habits:   habitsRepo,
			tracking: trackingRepo,
		}))
	}
}
