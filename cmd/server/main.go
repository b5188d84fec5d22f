package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dgstudios-backend/internal/auth"
	"dgstudios-backend/internal/config"
	"dgstudios-backend/internal/curation"
	"dgstudios-backend/internal/database"
	"dgstudios-backend/internal/events"
	"dgstudios-backend/internal/handlers"
	"dgstudios-backend/internal/instagram"
	"dgstudios-backend/internal/logger"
	"dgstudios-backend/internal/middleware"
	"dgstudios-backend/internal/portfolio"
	"dgstudios-backend/internal/ratelimit"
	"dgstudios-backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.Development)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	rdb := connectRedis(ctx, cfg.RedisURL, log)
	if rdb != nil {
		defer rdb.Close()
	}

	policy := curation.UseSnapshot
	if cfg.HeroSnapshotPolicy == config.SnapshotPolicyLive {
		policy = curation.RefetchLive
	}

	bus := events.NewBus()
	portfolioSvc := portfolio.NewService(st, bus, log)
	curationSvc := curation.NewService(st, bus, log, curation.WithSnapshotPolicy(policy))
	authSvc := auth.NewService(st, cfg.JWTSecret, cfg.JWTTTL, log)

	var feedCache instagram.Cache
	if rdb != nil {
		feedCache = instagram.NewRedisCache(rdb)
	}
	feed := instagram.NewClient(instagram.Config{
		AccessToken: cfg.Instagram.AccessToken,
		UserID:      cfg.Instagram.UserID,
		Limit:       cfg.Instagram.Limit,
		CacheTTL:    cfg.Instagram.CacheTTL,
	}, feedCache, log)

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal("invalid trusted proxies", zap.Strings("trusted_proxies", cfg.TrustedProxies), zap.Error(err))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.HealthCheck("/health"))

	handlers.Routes{
		Portfolio:  handlers.NewPortfolioHandler(portfolioSvc, log),
		HeroSlides: handlers.NewHeroSlideHandler(curationSvc, log),
		Auth:       handlers.NewAuthHandler(authSvc, cfg.AdminRegistrationEnabled, log),
		Instagram:  handlers.NewInstagramHandler(feed),
		Admin:      middleware.AdminMiddleware(cfg.JWTSecret),
		LoginLimit: loginLimiter(cfg, rdb, log),
	}.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// openStore uses Postgres when DATABASE_URL is set and the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return store.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return database.NewPostgresStore(db), func() { db.Close() }, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, url string, log *zap.Logger) *redis.Client {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("invalid redis url, continuing without redis", zap.Error(err))
		return nil
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis ping failed, continuing without redis", zap.Error(err))
		rdb.Close()
		return nil
	}
	log.Info("redis connected")
	return rdb
}

func loginLimiter(cfg *config.Config, rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	if cfg.LoginRateLimit == 0 {
		return nil
	}
	if rdb != nil {
		return middleware.RateLimit(ratelimit.NewRedisLimiter(rdb, "dg:login", cfg.LoginRateLimit), log)
	}
	return middleware.RateLimit(ratelimit.NewLocalLimiter(cfg.LoginRateLimit), log)
}
