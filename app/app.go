package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"olilab/config"
	"olilab/db"
	"olilab/inventory"
	"olilab/mailer"
	"olilab/report"
	"olilab/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB // STORE_DRIVER=postgres 时才有
	RDB      *redis.Client
	Engine   *inventory.Engine
	Sessions *session.AppSessionStore
	Config   Config
	Log      zerolog.Logger
}

// Config 从环境变量读取
type Config struct {
	Port        string
	WebOrigin   string
	StoreDriver string // postgres | redis | memory
	Postgres    db.PostgresConfig
	RedisAddr   string
	RedisPwd    string
	SessionTTL  time.Duration
	SMTP        mailer.SMTPConfig
	GeminiKey   string
	GeminiModel string
}

func New(ctx context.Context, log zerolog.Logger) (*App, error) {
	cfg := loadConfig()

	// --- Redis：会话（以及 redis 存储模式下的聚合） ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	a := &App{RDB: rdb, Config: cfg, Log: log}

	// --- 聚合存储 ---
	var store inventory.Store
	switch cfg.StoreDriver {
	case "memory":
		store = db.NewMemoryStore()
	case "redis":
		store = db.NewRedisStore(rdb, "")
	default:
		conn, err := db.ConnectDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.DB = conn
		store = db.NewRepo(conn)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("state store ready")

	// --- 邮件 ---
	var sender mailer.Sender = mailer.NewLogSender(log.With().Str("component", "mailer").Logger())
	if cfg.SMTP.Host != "" {
		sender = mailer.NewSMTPSender(cfg.SMTP)
	}

	engine, err := inventory.NewEngine(ctx, store,
		inventory.WithLogger(log.With().Str("component", "engine").Logger()),
		inventory.WithSink(mailer.NewDispatcher(sender)),
		inventory.WithReporter(report.NewGemini(cfg.GeminiKey, cfg.GeminiModel, log)),
	)
	if err != nil {
		return nil, err
	}
	a.Engine = engine
	a.Sessions = session.NewAppSessionStore(rdb, cfg.SessionTTL)

	// --- Gin ---
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))
	useCORS(r, cfg.WebOrigin)
	a.Router = r
	return a, nil
}

// MustNew 启动失败直接退出
func MustNew(ctx context.Context, log zerolog.Logger) *App {
	a, err := New(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app")
	}
	return a
}

func (a *App) Close() {
	a.Engine.Wait()
	_ = a.RDB.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func loadConfig() Config {
	get := config.Get
	var ttl = 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}
	return Config{
		Port:        get("PORT", "3001"),
		WebOrigin:   get("WEB_ORIGIN", "http://localhost:5173"),
		StoreDriver: strings.ToLower(get("STORE_DRIVER", "postgres")),
		Postgres: db.PostgresConfig{
			Host:     get("DB_HOST", "127.0.0.1"),
			User:     get("DB_USER", "postgres"),
			Password: get("DB_PASSWORD", ""),
			Name:     get("DB_NAME", "olilab"),
			Port:     get("DB_PORT", "5432"),
		},
		RedisAddr:  get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:   get("REDIS_PASSWORD", ""),
		SessionTTL: ttl,
		SMTP: mailer.SMTPConfig{
			Host:     get("SMTP_HOST", ""),
			Port:     get("SMTP_PORT", "587"),
			User:     get("SMTP_USER", ""),
			Password: get("SMTP_PASSWORD", ""),
			From:     get("SMTP_FROM", "no-reply@olilab.app"),
		},
		GeminiKey:   get("GEMINI_API_KEY", ""),
		GeminiModel: get("GEMINI_MODEL", report.DefaultModel),
	}
}
