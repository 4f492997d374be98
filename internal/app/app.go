package app

import (
	"database/sql"
	"time"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// connectDB opens gorm and hands back the shared *sql.DB services use for transactions.
func connectDB(cfg Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.ConnectRetries,
	)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

// corsConfig allows every origin outside production. In production only the
// configured allowlist is accepted, and with no allowlist CORS stays off.
func corsConfig(cfg Config) (cors.Config, bool) {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders,
		middleware.HeaderRequestID,
		middleware.HeaderActorID,
		middleware.HeaderActorRole,
		middleware.HeaderIdempotencyKey,
	)
	c.ExposeHeaders = []string{middleware.HeaderRequestID, "Idempotent-Replay", "Content-Disposition"}
	c.MaxAge = 12 * time.Hour

	if !cfg.Production() {
		c.AllowAllOrigins = true
		return c, true
	}
	if len(cfg.CORSOrigins) == 0 {
		return c, false
	}
	c.AllowOrigins = cfg.CORSOrigins
	return c, true
}

// BuildApp connects infrastructure, installs the global middleware and
// registers every module. The returned func closes the connections.
func BuildApp(router *gin.Engine, cfg Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	if c, ok := corsConfig(cfg); ok {
		router.Use(cors.New(c))
	}
	router.Use(
		middleware.RequestID(),
		middleware.ActorContext(),
		middleware.ContextLogger(zap.L()),
	)

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb); err != nil {
		rdb.Close()
		sqlDB.Close()
		return nil, err
	}

	return func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}, nil
}
