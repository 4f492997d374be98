package main

import (
	"go-payroll/internal/app"
	"go-payroll/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := app.LoadConfig()

	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunEligibilityRefresh(cfg); err != nil {
		logger.Fatal("run eligibility refresh failed", zap.Error(err))
	}
}
