package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/creditunion"
	"go-payroll/internal/eligibility"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/salaryitem"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// eligibilityRefreshers rebuilds every eligibility-driven assignment.
func eligibilityRefreshers(db *sql.DB, gormDB *gorm.DB) []consumer.Refresher {
	employeeRepo := employee.NewRepository(gormDB)
	resolver := eligibility.NewResolver(employeeRepo)
	salaryItems := salaryitem.NewService(db, salaryitem.NewRepository(gormDB), employeeRepo, resolver)
	creditUnions := creditunion.NewService(db, creditunion.NewRepository(gormDB), resolver)

	return []consumer.Refresher{
		{Name: "salary_items", Refresh: func(ctx context.Context) error {
			_, err := salaryItems.ResyncAll(ctx)
			return err
		}},
		{Name: "credit_unions", Refresh: func(ctx context.Context) error {
			_, err := creditUnions.ResyncAll(ctx)
			return err
		}},
	}
}

func RunConsumer(cfg Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeLifecycleTopic,
		GroupID:        "go-payroll-eligibility",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeEmployeeLifecycle(ctx, reader, eligibilityRefreshers(sqlDB, gormDB), logger)
	logger.Info("consumer shutting down")
	return nil
}

// RunEligibilityRefresh resyncs every salary item and credit union once.
func RunEligibilityRefresh(cfg Config) error {
	logger := zap.L().Named("app.eligibility_refresh")

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx := context.Background()
	var failed int
	for _, r := range eligibilityRefreshers(sqlDB, gormDB) {
		if err := r.Refresh(ctx); err != nil {
			failed++
			logger.Error("refresh failed", zap.String("refresher", r.Name), zap.Error(err))
			continue
		}
		logger.Info("refresh complete", zap.String("refresher", r.Name))
	}
	if failed > 0 {
		return fmt.Errorf("%d eligibility refreshers failed", failed)
	}
	return nil
}
