package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker publishes the outbox and periodically flags overdue loans.
func RunWorker(cfg Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	loanService := loan.NewService(sqlDB, loan.NewRepository(gormDB), employee.NewRepository(gormDB), outboxRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		producer.ProcessOutboxEvents(gctx, outboxRepo, kafkaWriter, logger, cfg.OutboxPollInterval)
		return nil
	})
	g.Go(func() error {
		sweepLoans(gctx, loanService, cfg.LoanSweepInterval, logger)
		return nil
	})

	err = g.Wait()
	logger.Info("worker shutting down")
	return err
}

func sweepLoans(ctx context.Context, svc loan.Service, interval time.Duration, logger *zap.Logger) {
	log := logger.Named("loan_sweep")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.MarkDefaulted(ctx)
			if err != nil {
				log.Error("mark defaulted loans failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("loans marked defaulted", zap.Int64("count", n))
			}
		}
	}
}
