package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payroll/internal/events"
	"go-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Refresher re-materialises one kind of eligibility-driven assignment.
type Refresher struct {
	Name    string
	Refresh func(ctx context.Context) error
}

var refreshingEvents = map[string]bool{
	events.EmployeeCreated:       true,
	events.EmployeeUpdated:       true,
	events.EmployeeStatusChanged: true,
	events.EmployeeGradeChanged:  true,
}

// ConsumeEmployeeLifecycle keeps staff salary items and credit-union
// memberships in step with the HR directory. A message is committed only
// once every refresher succeeded, so a failed refresh is retried.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	refreshers []Refresher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		if err := HandleLifecycleMessage(ctx, msg, refreshers, log); err != nil {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// HandleLifecycleMessage returns an error only when the message should be
// redelivered. Undecodable or irrelevant messages are acknowledged.
func HandleLifecycleMessage(ctx context.Context, msg kafkago.Message, refreshers []Refresher, log *zap.Logger) error {
	var event events.EmployeeLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	if !refreshingEvents[event.EventType] {
		log.Debug("ignoring employee lifecycle event", zap.String("event_type", event.EventType))
		return nil
	}

	if event.RequestID != "" {
		ctx = contextutil.WithRequestID(ctx, event.RequestID)
	}
	ctx = contextutil.WithLogger(ctx, log.With(zap.String("employee_id", event.EmployeeID)))

	var errs []error
	for _, r := range refreshers {
		if err := r.Refresh(ctx); err != nil {
			log.Error("eligibility refresh failed",
				zap.String("refresher", r.Name),
				zap.String("employee_id", event.EmployeeID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info("eligibility refreshed from lifecycle event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("event_type", event.EventType),
	)
	return nil
}
