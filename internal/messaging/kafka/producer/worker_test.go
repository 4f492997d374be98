package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	kafkaMock "go-payroll/internal/messaging/kafka/mock"
	"go-payroll/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	sent   []kafkago.Message
	failOn string
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failOn {
			return errors.New("broker unavailable")
		}
		w.sent = append(w.sent, m)
	}
	return nil
}

func TestProcessPending(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)

	ok, err := kafka.NewOutboxEvent("req-1", "payroll", "p-1", "payroll.processed", events.PayrollProcessedTopic,
		events.PayrollProcessedEvent{EventType: "payroll.processed", PayrollID: "p-1"})
	require.NoError(t, err)
	bad, err := kafka.NewOutboxEvent("", "loan", "l-1", "loan.repaid", events.LoanRepaidTopic,
		events.LoanRepaidEvent{EventType: "loan.repaid", LoanID: "l-1"})
	require.NoError(t, err)

	repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{ok, bad}, nil)
	repo.EXPECT().MarkSent(ctx, ok.ID).Return(nil)
	repo.EXPECT().MarkFailed(ctx, bad.ID, "broker unavailable").Return(nil)

	writer := &fakeWriter{failOn: "l-1"}
	sent, err := producer.ProcessPending(ctx, repo, writer, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, writer.sent, 1)
	msg := writer.sent[0]
	assert.Equal(t, events.PayrollProcessedTopic, msg.Topic)
	assert.Equal(t, "p-1", string(msg.Key))
	assert.Contains(t, msg.Headers, kafkago.Header{Key: "request_id", Value: []byte("req-1")})
}
