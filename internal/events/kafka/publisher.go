package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/payhook/payments-backend/internal/models"
	"github.com/segmentio/kafka-go"
)

type paymentProcessed struct {
	PaymentID     int64        `json:"payment_id"`
	TransactionID string       `json:"transaction_id"`
	UserID        int64        `json:"user_id"`
	AccountID     int64        `json:"account_id"`
	Amount        models.Money `json:"amount"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(broker, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) PaymentProcessed(ctx context.Context, payment models.Payment) error {
	data, err := json.Marshal(paymentProcessed{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		UserID:        payment.UserID,
		AccountID:     payment.AccountID,
		Amount:        payment.Amount,
		OccurredAt:    payment.CreatedAt,
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payment.TransactionID),
		Value: data,
	})
}

func (p *Publisher) Close() error { return p.writer.Close() }
