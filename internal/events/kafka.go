package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"wallet_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventDeposited   = "wallet.deposited"
	EventWithdrawn   = "wallet.withdrawn"
	EventTransferred = "wallet.transferred"
)

// LedgerEvent is published once per committed ledger entry.
type LedgerEvent struct {
	EventType           string                 `json:"event_type"`
	WalletID            uuid.UUID              `json:"wallet_id"`
	UserID              uuid.UUID              `json:"user_id"`
	TransactionID       uuid.UUID              `json:"transaction_id"`
	PairedTransactionID *uuid.UUID             `json:"paired_transaction_id,omitempty"`
	Type                models.TransactionType `json:"type"`
	Amount              string                 `json:"amount"`
	BalanceAfter        string                 `json:"balance_after"`
	Currency            string                 `json:"currency"`
	OccurredAt          time.Time              `json:"occurred_at"`
}

// NewLedgerEvent describes t, which was applied to wallet.
func NewLedgerEvent(wallet *models.Wallet, t *models.WalletTransaction) LedgerEvent {
	eventType := EventDeposited
	switch t.Type {
	case models.TypeWithdrawal:
		eventType = EventWithdrawn
	case models.TypeTransferIn, models.TypeTransferOut:
		eventType = EventTransferred
	}
	return LedgerEvent{
		EventType:           eventType,
		WalletID:            t.WalletID,
		UserID:              wallet.UserID,
		TransactionID:       t.ID,
		PairedTransactionID: t.PairedID,
		Type:                t.Type,
		Amount:              t.Amount.StringFixed(2),
		BalanceAfter:        t.BalanceAfter.StringFixed(2),
		Currency:            wallet.Currency,
		OccurredAt:          t.CreatedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}
	return newPublisher(writer, logger)
}

func newPublisher(writer messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish writes all events in one batch. Events are keyed by wallet so a
// wallet's entries stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...LedgerEvent) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", e.EventType, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.WalletID.String()),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.EventType)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write ledger events: %w", err)
	}
	p.logger.Debug("Published ledger events", slog.Int("count", len(msgs)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...LedgerEvent) error { return nil }
