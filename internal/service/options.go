package service

import (
	"context"
	"time"

	"wallet_ledger/internal/events"
	"wallet_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletCache interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uuid.UUID) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evs ...events.LedgerEvent) error
}

type Recorder interface {
	ObserveOperation(operation, result string, elapsed time.Duration)
	AddAmount(operation string, amount decimal.Decimal)
}

type Option func(*WalletService)

func WithCache(c WalletCache) Option {
	return func(s *WalletService) {
		s.cache = c
		s.notify = true
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *WalletService) {
		s.publisher = p
		s.notify = true
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *WalletService) { s.metrics = r }
}

func WithMaxRetries(n int) Option {
	return func(s *WalletService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func WithCurrency(currency string) Option {
	return func(s *WalletService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

type noopCache struct{}

func (noopCache) GetWallet(context.Context, uuid.UUID) (*models.Wallet, error) {
	return nil, errCacheDisabled
}
func (noopCache) SetWallet(context.Context, *models.Wallet) error   { return nil }
func (noopCache) InvalidateWallet(context.Context, uuid.UUID) error { return nil }

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, string, time.Duration) {}
func (noopRecorder) AddAmount(string, decimal.Decimal)              {}
