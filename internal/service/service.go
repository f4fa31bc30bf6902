package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wallet_ledger/internal/events"
	"wallet_ledger/internal/metrics"
	"wallet_ledger/internal/models"
	"wallet_ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_wallet_repository.go -package=mocks WalletRepository

type WalletRepository interface {
	GetOrCreateWallet(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, bool, error)
	GetWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error)
	GetWalletByUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Deposit(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.WalletTransaction, error)
	Withdraw(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.WalletTransaction, error)
	Transfer(ctx context.Context, sourceID, targetID uuid.UUID, entry models.Entry) (*models.TransferResult, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, filter models.TransactionFilter, page models.Page) (*models.TransactionPage, error)
	LatestTransactions(ctx context.Context, walletID uuid.UUID, n int) ([]models.WalletTransaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error)
	SetActive(ctx context.Context, walletID uuid.UUID, active bool) error
}

const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opTransfer = "transfer"

	summarySize = 5
)

var errCacheDisabled = errors.New("cache disabled")

type WalletService struct {
	repo       WalletRepository
	logger     *slog.Logger
	cache      WalletCache
	publisher  EventPublisher
	metrics    Recorder
	notify     bool
	maxRetries int
	currency   string
}

func NewWalletService(repo WalletRepository, logger *slog.Logger, opts ...Option) *WalletService {
	s := &WalletService{
		repo:       repo,
		logger:     logger,
		cache:      noopCache{},
		publisher:  events.NoopPublisher{},
		metrics:    noopRecorder{},
		maxRetries: 3,
		currency:   models.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on first use.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, created, err := s.repo.GetOrCreateWallet(ctx, userID, s.currency)
	if err != nil {
		s.logger.Error("Failed to get or create wallet",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	if created {
		s.logger.Info("Wallet created",
			slog.String("user_id", userID.String()),
			slog.String("wallet_id", wallet.ID.String()),
		)
	}
	return wallet, nil
}

// GetWallet serves the user's wallet from cache when possible. Ledger
// operations never use this path; they read the locked row.
func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
		return wallet, nil
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWallet(ctx, wallet); err != nil {
		s.logger.Warn("Failed to cache wallet",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
	}
	return wallet, nil
}

func (s *WalletService) Deposit(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.WalletTransaction, error) {
	start := time.Now()
	if err := repository.ValidateAmount(entry.Amount); err != nil {
		s.logger.Error("Deposit failed: invalid amount",
			slog.String("wallet_id", walletID.String()),
			slog.String("amount", entry.Amount.String()),
		)
		s.record(opDeposit, start, err)
		return nil, err
	}

	txn, err := withRetry(ctx, s, opDeposit, walletID, func() (*models.WalletTransaction, error) {
		return s.repo.Deposit(ctx, walletID, entry)
	})
	s.record(opDeposit, start, err)
	if err != nil {
		s.logFailure("Deposit", walletID, entry.Amount, err)
		return nil, err
	}

	s.metrics.AddAmount(opDeposit, txn.Amount)
	s.afterCommit(ctx, txn)
	return txn, nil
}

func (s *WalletService) Withdraw(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.WalletTransaction, error) {
	start := time.Now()
	if err := repository.ValidateAmount(entry.Amount); err != nil {
		s.logger.Error("Withdraw failed: invalid amount",
			slog.String("wallet_id", walletID.String()),
			slog.String("amount", entry.Amount.String()),
		)
		s.record(opWithdraw, start, err)
		return nil, err
	}

	txn, err := withRetry(ctx, s, opWithdraw, walletID, func() (*models.WalletTransaction, error) {
		return s.repo.Withdraw(ctx, walletID, entry)
	})
	s.record(opWithdraw, start, err)
	if err != nil {
		s.logFailure("Withdraw", walletID, entry.Amount, err)
		return nil, err
	}

	s.metrics.AddAmount(opWithdraw, txn.Amount)
	s.afterCommit(ctx, txn)
	return txn, nil
}

func (s *WalletService) Transfer(ctx context.Context, sourceID, targetID uuid.UUID, entry models.Entry) (*models.TransferResult, error) {
	start := time.Now()
	if err := repository.ValidateAmount(entry.Amount); err != nil {
		s.record(opTransfer, start, err)
		return nil, err
	}
	if sourceID == targetID {
		s.logger.Warn("Transfer failed: source and target are the same wallet",
			slog.String("wallet_id", sourceID.String()),
		)
		s.record(opTransfer, start, repository.ErrSelfTransfer)
		return nil, repository.ErrSelfTransfer
	}

	result, err := withRetry(ctx, s, opTransfer, sourceID, func() (*models.TransferResult, error) {
		return s.repo.Transfer(ctx, sourceID, targetID, entry)
	})
	s.record(opTransfer, start, err)
	if err != nil {
		s.logFailure("Transfer", sourceID, entry.Amount, err)
		return nil, err
	}

	s.metrics.AddAmount(opTransfer, entry.Amount)
	s.afterCommit(ctx, result.Withdrawal, result.Deposit)
	return result, nil
}

// TransferToUser moves funds between two users, creating the recipient's
// wallet if they never had one.
func (s *WalletService) TransferToUser(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, note string) (*models.TransferResult, error) {
	if senderID == recipientID {
		s.logger.Warn("Transfer failed: sender is the recipient",
			slog.String("user_id", senderID.String()),
		)
		return nil, repository.ErrSelfTransfer
	}

	source, err := s.GetOrCreateWallet(ctx, senderID)
	if err != nil {
		return nil, err
	}
	target, err := s.GetOrCreateWallet(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"sender_id":    senderID.String(),
		"recipient_id": recipientID.String(),
	}
	if note != "" {
		meta["note"] = note
	}

	return s.Transfer(ctx, source.ID, target.ID, models.Entry{
		Amount:      amount,
		Description: "Wallet transfer",
		Meta:        meta,
		CausedBy:    models.UserRef(senderID),
	})
}

// TopUp credits funds the user added through a payment method. The receipt
// reference is stored in the transaction meta.
func (s *WalletService) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, paymentMethod string) (*models.WalletTransaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Deposit(ctx, wallet.ID, models.Entry{
		Amount:      amount,
		Description: "Wallet top-up",
		Meta: map[string]any{
			"payment_method": paymentMethod,
			"reference":      "WALLET-" + ulid.Make().String(),
		},
		CausedBy: models.UserRef(userID),
	})
}

// RequestWithdrawal debits funds the user asked to pay out.
func (s *WalletService) RequestWithdrawal(
	ctx context.Context,
	userID uuid.UUID,
	amount decimal.Decimal,
	paymentMethod string,
	account models.AccountDetails,
	note string,
) (*models.WalletTransaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	meta := map[string]any{
		"payment_method": paymentMethod,
		"account_details": map[string]any{
			"account_number": account.AccountNumber,
			"account_name":   account.AccountName,
			"bank_name":      account.BankName,
		},
	}
	if note != "" {
		meta["note"] = note
	}
	return s.Withdraw(ctx, wallet.ID, models.Entry{
		Amount:      amount,
		Description: "Withdrawal request",
		Meta:        meta,
		CausedBy:    models.UserRef(userID),
	})
}

// Refund credits an order refund to the buyer's wallet.
func (s *WalletService) Refund(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal, reason string) (*models.WalletTransaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	meta := map[string]any{"order_id": orderID.String()}
	if reason != "" {
		meta["reason"] = reason
	}
	return s.Deposit(ctx, wallet.ID, models.Entry{
		Amount:      amount,
		Description: fmt.Sprintf("Refund for order %s", orderID),
		Meta:        meta,
		CausedBy:    models.OrderRef(orderID),
	})
}

func (s *WalletService) ListTransactions(ctx context.Context, walletID uuid.UUID, filter models.TransactionFilter, page models.Page) (*models.TransactionPage, error) {
	res, err := s.repo.ListTransactions(ctx, walletID, filter, page)
	if err != nil {
		s.logger.Error("ListTransactions failed",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return res, nil
}

// ListUserTransactions lists the history of the user's own wallet.
func (s *WalletService) ListUserTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter, page models.Page) (*models.TransactionPage, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ListTransactions(ctx, wallet.ID, filter, page)
}

func (s *WalletService) LatestTransactions(ctx context.Context, walletID uuid.UUID, n int) ([]models.WalletTransaction, error) {
	items, err := s.repo.LatestTransactions(ctx, walletID, n)
	if err != nil {
		s.logger.Error("LatestTransactions failed",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return items, nil
}

// GetTransactionForUser returns a transaction only when it belongs to the
// user's wallet. Foreign transactions look missing.
func (s *WalletService) GetTransactionForUser(ctx context.Context, userID, transactionID uuid.UUID) (*models.WalletTransaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.WalletID != wallet.ID {
		s.logger.Warn("Transaction requested by another user",
			slog.String("user_id", userID.String()),
			slog.String("transaction_id", transactionID.String()),
		)
		return nil, repository.ErrTransactionNotFound
	}
	return txn, nil
}

func (s *WalletService) SetWalletActive(ctx context.Context, walletID uuid.UUID, active bool) error {
	wallet, err := s.repo.GetWallet(ctx, walletID)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, walletID, active); err != nil {
		s.logger.Error("Failed to change wallet state",
			slog.String("wallet_id", walletID.String()),
			slog.Bool("active", active),
			slog.Any("err", err),
		)
		return err
	}
	s.logger.Info("Wallet state changed",
		slog.String("wallet_id", walletID.String()),
		slog.Bool("active", active),
	)
	s.invalidate(ctx, wallet.UserID)
	return nil
}

// Summary is the wallet overview: balance plus the most recent entries.
func (s *WalletService) Summary(ctx context.Context, userID uuid.UUID) (*models.WalletSummary, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.LatestTransactions(ctx, wallet.ID, summarySize)
	if err != nil {
		return nil, err
	}
	return &models.WalletSummary{Wallet: wallet, RecentTransactions: recent}, nil
}

// withRetry re-runs the whole operation when Postgres aborted it with a
// serialization failure or deadlock. Nothing is resumed mid-way.
func withRetry[T any](ctx context.Context, s *WalletService, op string, walletID uuid.UUID, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		if !repository.IsRetryable(err) {
			return zero, err
		}
		s.logger.Warn("Retrying "+op,
			slog.String("wallet_id", walletID.String()),
			slog.Int("attempt", i+1),
			slog.Any("err", err),
		)
		lastErr = err

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(1<<i) * 10 * time.Millisecond):
		}
	}
	return zero, lastErr
}

func (s *WalletService) logFailure(op string, walletID uuid.UUID, amount decimal.Decimal, err error) {
	attrs := []any{
		slog.String("wallet_id", walletID.String()),
		slog.String("amount", amount.String()),
	}
	switch {
	case errors.Is(err, repository.ErrWalletNotFound):
		s.logger.Warn(op+" failed: wallet not found", attrs...)
	case isRejection(err):
		s.logger.Warn(op+" rejected", append(attrs, slog.Any("err", err))...)
	default:
		s.logger.Error(op+" failed", append(attrs, slog.Any("err", err))...)
	}
}

func (s *WalletService) record(op string, start time.Time, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case isRejection(err), errors.Is(err, repository.ErrWalletNotFound):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	s.metrics.ObserveOperation(op, result, time.Since(start))
}

func isRejection(err error) bool {
	return errors.Is(err, repository.ErrInvalidAmount) ||
		errors.Is(err, repository.ErrInsufficientBalance) ||
		errors.Is(err, repository.ErrWalletInactive) ||
		errors.Is(err, repository.ErrSelfTransfer) ||
		errors.Is(err, repository.ErrCurrencyMismatch) ||
		errors.Is(err, repository.ErrInvalidReference)
}

// afterCommit runs the side effects of committed entries. Its failures are
// logged and never reach the caller: the ledger is already written.
func (s *WalletService) afterCommit(ctx context.Context, txns ...*models.WalletTransaction) {
	if !s.notify {
		return
	}

	evs := make([]events.LedgerEvent, 0, len(txns))
	for _, t := range txns {
		wallet, err := s.repo.GetWallet(ctx, t.WalletID)
		if err != nil {
			s.logger.Warn("Failed to load wallet after commit",
				slog.String("wallet_id", t.WalletID.String()),
				slog.Any("err", err),
			)
			continue
		}
		s.invalidate(ctx, wallet.UserID)
		evs = append(evs, events.NewLedgerEvent(wallet, t))
	}

	if len(evs) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.logger.Warn("Failed to publish ledger events",
			slog.Int("count", len(evs)),
			slog.Any("err", err),
		)
	}
}

func (s *WalletService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate cached wallet",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
	}
}
