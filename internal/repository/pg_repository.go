package repository

import (
	"context"
	"errors"
	"log/slog"

	"wallet_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const walletColumns = `id, user_id, balance, currency, is_active, last_activity_at, created_at, updated_at, deleted_at`

type WalletPGRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewWalletPGRepository(pool *pgxpool.Pool, logger *slog.Logger) *WalletPGRepository {
	return &WalletPGRepository{
		pool:   pool,
		logger: logger,
	}
}

// inTx runs fn inside one read-committed transaction. Any error returned by fn
// rolls the whole unit back.
func (r *WalletPGRepository) inTx(ctx context.Context, walletID uuid.UUID, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		r.logger.Error("Failed to begin transaction",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return persistenceError("begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error("Failed to rollback transaction",
				slog.String("wallet_id", walletID.String()),
				slog.Any("err", err),
			)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit transaction",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return persistenceError("commit", err)
	}
	return nil
}

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Balance,
		&w.Currency,
		&w.IsActive,
		&w.LastActivityAt,
		&w.CreatedAt,
		&w.UpdatedAt,
		&w.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreateWallet returns the wallet of userID, creating an empty one on
// first use. The unique constraint on user_id makes concurrent calls settle on
// a single row. A soft-deleted wallet is never recreated.
func (r *WalletPGRepository) GetOrCreateWallet(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, bool, error) {
	if currency == "" {
		currency = models.DefaultCurrency
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO wallets (id, user_id, currency) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`, uuid.New(), userID, currency)
	if err != nil {
		r.logger.Error("Failed to upsert wallet",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
		return nil, false, persistenceError("upsert wallet", err)
	}

	wallet, err := r.GetWalletByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return wallet, tag.RowsAffected() == 1, nil
}

// CreateWallet inserts a wallet with a caller chosen id and fails with
// ErrWalletAlreadyExist when the id or the user already has one.
func (r *WalletPGRepository) CreateWallet(ctx context.Context, walletID, userID uuid.UUID, currency string) error {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	_, err := r.pool.Exec(ctx, "INSERT INTO wallets (id, user_id, currency) VALUES ($1, $2, $3)", walletID, userID, currency)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrWalletAlreadyExist
		}
		r.logger.Error("Failed to create wallet",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return persistenceError("create wallet", err)
	}
	return nil
}

func (r *WalletPGRepository) GetWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	wallet, err := scanWallet(r.pool.QueryRow(ctx,
		"SELECT "+walletColumns+" FROM wallets WHERE id = $1 AND deleted_at IS NULL", walletID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get wallet",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return wallet, nil
}

func (r *WalletPGRepository) GetWalletByUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := scanWallet(r.pool.QueryRow(ctx,
		"SELECT "+walletColumns+" FROM wallets WHERE user_id = $1 AND deleted_at IS NULL", userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get wallet by user",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return wallet, nil
}

func (r *WalletPGRepository) SetActive(ctx context.Context, walletID uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE wallets SET is_active = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL", active, walletID)
	if err != nil {
		r.logger.Error("Failed to update wallet status",
			slog.String("wallet_id", walletID.String()),
			slog.Bool("active", active),
			slog.Any("err", err),
		)
		return persistenceError("set wallet status", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// SoftDeleteWallet hides the wallet from every read and mutation. Rows are
// kept for retention.
func (r *WalletPGRepository) SoftDeleteWallet(ctx context.Context, walletID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE wallets SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL", walletID)
	if err != nil {
		r.logger.Error("Failed to soft delete wallet",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return persistenceError("soft delete wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}
