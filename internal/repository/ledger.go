package repository

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"wallet_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const pairedReferenceType = "wallet_transaction"

func (r *WalletPGRepository) Deposit(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.WalletTransaction, error) {
	return r.apply(ctx, walletID, entry.Amount, models.TypeDeposit, entry)
}

func (r *WalletPGRepository) Withdraw(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.WalletTransaction, error) {
	return r.apply(ctx, walletID, entry.Amount.Neg(), models.TypeWithdrawal, entry)
}

func (r *WalletPGRepository) apply(
	ctx context.Context,
	walletID uuid.UUID,
	delta decimal.Decimal,
	txType models.TransactionType,
	entry models.Entry,
) (*models.WalletTransaction, error) {
	if err := ValidateAmount(entry.Amount); err != nil {
		return nil, err
	}
	if err := validateReference(entry.CausedBy); err != nil {
		return nil, err
	}

	var created *models.WalletTransaction
	err := r.inTx(ctx, walletID, func(tx pgx.Tx) error {
		wallet, err := r.lockWallet(ctx, tx, walletID)
		if err != nil {
			return err
		}
		created, err = r.applyDelta(ctx, tx, wallet, delta, txType, entry, uuid.New(), nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Transfer moves entry.Amount from source to target. Both balance updates and
// both legs commit together or not at all. Leg ids are allocated up front so
// each leg is written already pointing at its counterpart.
func (r *WalletPGRepository) Transfer(ctx context.Context, sourceID, targetID uuid.UUID, entry models.Entry) (*models.TransferResult, error) {
	if err := ValidateAmount(entry.Amount); err != nil {
		return nil, err
	}
	if sourceID == targetID {
		return nil, ErrSelfTransfer
	}
	if err := validateReference(entry.CausedBy); err != nil {
		return nil, err
	}

	var result *models.TransferResult
	err := r.inTx(ctx, sourceID, func(tx pgx.Tx) error {
		source, target, err := r.lockPair(ctx, tx, sourceID, targetID)
		if err != nil {
			return err
		}
		if !source.IsActive || !target.IsActive {
			return ErrWalletInactive
		}
		if source.Currency != target.Currency {
			return ErrCurrencyMismatch
		}

		outID, inID := uuid.New(), uuid.New()

		withdrawal, err := r.applyDelta(ctx, tx, source, entry.Amount.Neg(), models.TypeTransferOut, entry, outID, &inID)
		if err != nil {
			return err
		}

		inEntry := entry
		inEntry.Meta = mergeMeta(entry.Meta, map[string]any{"source_wallet_id": source.ID.String()})
		deposit, err := r.applyDelta(ctx, tx, target, entry.Amount, models.TypeTransferIn, inEntry, inID, &outID)
		if err != nil {
			return err
		}

		result = &models.TransferResult{Withdrawal: withdrawal, Deposit: deposit}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *WalletPGRepository) lockWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (*models.Wallet, error) {
	wallet, err := scanWallet(tx.QueryRow(ctx,
		"SELECT "+walletColumns+" FROM wallets WHERE id = $1 AND deleted_at IS NULL FOR UPDATE", walletID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		r.logger.Error("Failed to select wallet for update",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, persistenceError("lock wallet", err)
	}
	return wallet, nil
}

// lockPair locks both rows in ascending id order so two opposite transfers
// cannot deadlock each other.
func (r *WalletPGRepository) lockPair(ctx context.Context, tx pgx.Tx, sourceID, targetID uuid.UUID) (*models.Wallet, *models.Wallet, error) {
	first, second := sourceID, targetID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}

	a, err := r.lockWallet(ctx, tx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := r.lockWallet(ctx, tx, second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

// applyDelta is the single place a balance changes. The caller must hold the
// row lock on wallet inside tx.
func (r *WalletPGRepository) applyDelta(
	ctx context.Context,
	tx pgx.Tx,
	wallet *models.Wallet,
	delta decimal.Decimal,
	txType models.TransactionType,
	entry models.Entry,
	id uuid.UUID,
	pairedID *uuid.UUID,
) (*models.WalletTransaction, error) {
	if !wallet.IsActive {
		return nil, ErrWalletInactive
	}

	newBalance := wallet.Balance.Add(delta)
	if newBalance.IsNegative() {
		r.logger.Warn("Insufficient balance",
			slog.String("wallet_id", wallet.ID.String()),
			slog.String("balance", wallet.Balance.String()),
			slog.String("delta", delta.String()),
		)
		return nil, ErrInsufficientBalance
	}

	var activityAt time.Time
	err := tx.QueryRow(ctx, `
		UPDATE wallets SET balance = $1, last_activity_at = clock_timestamp(), updated_at = clock_timestamp()
		WHERE id = $2
		RETURNING last_activity_at`, newBalance, wallet.ID).Scan(&activityAt)
	if err != nil {
		r.logger.Error("Failed to update wallet balance",
			slog.String("wallet_id", wallet.ID.String()),
			slog.Any("err", err),
		)
		return nil, persistenceError("update balance", err)
	}
	wallet.Balance = newBalance
	wallet.LastActivityAt = &activityAt
	wallet.UpdatedAt = activityAt

	ref := models.WalletRef(wallet.ID)
	if entry.CausedBy != nil {
		ref = entry.CausedBy
	}

	created := &models.WalletTransaction{
		ID:            id,
		WalletID:      wallet.ID,
		Amount:        delta,
		Type:          txType,
		Description:   entry.Description,
		Meta:          mergeMeta(entry.Meta, nil),
		BalanceAfter:  newBalance,
		PairedID:      pairedID,
		Referenceable: *ref,
	}

	var referenceType *string
	if pairedID != nil {
		t := pairedReferenceType
		referenceType = &t
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO wallet_transactions (
			id, wallet_id, amount, type, description, meta, balance_after,
			reference_id, reference_type, referenceable_id, referenceable_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq, created_at, updated_at`,
		created.ID,
		created.WalletID,
		created.Amount,
		string(created.Type),
		created.Description,
		created.Meta,
		created.BalanceAfter,
		created.PairedID,
		referenceType,
		created.Referenceable.ID,
		string(created.Referenceable.Kind),
	).Scan(&created.Sequence, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert wallet transaction",
			slog.String("wallet_id", wallet.ID.String()),
			slog.String("type", string(txType)),
			slog.String("amount", delta.String()),
			slog.Any("err", err),
		)
		return nil, persistenceError("insert transaction", err)
	}

	return created, nil
}

func validateReference(ref *models.Reference) error {
	if ref == nil {
		return nil
	}
	if !ref.Kind.Valid() || ref.ID == uuid.Nil {
		return ErrInvalidReference
	}
	return nil
}

// mergeMeta returns a fresh, never nil map holding base overlaid by extra.
func mergeMeta(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
