package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wallet_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

const transactionColumns = `id, wallet_id, amount, type, description, COALESCE(meta, '{}'::jsonb), balance_after,
	reference_id, referenceable_id, referenceable_type, seq, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.WalletTransaction, error) {
	var (
		t       models.WalletTransaction
		txType  string
		refKind string
	)
	err := row.Scan(
		&t.ID,
		&t.WalletID,
		&t.Amount,
		&txType,
		&t.Description,
		&t.Meta,
		&t.BalanceAfter,
		&t.PairedID,
		&t.Referenceable.ID,
		&refKind,
		&t.Sequence,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(txType)
	t.Referenceable.Kind = models.ReferenceKind(refKind)
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]models.WalletTransaction, error) {
	defer rows.Close()

	items := make([]models.WalletTransaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func normalizePage(p models.Page) models.Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ListTransactions returns one page of the wallet history, newest first.
// DateFrom and DateTo are whole calendar days, both inclusive.
func (r *WalletPGRepository) ListTransactions(
	ctx context.Context,
	walletID uuid.UUID,
	filter models.TransactionFilter,
	page models.Page,
) (*models.TransactionPage, error) {
	page = normalizePage(page)

	where := []string{"wallet_id = $1", "deleted_at IS NULL"}
	args := []any{walletID}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, startOfDay(*filter.DateFrom))
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, startOfDay(*filter.DateTo).AddDate(0, 0, 1))
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM wallet_transactions WHERE "+cond, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count transactions",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}

	args = append(args, page.PerPage, (page.Number-1)*page.PerPage)
	query := fmt.Sprintf("SELECT %s FROM wallet_transactions WHERE %s ORDER BY seq DESC LIMIT $%d OFFSET $%d",
		transactionColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	items, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	return &models.TransactionPage{
		Items:   items,
		Total:   total,
		Page:    page.Number,
		PerPage: page.PerPage,
	}, nil
}

func (r *WalletPGRepository) LatestTransactions(ctx context.Context, walletID uuid.UUID, n int) ([]models.WalletTransaction, error) {
	if n <= 0 {
		return []models.WalletTransaction{}, nil
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+transactionColumns+" FROM wallet_transactions WHERE wallet_id = $1 AND deleted_at IS NULL ORDER BY seq DESC LIMIT $2",
		walletID, n)
	if err != nil {
		r.logger.Error("Failed to get latest transactions",
			slog.String("wallet_id", walletID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return collectTransactions(rows)
}

func (r *WalletPGRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM wallet_transactions WHERE id = $1 AND deleted_at IS NULL", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get transaction",
			slog.String("transaction_id", id.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	return t, nil
}
