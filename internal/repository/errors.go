package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExist  = errors.New("wallet already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero with at most two decimal places")
	ErrWalletInactive      = errors.New("wallet is inactive")
	ErrSelfTransfer        = errors.New("cannot transfer to the same wallet")
	ErrCurrencyMismatch    = errors.New("wallet currencies do not match")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidReference    = errors.New("invalid transaction reference")
	ErrPersistence         = errors.New("persistence failure")
)

// ValidateAmount accepts strictly positive amounts that fit the two decimal
// places of the balance column.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// IsRetryable reports whether err is a serialization failure or a deadlock,
// after which the whole operation may be started again.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
