package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

type Wallet struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	Balance        decimal.Decimal `db:"balance" json:"balance"`
	Currency       string          `db:"currency" json:"currency"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	LastActivityAt *time.Time      `db:"last_activity_at" json:"last_activity_at,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time      `db:"deleted_at" json:"-"`
}

type TransactionType string

const (
	TypeDeposit     TransactionType = "deposit"
	TypeWithdrawal  TransactionType = "withdrawal"
	TypeTransferIn  TransactionType = "transfer_in"
	TypeTransferOut TransactionType = "transfer_out"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransferIn, TypeTransferOut:
		return true
	}
	return false
}

// ReferenceKind names what caused a ledger entry.
type ReferenceKind string

const (
	RefOrder  ReferenceKind = "order"
	RefUser   ReferenceKind = "user"
	RefWallet ReferenceKind = "wallet"
)

func (k ReferenceKind) Valid() bool {
	return k == RefOrder || k == RefUser || k == RefWallet
}

// Reference is the entity that triggered a transaction. Build it with
// OrderRef, UserRef or WalletRef.
type Reference struct {
	Kind ReferenceKind `json:"type"`
	ID   uuid.UUID     `json:"id"`
}

func OrderRef(orderID uuid.UUID) *Reference { return &Reference{Kind: RefOrder, ID: orderID} }

func UserRef(userID uuid.UUID) *Reference { return &Reference{Kind: RefUser, ID: userID} }

func WalletRef(walletID uuid.UUID) *Reference { return &Reference{Kind: RefWallet, ID: walletID} }

type WalletTransaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	WalletID      uuid.UUID       `db:"wallet_id" json:"wallet_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Type          TransactionType `db:"type" json:"type"`
	Description   string          `db:"description" json:"description"`
	Meta          map[string]any  `db:"meta" json:"meta"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	PairedID      *uuid.UUID      `db:"reference_id" json:"paired_transaction_id,omitempty"`
	Referenceable Reference       `json:"referenceable"`
	Sequence      int64           `db:"seq" json:"-"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

func (t *WalletTransaction) IsDeposit() bool {
	return t.Amount.IsPositive()
}

func (t *WalletTransaction) IsWithdrawal() bool {
	return t.Amount.IsNegative()
}

// FormattedAmount renders the amount as "+ 100.00 USD" or "- 30.00 USD".
func (t *WalletTransaction) FormattedAmount(currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	sign := "-"
	if t.IsDeposit() {
		sign = "+"
	}
	return fmt.Sprintf("%s %s %s", sign, t.Amount.Abs().StringFixed(2), currency)
}

// Entry carries the caller supplied part of one ledger operation.
type Entry struct {
	Amount      decimal.Decimal
	Description string
	Meta        map[string]any
	CausedBy    *Reference
}

type TransferResult struct {
	Withdrawal *WalletTransaction `json:"withdrawal"`
	Deposit    *WalletTransaction `json:"deposit"`
}

type TransactionFilter struct {
	Type     *TransactionType
	DateFrom *time.Time
	DateTo   *time.Time
}

type Page struct {
	Number  int
	PerPage int
}

type TransactionPage struct {
	Items   []WalletTransaction `json:"items"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

type WalletSummary struct {
	Wallet             *Wallet             `json:"wallet"`
	RecentTransactions []WalletTransaction `json:"recent_transactions"`
}
