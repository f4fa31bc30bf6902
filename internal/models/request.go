package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=credit_card bank_transfer paypal"`
}

type AccountDetails struct {
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	BankName      string `json:"bank_name" binding:"required"`
}

type WithdrawRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod  string          `json:"payment_method" binding:"required,oneof=credit_card bank_transfer paypal"`
	AccountDetails AccountDetails  `json:"account_details" binding:"required"`
	Note           string          `json:"note" binding:"max=500"`
}

type TransferRequest struct {
	RecipientID uuid.UUID       `json:"recipient_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Note        string          `json:"note" binding:"max=255"`
}

type HistoryQuery struct {
	Type     string `form:"type" binding:"omitempty,oneof=deposit withdrawal transfer_in transfer_out"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

var ErrInvalidDateRange = errors.New("date_to must not be before date_from")

// Filter converts the bound query into a repository filter.
func (q HistoryQuery) Filter() (TransactionFilter, error) {
	var f TransactionFilter
	if q.Type != "" {
		t := TransactionType(q.Type)
		f.Type = &t
	}
	if q.DateFrom != "" {
		d, err := time.Parse(time.DateOnly, q.DateFrom)
		if err != nil {
			return f, err
		}
		f.DateFrom = &d
	}
	if q.DateTo != "" {
		d, err := time.Parse(time.DateOnly, q.DateTo)
		if err != nil {
			return f, err
		}
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, ErrInvalidDateRange
	}
	return f, nil
}
