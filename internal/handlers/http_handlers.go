package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wallet_ledger/internal/config"
	"wallet_ledger/internal/middleware"
	"wallet_ledger/internal/models"
	"wallet_ledger/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=http_handlers.go -destination=../mocks/mock_wallet_service.go -package=mocks WalletService

type WalletService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*models.WalletSummary, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, paymentMethod string) (*models.WalletTransaction, error)
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, paymentMethod string, account models.AccountDetails, note string) (*models.WalletTransaction, error)
	TransferToUser(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, note string) (*models.TransferResult, error)
	ListUserTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter, page models.Page) (*models.TransactionPage, error)
	GetTransactionForUser(ctx context.Context, userID, transactionID uuid.UUID) (*models.WalletTransaction, error)
}

type WalletHTTPHandler struct {
	service WalletService
	limits  config.WalletConfig
}

func NewWalletHTTPHandler(service WalletService, limits config.WalletConfig) *WalletHTTPHandler {
	return &WalletHTTPHandler{service: service, limits: limits}
}

// RegisterRoutes mounts the wallet API. Middleware, usually auth, applies to
// every wallet route.
func (h *WalletHTTPHandler) RegisterRoutes(r *gin.Engine, mw ...gin.HandlerFunc) {
	wallet := r.Group("/api/v1/wallet", mw...)
	{
		wallet.GET("", h.HandleSummary)
		wallet.GET("/limits", h.HandleLimits)
		wallet.POST("/deposit", h.HandleDeposit)
		wallet.POST("/withdraw", h.HandleWithdraw)
		wallet.POST("/transfer", h.HandleTransfer)
		wallet.GET("/transactions", h.HandleListTransactions)
		wallet.GET("/transactions/:id", h.HandleGetTransaction)
	}
}

func (h *WalletHTTPHandler) HandleSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	recent := make([]gin.H, 0, len(summary.RecentTransactions))
	for i := range summary.RecentTransactions {
		recent = append(recent, transactionView(&summary.RecentTransactions[i], summary.Wallet.Currency))
	}
	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"data": gin.H{
			"wallet_id":           summary.Wallet.ID,
			"balance":             summary.Wallet.Balance.StringFixed(2),
			"currency":            summary.Wallet.Currency,
			"is_active":           summary.Wallet.IsActive,
			"last_activity_at":    summary.Wallet.LastActivityAt,
			"recent_transactions": recent,
		},
	})
}

func (h *WalletHTTPHandler) HandleLimits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"data": gin.H{
			"currency":       h.limits.Currency,
			"min_deposit":    h.limits.MinDeposit.StringFixed(2),
			"max_deposit":    h.limits.MaxDeposit.StringFixed(2),
			"min_withdrawal": h.limits.MinWithdrawal.StringFixed(2),
			"max_withdrawal": h.limits.MaxWithdrawal.StringFixed(2),
		},
	})
}

func (h *WalletHTTPHandler) HandleDeposit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err.Error())
		return
	}
	if msg := h.checkBounds(req.Amount, h.limits.MinDeposit, h.limits.MaxDeposit); msg != "" {
		validationFailed(c, msg)
		return
	}

	txn, err := h.service.TopUp(c.Request.Context(), userID, req.Amount, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Funds added to your wallet",
		"data": gin.H{
			"transaction": transactionView(txn, h.limits.Currency),
			"balance":     txn.BalanceAfter.StringFixed(2),
		},
	})
}

func (h *WalletHTTPHandler) HandleWithdraw(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err.Error())
		return
	}
	if msg := h.checkBounds(req.Amount, h.limits.MinWithdrawal, h.limits.MaxWithdrawal); msg != "" {
		validationFailed(c, msg)
		return
	}

	txn, err := h.service.RequestWithdrawal(c.Request.Context(), userID, req.Amount, req.PaymentMethod, req.AccountDetails, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Withdrawal request accepted",
		"data": gin.H{
			"transaction": transactionView(txn, h.limits.Currency),
			"balance":     txn.BalanceAfter.StringFixed(2),
		},
	})
}

func (h *WalletHTTPHandler) HandleTransfer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err.Error())
		return
	}
	if err := repository.ValidateAmount(req.Amount); err != nil {
		validationFailed(c, "The amount must be a positive value with at most two decimals")
		return
	}

	result, err := h.service.TransferToUser(c.Request.Context(), userID, req.RecipientID, req.Amount, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Transfer completed",
		"data": gin.H{
			"withdrawal": transactionView(result.Withdrawal, h.limits.Currency),
			"deposit":    transactionView(result.Deposit, h.limits.Currency),
			"balance":    result.Withdrawal.BalanceAfter.StringFixed(2),
		},
	})
}

func (h *WalletHTTPHandler) HandleListTransactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q models.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationFailed(c, err.Error())
		return
	}

	filter, err := q.Filter()
	if err != nil {
		validationFailed(c, err.Error())
		return
	}

	res, err := h.service.ListUserTransactions(c.Request.Context(), userID, filter, models.Page{Number: q.Page, PerPage: q.PerPage})
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, transactionView(&res.Items[i], h.limits.Currency))
	}
	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"data": gin.H{
			"items":    items,
			"total":    res.Total,
			"page":     res.Page,
			"per_page": res.PerPage,
		},
	})
}

func (h *WalletHTTPHandler) HandleGetTransaction(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "invalid transaction id"})
		return
	}

	txn, err := h.service.GetTransactionForUser(c.Request.Context(), userID, txID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "data": transactionView(txn, h.limits.Currency)})
}

func (h *WalletHTTPHandler) checkBounds(amount, lo, hi decimal.Decimal) string {
	if err := repository.ValidateAmount(amount); err != nil {
		return "The amount must be a positive value with at most two decimals"
	}
	if amount.LessThan(lo) {
		return "The minimum amount is " + lo.StringFixed(2) + " " + h.limits.Currency
	}
	if amount.GreaterThan(hi) {
		return "The maximum amount is " + hi.StringFixed(2) + " " + h.limits.Currency
	}
	return ""
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "unauthenticated"})
	}
	return userID, ok
}

func validationFailed(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status":  false,
		"message": "Validation failed",
		"errors":  msg,
	})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance):
		status, msg = http.StatusUnprocessableEntity, "Insufficient balance."
	case errors.Is(err, repository.ErrInvalidAmount),
		errors.Is(err, repository.ErrSelfTransfer),
		errors.Is(err, repository.ErrCurrencyMismatch):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, repository.ErrWalletInactive):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, repository.ErrWalletNotFound),
		errors.Is(err, repository.ErrTransactionNotFound):
		status, msg = http.StatusNotFound, err.Error()
	}
	c.JSON(status, gin.H{"status": false, "message": msg})
}

func transactionView(t *models.WalletTransaction, currency string) gin.H {
	return gin.H{
		"id":                    t.ID,
		"type":                  t.Type,
		"amount":                t.Amount.StringFixed(2),
		"formatted_amount":      t.FormattedAmount(currency),
		"balance_after":         t.BalanceAfter.StringFixed(2),
		"description":           t.Description,
		"meta":                  t.Meta,
		"paired_transaction_id": t.PairedID,
		"referenceable":         t.Referenceable,
		"created_at":            t.CreatedAt.Format(time.RFC3339),
	}
}
