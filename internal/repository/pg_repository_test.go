package repository_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wallet_ledger/internal/models"
	"wallet_ledger/internal/repository"
	"wallet_ledger/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newRepo(t *testing.T) (*repository.WalletPGRepository, func()) {
	pool, teardown := testutil.SetupTestDB(t)
	return repository.NewWalletPGRepository(pool, testLogger), teardown
}

func newWallet(t *testing.T, repo *repository.WalletPGRepository, balance string) *models.Wallet {
	t.Helper()
	ctx := context.Background()
	wallet, created, err := repo.GetOrCreateWallet(ctx, uuid.New(), "")
	require.NoError(t, err)
	require.True(t, created)
	if b := dec(balance); b.IsPositive() {
		_, err := repo.Deposit(ctx, wallet.ID, models.Entry{Amount: b, Description: "seed"})
		require.NoError(t, err)
	}
	return wallet
}

func balanceOf(t *testing.T, repo *repository.WalletPGRepository, walletID uuid.UUID) decimal.Decimal {
	t.Helper()
	wallet, err := repo.GetWallet(context.Background(), walletID)
	require.NoError(t, err)
	return wallet.Balance
}

func TestLedger_DepositWithdrawRoundTrip(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()

	userID := uuid.New()
	wallet, created, err := repo.GetOrCreateWallet(ctx, userID, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, wallet.Balance.IsZero())
	assert.Equal(t, models.DefaultCurrency, wallet.Currency)
	assert.True(t, wallet.IsActive)

	again, created, err := repo.GetOrCreateWallet(ctx, userID, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, wallet.ID, again.ID)

	dep, err := repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec("100"), Description: "Top-up"})
	require.NoError(t, err)
	assert.Equal(t, models.TypeDeposit, dep.Type)
	assert.True(t, dep.Amount.Equal(dec("100")))
	assert.True(t, dep.BalanceAfter.Equal(dec("100")))
	assert.Equal(t, models.RefWallet, dep.Referenceable.Kind)
	assert.Equal(t, wallet.ID, dep.Referenceable.ID)
	assert.Nil(t, dep.PairedID)

	orderID := uuid.New()
	wd, err := repo.Withdraw(ctx, wallet.ID, models.Entry{
		Amount:      dec("30"),
		Description: "Order payment",
		Meta:        map[string]any{"order_number": "ORD-1"},
		CausedBy:    models.OrderRef(orderID),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TypeWithdrawal, wd.Type)
	assert.True(t, wd.Amount.Equal(dec("-30")))
	assert.True(t, wd.BalanceAfter.Equal(dec("70")))
	assert.Equal(t, models.RefOrder, wd.Referenceable.Kind)
	assert.Equal(t, orderID, wd.Referenceable.ID)
	assert.Greater(t, wd.Sequence, dep.Sequence)

	assert.True(t, balanceOf(t, repo, wallet.ID).Equal(dec("70")))

	page, err := repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{}, models.Page{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, wd.ID, page.Items[0].ID)
	assert.Equal(t, dep.ID, page.Items[1].ID)
	assert.Equal(t, "ORD-1", page.Items[0].Meta["order_number"])

	got, err := repo.GetTransaction(ctx, wd.ID)
	require.NoError(t, err)
	assert.Equal(t, "Order payment", got.Description)
	assert.True(t, got.BalanceAfter.Equal(dec("70")))

	fresh, err := repo.GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.LastActivityAt)
}

func TestLedger_WithdrawBoundaries(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	wallet := newWallet(t, repo, "50")

	txn, err := repo.Withdraw(ctx, wallet.ID, models.Entry{Amount: dec("50")})
	require.NoError(t, err)
	assert.True(t, txn.BalanceAfter.IsZero())

	_, err = repo.Withdraw(ctx, wallet.ID, models.Entry{Amount: dec("0.01")})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	assert.True(t, balanceOf(t, repo, wallet.ID).IsZero())
	page, err := repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestLedger_InvalidInput(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	wallet := newWallet(t, repo, "10")

	for _, amount := range []string{"0", "-5", "1.001"} {
		_, err := repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec(amount)})
		assert.ErrorIs(t, err, repository.ErrInvalidAmount, amount)
		_, err = repo.Withdraw(ctx, wallet.ID, models.Entry{Amount: dec(amount)})
		assert.ErrorIs(t, err, repository.ErrInvalidAmount, amount)
	}

	_, err := repo.Deposit(ctx, wallet.ID, models.Entry{
		Amount:   dec("1"),
		CausedBy: &models.Reference{Kind: "invoice", ID: uuid.New()},
	})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)

	_, err = repo.Deposit(ctx, uuid.New(), models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrWalletNotFound)

	_, err = repo.GetTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)

	assert.True(t, balanceOf(t, repo, wallet.ID).Equal(dec("10")))
}

func TestLedger_InactiveAndDeletedWallets(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	wallet := newWallet(t, repo, "20")
	other := newWallet(t, repo, "20")

	require.NoError(t, repo.SetActive(ctx, wallet.ID, false))

	_, err := repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrWalletInactive)
	_, err = repo.Withdraw(ctx, wallet.ID, models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrWalletInactive)
	_, err = repo.Transfer(ctx, other.ID, wallet.ID, models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrWalletInactive)
	assert.True(t, balanceOf(t, repo, other.ID).Equal(dec("20")))

	require.NoError(t, repo.SetActive(ctx, wallet.ID, true))
	_, err = repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec("1")})
	assert.NoError(t, err)

	require.NoError(t, repo.SoftDeleteWallet(ctx, wallet.ID))
	_, err = repo.GetWallet(ctx, wallet.ID)
	assert.ErrorIs(t, err, repository.ErrWalletNotFound)
	_, err = repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrWalletNotFound)
	_, _, err = repo.GetOrCreateWallet(ctx, wallet.UserID, "")
	assert.ErrorIs(t, err, repository.ErrWalletNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, wallet.ID, true), repository.ErrWalletNotFound)
}

func TestLedger_CreateWalletConflict(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()

	walletID, userID := uuid.New(), uuid.New()
	require.NoError(t, repo.CreateWallet(ctx, walletID, userID, "EUR"))
	assert.ErrorIs(t, repo.CreateWallet(ctx, uuid.New(), userID, "EUR"), repository.ErrWalletAlreadyExist)
	assert.ErrorIs(t, repo.CreateWallet(ctx, walletID, uuid.New(), "EUR"), repository.ErrWalletAlreadyExist)

	wallet, err := repo.GetWalletByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, walletID, wallet.ID)
	assert.Equal(t, "EUR", wallet.Currency)
}

func TestLedger_Transfer(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	source := newWallet(t, repo, "100")
	target := newWallet(t, repo, "0")

	res, err := repo.Transfer(ctx, source.ID, target.ID, models.Entry{
		Amount:      dec("40"),
		Description: "Wallet transfer",
		Meta:        map[string]any{"note": "rent"},
		CausedBy:    models.UserRef(source.UserID),
	})
	require.NoError(t, err)

	out, in := res.Withdrawal, res.Deposit
	assert.Equal(t, models.TypeTransferOut, out.Type)
	assert.Equal(t, models.TypeTransferIn, in.Type)
	assert.True(t, out.Amount.Equal(dec("-40")))
	assert.True(t, in.Amount.Equal(dec("40")))
	assert.True(t, out.BalanceAfter.Equal(dec("60")))
	assert.True(t, in.BalanceAfter.Equal(dec("40")))
	require.NotNil(t, out.PairedID)
	require.NotNil(t, in.PairedID)
	assert.Equal(t, in.ID, *out.PairedID)
	assert.Equal(t, out.ID, *in.PairedID)
	assert.Equal(t, out.Description, in.Description)

	storedIn, err := repo.GetTransaction(ctx, in.ID)
	require.NoError(t, err)
	require.NotNil(t, storedIn.PairedID)
	assert.Equal(t, out.ID, *storedIn.PairedID)
	assert.Equal(t, source.ID.String(), storedIn.Meta["source_wallet_id"])
	assert.Equal(t, "rent", storedIn.Meta["note"])
	assert.Equal(t, models.RefUser, storedIn.Referenceable.Kind)

	storedOut, err := repo.GetTransaction(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, storedOut.PairedID)
	assert.Equal(t, in.ID, *storedOut.PairedID)
	_, ok := storedOut.Meta["source_wallet_id"]
	assert.False(t, ok)

	assert.True(t, balanceOf(t, repo, source.ID).Equal(dec("60")))
	assert.True(t, balanceOf(t, repo, target.ID).Equal(dec("40")))
}

func TestLedger_TransferRejectionsAreAtomic(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	source := newWallet(t, repo, "100")
	target := newWallet(t, repo, "5")

	_, err := repo.Transfer(ctx, source.ID, target.ID, models.Entry{Amount: dec("100.01")})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	_, err = repo.Transfer(ctx, source.ID, source.ID, models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrSelfTransfer)

	_, err = repo.Transfer(ctx, source.ID, uuid.New(), models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrWalletNotFound)

	euroID := uuid.New()
	require.NoError(t, repo.CreateWallet(ctx, euroID, uuid.New(), "EUR"))
	_, err = repo.Transfer(ctx, source.ID, euroID, models.Entry{Amount: dec("1")})
	assert.ErrorIs(t, err, repository.ErrCurrencyMismatch)

	assert.True(t, balanceOf(t, repo, source.ID).Equal(dec("100")))
	assert.True(t, balanceOf(t, repo, target.ID).Equal(dec("5")))
	for _, id := range []uuid.UUID{source.ID, target.ID, euroID} {
		page, err := repo.ListTransactions(ctx, id, models.TransactionFilter{}, models.Page{})
		require.NoError(t, err)
		for _, item := range page.Items {
			assert.Equal(t, models.TypeDeposit, item.Type)
		}
	}
}

func TestLedger_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	wallet := newWallet(t, repo, "100")

	var wg sync.WaitGroup
	var succeeded, rejected atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Withdraw(ctx, wallet.ID, models.Entry{Amount: dec("100")})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, repository.ErrInsufficientBalance):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(9), rejected.Load())
	assert.True(t, balanceOf(t, repo, wallet.ID).IsZero())
}

func TestLedger_ConcurrentDepositsTelescope(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	wallet := newWallet(t, repo, "0")

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec("1.25")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, balanceOf(t, repo, wallet.ID).Equal(dec("250")))

	page, err := repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{}, models.Page{PerPage: repository.MaxPerPage})
	require.NoError(t, err)
	assert.Equal(t, int64(n), page.Total)

	// Walk the newest page backwards: every balance_after is its
	// predecessor plus its own amount.
	items := page.Items
	for i := 0; i+1 < len(items); i++ {
		newer, older := items[i], items[i+1]
		assert.Greater(t, newer.Sequence, older.Sequence)
		assert.True(t, newer.BalanceAfter.Equal(older.BalanceAfter.Add(newer.Amount)),
			"seq %d: %s != %s + %s", newer.Sequence, newer.BalanceAfter, older.BalanceAfter, newer.Amount)
	}
	assert.True(t, items[0].BalanceAfter.Equal(dec("250")))
}

func TestLedger_OpposingTransfersDoNotDeadlock(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	a := newWallet(t, repo, "100")
	b := newWallet(t, repo, "100")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		from, to := a.ID, b.ID
		if i%2 == 1 {
			from, to = to, from
		}
		go func() {
			defer wg.Done()
			_, err := repo.Transfer(ctx, from, to, models.Entry{Amount: dec("1")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, balanceOf(t, repo, a.ID).Equal(dec("100")))
	assert.True(t, balanceOf(t, repo, b.ID).Equal(dec("100")))
}

func TestLedger_GetOrCreateWalletConcurrent(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	userID := uuid.New()

	var wg sync.WaitGroup
	var created atomic.Int32
	ids := make([]uuid.UUID, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wallet, isNew, err := repo.GetOrCreateWallet(ctx, userID, "")
			if !assert.NoError(t, err) {
				return
			}
			if isNew {
				created.Add(1)
			}
			ids[i] = wallet.ID
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestListTransactions_FiltersAndPagination(t *testing.T) {
	repo, teardown := newRepo(t)
	defer teardown()
	ctx := context.Background()
	wallet := newWallet(t, repo, "0")

	for i := 0; i < 5; i++ {
		_, err := repo.Deposit(ctx, wallet.ID, models.Entry{Amount: dec("10")})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := repo.Withdraw(ctx, wallet.ID, models.Entry{Amount: dec("5")})
		require.NoError(t, err)
	}

	withdrawal := models.TypeWithdrawal
	page, err := repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{Type: &withdrawal}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, item := range page.Items {
		assert.Equal(t, models.TypeWithdrawal, item.Type)
	}

	page, err = repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{}, models.Page{Number: 1, PerPage: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, models.TypeWithdrawal, page.Items[0].Type)

	page, err = repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{}, models.Page{Number: 3, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, models.TypeDeposit, page.Items[0].Type)

	page, err = repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultPerPage, page.PerPage)
	assert.Equal(t, 1, page.Page)

	now := time.Now()
	tomorrow, yesterday := now.AddDate(0, 0, 1), now.AddDate(0, 0, -1)

	page, err = repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{DateFrom: &now, DateTo: &now}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)

	page, err = repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{DateFrom: &tomorrow}, models.Page{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)

	page, err = repo.ListTransactions(ctx, wallet.ID, models.TransactionFilter{DateTo: &yesterday}, models.Page{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	latest, err := repo.LatestTransactions(ctx, wallet.ID, 5)
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.True(t, latest[0].BalanceAfter.Equal(dec("40")))
	assert.Greater(t, latest[0].Sequence, latest[4].Sequence)
}
