package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wallet_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// WalletCache keeps read-only wallet snapshots keyed by user. Ledger
// mutations never read from it.
type WalletCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWalletCache(client *redis.Client, ttl time.Duration) *WalletCache {
	return &WalletCache{client: client, ttl: ttl}
}

func walletKey(userID uuid.UUID) string {
	return "wallet:user:" + userID.String()
}

func (c *WalletCache) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	raw, err := c.client.Get(ctx, walletKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var w models.Wallet
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *WalletCache) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	raw, err := json.Marshal(wallet)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, walletKey(wallet.UserID), raw, c.ttl).Err()
}

func (c *WalletCache) InvalidateWallet(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, walletKey(userID)).Err()
}

func (c *WalletCache) Close() error {
	return c.client.Close()
}
