package pricefeed

import (
	"context"
	"fmt"
	"strconv"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/sentinel"

	"github.com/redis/go-redis/v9"
)

const (
	redisQuoteKeyPrefix = "kycmint:pricefeed:"

	fieldPrice    = "price"
	fieldDecimals = "decimals"
)

// RedisStore caches the quote as a hash shared by every server replica.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore scopes the quote hash to one contract.
func NewRedisStore(client *redis.Client, contract id.ContractID) *RedisStore {
	return &RedisStore{client: client, key: quoteKey(contract)}
}

// Current reads the quote hash.
//
// Errors: sentinel.ErrNotFound when the key is absent; wraps Redis failures
// and malformed fields.
func (s *RedisStore) Current(ctx context.Context) (models.PriceQuote, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return models.PriceQuote{}, fmt.Errorf("read price quote: %w", err)
	}
	return decodeQuote(fields)
}

// Set overwrites both fields in one HSET so readers never see a half-written
// quote.
func (s *RedisStore) Set(ctx context.Context, quote models.PriceQuote) error {
	err := s.client.HSet(ctx, s.key,
		fieldPrice, strconv.FormatUint(quote.Price, 10),
		fieldDecimals, strconv.FormatUint(uint64(quote.Decimals), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("save price quote: %w", err)
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("invalidate price quote: %w", err)
	}
	return nil
}

func decodeQuote(fields map[string]string) (models.PriceQuote, error) {
	if len(fields) == 0 {
		return models.PriceQuote{}, sentinel.ErrNotFound
	}
	price, err := strconv.ParseUint(fields[fieldPrice], 10, 64)
	if err != nil {
		return models.PriceQuote{}, fmt.Errorf("decode price quote price: %w", err)
	}
	decimals, err := strconv.ParseUint(fields[fieldDecimals], 10, 8)
	if err != nil {
		return models.PriceQuote{}, fmt.Errorf("decode price quote decimals: %w", err)
	}
	return models.PriceQuote{Price: price, Decimals: uint8(decimals)}, nil
}

func quoteKey(contract id.ContractID) string {
	return redisQuoteKeyPrefix + contract.String()
}
