package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/sentinel"
)

// PostgresStore persists the aggregate in the contracts table. The counter
// and balance are NUMERIC and travel as decimal strings.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx binds the store to tx. Load then takes a row lock, which is
// what serializes mutations of one contract.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) Load(ctx context.Context, contractID id.ContractID) (*models.Contract, error) {
	query := `
		SELECT contract_id, owner, mint_authorizer, base_uri, subscription_cost_usd,
		       price_feed, quote_price, quote_decimals, next_credential_id, balance, updated_at
		FROM contracts
		WHERE contract_id = $1
	`
	if s.tx != nil {
		query += " FOR UPDATE"
	}

	var (
		c          models.Contract
		contract   string
		owner      string
		authorizer string
		cost       int64
		quotePrice string
		decimals   int16
		nextID     string
		balance    string
	)
	err := s.execer().QueryRowContext(ctx, query, contractID.String()).Scan(
		&contract, &owner, &authorizer, &c.BaseURI, &cost, &c.PriceFeed, &quotePrice, &decimals, &nextID, &balance, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load contract: %w", err)
	}

	c.ID = id.ContractID(contract)
	c.Owner = id.AccountID(owner)
	c.MintAuthorizer = id.AccountID(authorizer)
	c.SubscriptionCostPerYearUSD = uint64(cost)
	if c.Quote.Price, err = strconv.ParseUint(quotePrice, 10, 64); err != nil {
		return nil, fmt.Errorf("decode quote price: %w", err)
	}
	c.Quote.Decimals = uint8(decimals) //nolint:gosec // column is checked to 0..24
	if c.NextCredentialID, err = strconv.ParseUint(nextID, 10, 64); err != nil {
		return nil, fmt.Errorf("decode next credential id: %w", err)
	}
	if c.Balance, err = id.ParseAmount(balance); err != nil {
		return nil, fmt.Errorf("decode contract balance: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) Save(ctx context.Context, c *models.Contract) error {
	query := `
		UPDATE contracts SET
			owner = $2,
			mint_authorizer = $3,
			base_uri = $4,
			subscription_cost_usd = $5,
			price_feed = $6,
			quote_price = $7,
			quote_decimals = $8,
			next_credential_id = $9,
			balance = $10,
			updated_at = $11
		WHERE contract_id = $1
	`
	res, err := s.execer().ExecContext(ctx, query, contractArgs(c)...)
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save contract rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Contract) error {
	query := `
		INSERT INTO contracts (contract_id, owner, mint_authorizer, base_uri, subscription_cost_usd,
		                       price_feed, quote_price, quote_decimals, next_credential_id, balance, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (contract_id) DO NOTHING
	`
	res, err := s.execer().ExecContext(ctx, query, contractArgs(c)...)
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create contract rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func contractArgs(c *models.Contract) []any {
	return []any{
		c.ID.String(),
		c.Owner.String(),
		c.MintAuthorizer.String(),
		c.BaseURI,
		int64(c.SubscriptionCostPerYearUSD), //nolint:gosec // validated against MaxInt64 at the boundary
		c.PriceFeed,
		strconv.FormatUint(c.Quote.Price, 10),
		int16(c.Quote.Decimals),
		strconv.FormatUint(c.NextCredentialID, 10),
		c.Balance.String(),
		c.UpdatedAt,
	}
}
