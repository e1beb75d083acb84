package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

// PostgresStore persists credential states in the credential_states table.
type PostgresStore struct {
	db       *sql.DB
	tx       *sql.Tx
	contract id.ContractID
}

func NewPostgres(db *sql.DB, contract id.ContractID) *PostgresStore {
	return &PostgresStore{db: db, contract: contract}
}

func NewPostgresTx(tx *sql.Tx, contract id.ContractID) *PostgresStore {
	return &PostgresStore{tx: tx, contract: contract}
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

// Save upserts the full state; both fields are always written together.
func (s *PostgresStore) Save(ctx context.Context, credentialID id.CredentialID, state models.CredentialState) error {
	var expiry sql.NullTime
	if state.Status.Expiry != nil {
		expiry = sql.NullTime{Time: *state.Status.Expiry, Valid: true}
	}
	query := `
		INSERT INTO credential_states (contract_id, id, verified, expiry, tier)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (contract_id, id) DO UPDATE SET
			verified = EXCLUDED.verified,
			expiry = EXCLUDED.expiry,
			tier = EXCLUDED.tier
	`
	_, err := s.execer().ExecContext(ctx, query,
		s.contract.String(),
		strconv.FormatUint(uint64(credentialID), 10),
		state.Status.Verified,
		expiry,
		state.Tier,
	)
	if err != nil {
		return fmt.Errorf("save credential state: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, credentialID id.CredentialID) (models.CredentialState, bool, error) {
	var (
		state  models.CredentialState
		expiry sql.NullTime
	)
	err := s.execer().QueryRowContext(ctx,
		`SELECT verified, expiry, tier FROM credential_states WHERE contract_id = $1 AND id = $2`,
		s.contract.String(), strconv.FormatUint(uint64(credentialID), 10),
	).Scan(&state.Status.Verified, &expiry, &state.Tier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CredentialState{}, false, nil
		}
		return models.CredentialState{}, false, fmt.Errorf("find credential state: %w", err)
	}
	if expiry.Valid {
		t := expiry.Time.UTC()
		state.Status.Expiry = &t
	}
	return state, true, nil
}
