package ownership

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/middleware/requesttime"
	"kycmint/pkg/platform/sentinel"
)

// PostgresLedger stores ownership in the credentials table, scoped to one
// contract. Credential ids are NUMERIC(20) so the full uint64 range fits.
type PostgresLedger struct {
	db       *sql.DB
	tx       *sql.Tx
	contract id.ContractID
}

func NewPostgres(db *sql.DB, contract id.ContractID) *PostgresLedger {
	return &PostgresLedger{db: db, contract: contract}
}

// NewPostgresTx binds the ledger to tx so ownership commits with the rest of
// a redemption.
func NewPostgresTx(tx *sql.Tx, contract id.ContractID) *PostgresLedger {
	return &PostgresLedger{tx: tx, contract: contract}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *PostgresLedger) execer() dbExecutor {
	if l.tx != nil {
		return l.tx
	}
	return l.db
}

func (l *PostgresLedger) Create(ctx context.Context, credentialID id.CredentialID, owner id.AccountID, metadata models.TokenMetadata, paid id.Amount) (*models.CredentialView, error) {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode credential metadata: %w", err)
	}
	query := `
		INSERT INTO credentials (contract_id, id, owner, metadata, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (contract_id, id) DO NOTHING
		RETURNING id
	`
	var stored string
	err = l.execer().QueryRowContext(ctx, query,
		l.contract.String(),
		formatID(credentialID),
		owner.String(),
		payload,
		paid.String(),
		requesttime.Now(ctx),
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("create credential: %w", err)
	}
	return &models.CredentialView{ID: credentialID, Owner: owner, Metadata: metadata}, nil
}

func (l *PostgresLedger) OwnerOf(ctx context.Context, credentialID id.CredentialID) (id.AccountID, error) {
	var owner string
	err := l.execer().QueryRowContext(ctx,
		`SELECT owner FROM credentials WHERE contract_id = $1 AND id = $2`,
		l.contract.String(), formatID(credentialID),
	).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("find credential owner: %w", err)
	}
	return id.AccountID(owner), nil
}

func (l *PostgresLedger) IDsOwnedBy(ctx context.Context, owner id.AccountID) ([]id.CredentialID, error) {
	rows, err := l.execer().QueryContext(ctx,
		`SELECT id FROM credentials WHERE contract_id = $1 AND owner = $2`,
		l.contract.String(), owner.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list owned credentials: %w", err)
	}
	defer rows.Close()

	var ids []id.CredentialID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan credential id: %w", err)
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode credential id %q: %w", raw, err)
		}
		ids = append(ids, id.CredentialID(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned credentials: %w", err)
	}
	return ids, nil
}

func (l *PostgresLedger) Metadata(ctx context.Context, credentialID id.CredentialID) (*models.TokenMetadata, error) {
	var payload []byte
	err := l.execer().QueryRowContext(ctx,
		`SELECT metadata FROM credentials WHERE contract_id = $1 AND id = $2`,
		l.contract.String(), formatID(credentialID),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential metadata: %w", err)
	}
	var metadata models.TokenMetadata
	if err := json.Unmarshal(payload, &metadata); err != nil {
		return nil, fmt.Errorf("decode credential metadata: %w", err)
	}
	return &metadata, nil
}

func (l *PostgresLedger) Count(ctx context.Context) (uint64, error) {
	var n int64
	err := l.execer().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM credentials WHERE contract_id = $1`, l.contract.String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return uint64(n), nil
}

func formatID(v id.CredentialID) string {
	return strconv.FormatUint(uint64(v), 10)
}
