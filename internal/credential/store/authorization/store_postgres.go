package authorization

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/sentinel"
)

// PostgresStore persists authorizations in the authorizations table. A NULL
// verified column means the record carries no status and the default applies
// at redemption.
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
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const selectColumns = `digest, destination, metadata, verified, expiry, tier, seconds_to_pay, created_at`

func (s *PostgresStore) Create(ctx context.Context, record *models.AuthorizationRecord) error {
	if record == nil {
		return fmt.Errorf("authorization record is required")
	}
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("encode authorization metadata: %w", err)
	}

	var verified sql.NullBool
	var expiry sql.NullTime
	if record.Status != nil {
		verified = sql.NullBool{Bool: record.Status.Verified, Valid: true}
		if record.Status.Expiry != nil {
			expiry = sql.NullTime{Time: *record.Status.Expiry, Valid: true}
		}
	}
	var tier sql.NullString
	if record.Tier != nil {
		tier = sql.NullString{String: *record.Tier, Valid: true}
	}
	var seconds sql.NullString
	if record.SecondsToPay != nil {
		seconds = sql.NullString{String: strconv.FormatUint(*record.SecondsToPay, 10), Valid: true}
	}

	query := `
		INSERT INTO authorizations (digest, contract_id, destination, metadata, verified, expiry, tier, seconds_to_pay, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (digest) DO NOTHING
	`
	res, err := s.execer().ExecContext(ctx, query,
		record.Digest.Bytes(),
		s.contract.String(),
		record.Destination.String(),
		metadata,
		verified,
		expiry,
		tier,
		seconds,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create authorization: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create authorization rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, digest models.Digest) (*models.AuthorizationRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM authorizations WHERE digest = $1 AND contract_id = $2`
	record, err := scanRecord(s.execer().QueryRowContext(ctx, query, digest.Bytes(), s.contract.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find authorization: %w", err)
	}
	return record, nil
}

// Consume locks the row, validates it and deletes it. Outside a transaction
// it opens its own.
func (s *PostgresStore) Consume(ctx context.Context, digest models.Digest, validate func(*models.AuthorizationRecord) error) (*models.AuthorizationRecord, error) {
	if s.tx != nil {
		return s.consumeWithTx(ctx, s.tx, digest, validate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin authorization consume tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	record, err := s.consumeWithTx(ctx, tx, digest, validate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit authorization consume tx: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) consumeWithTx(ctx context.Context, tx *sql.Tx, digest models.Digest, validate func(*models.AuthorizationRecord) error) (*models.AuthorizationRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM authorizations WHERE digest = $1 AND contract_id = $2 FOR UPDATE`
	record, err := scanRecord(tx.QueryRowContext(ctx, query, digest.Bytes(), s.contract.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock authorization: %w", err)
	}
	if validate != nil {
		if err := validate(record); err != nil {
			return nil, err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM authorizations WHERE digest = $1`, digest.Bytes()); err != nil {
		return nil, fmt.Errorf("delete authorization: %w", err)
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AuthorizationRecord, error) {
	var (
		digest      []byte
		destination string
		metadata    []byte
		verified    sql.NullBool
		expiry      sql.NullTime
		tier        sql.NullString
		seconds     sql.NullString
		record      models.AuthorizationRecord
	)
	if err := row.Scan(&digest, &destination, &metadata, &verified, &expiry, &tier, &seconds, &record.CreatedAt); err != nil {
		return nil, err
	}

	d, err := models.DigestFromBytes(digest)
	if err != nil {
		return nil, fmt.Errorf("decode authorization digest: %w", err)
	}
	record.Digest = d
	record.Destination = id.AccountID(destination)
	if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
		return nil, fmt.Errorf("decode authorization metadata: %w", err)
	}
	if verified.Valid {
		status := models.Status{Verified: verified.Bool}
		if expiry.Valid {
			t := expiry.Time.UTC()
			status.Expiry = &t
		}
		record.Status = &status
	}
	if tier.Valid {
		v := tier.String
		record.Tier = &v
	}
	if seconds.Valid {
		v, err := strconv.ParseUint(seconds.String, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode authorization seconds_to_pay: %w", err)
		}
		record.SecondsToPay = &v
	}
	return &record, nil
}
