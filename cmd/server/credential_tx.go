package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kycmint/internal/credential/service"
	authorizationStore "kycmint/internal/credential/store/authorization"
	contractStore "kycmint/internal/credential/store/contract"
	statusStore "kycmint/internal/credential/store/status"
	"kycmint/internal/ownership"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	outboxpostgres "kycmint/pkg/platform/audit/outbox/store/postgres"
)

const defaultCredentialTxTimeout = 5 * time.Second

// credentialPostgresTx runs each mutation in one sql.Tx with every store
// bound to it, so the contract counter, ledger rows and outbox entry commit
// together.
type credentialPostgresTx struct {
	db       *sql.DB
	contract id.ContractID
	timeout  time.Duration
}

func newCredentialPostgresTx(db *sql.DB, contract id.ContractID) *credentialPostgresTx {
	return &credentialPostgresTx{db: db, contract: contract, timeout: defaultCredentialTxTimeout}
}

func (t *credentialPostgresTx) RunInTx(ctx context.Context, fn func(service.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credential tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if err := fn(postgresStoresTx(tx, t.contract)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credential tx: %w", err)
	}
	return nil
}

func postgresStores(db *sql.DB, contract id.ContractID) service.Stores {
	return service.Stores{
		Authorizations: authorizationStore.NewPostgres(db, contract),
		States:         statusStore.NewPostgres(db, contract),
		Contracts:      contractStore.NewPostgres(db),
		Ownership:      ownership.NewPostgres(db, contract),
		Outbox:         outboxpostgres.New(db),
	}
}

func postgresStoresTx(tx *sql.Tx, contract id.ContractID) service.Stores {
	return service.Stores{
		Authorizations: authorizationStore.NewPostgresTx(tx, contract),
		States:         statusStore.NewPostgresTx(tx, contract),
		Contracts:      contractStore.NewPostgresTx(tx),
		Ownership:      ownership.NewPostgresTx(tx, contract),
		Outbox:         outboxpostgres.NewPostgresTx(tx),
	}
}
