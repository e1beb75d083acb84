package status

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycmint/internal/credential/models"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	_, ok, err := s.Find(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	expiry := time.Unix(1_800_000_000, 0).UTC()
	state := models.CredentialState{Status: models.Status{Verified: true, Expiry: &expiry}, Tier: "KYC_2"}
	require.NoError(t, s.Save(ctx, 0, state))

	expiry = expiry.Add(time.Hour)

	got, ok, err := s.Find(ctx, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "KYC_2", got.Tier)
	assert.Equal(t, int64(1_800_000_000), got.Status.Expiry.Unix())
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	newStore := func(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, mock.ExpectationsWereMet())
			_ = db.Close()
		})
		return NewPostgres(db, "kycmint.near"), mock
	}

	t.Run("save upserts", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (contract_id, id) DO UPDATE")).
			WithArgs("kycmint.near", "5", false, nil, "KYC_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		state := models.CredentialState{Status: models.Status{Verified: false}, Tier: "KYC_1"}
		require.NoError(t, s.Save(ctx, 5, state))
	})

	t.Run("find existing", func(t *testing.T) {
		s, mock := newStore(t)
		expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("FROM credential_states")).
			WithArgs("kycmint.near", "5").
			WillReturnRows(sqlmock.NewRows([]string{"verified", "expiry", "tier"}).AddRow(true, expiry, "KYC_2"))

		got, ok, err := s.Find(ctx, 5)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Status.Verified)
		assert.True(t, expiry.Equal(*got.Status.Expiry))
		assert.Equal(t, "KYC_2", got.Tier)
	})

	t.Run("find missing reports false", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM credential_states")).
			WillReturnError(sql.ErrNoRows)

		_, ok, err := s.Find(ctx, 9)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM credential_states")).
			WillReturnError(errors.New("connection reset"))

		_, _, err := s.Find(ctx, 9)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "find credential state")
	})
}
