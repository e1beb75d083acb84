package authorization

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"kycmint/internal/credential/models"
	"kycmint/pkg/platform/sentinel"
)

var recordColumns = []string{"digest", "destination", "metadata", "verified", "expiry", "tier", "seconds_to_pay", "created_at"}

type PostgresStoreSuite struct {
	suite.Suite
	db     *sql.DB
	mock   sqlmock.Sqlmock
	store  *PostgresStore
	ctx    context.Context
	digest models.Digest
	at     time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.db, s.mock = db, mock
	s.store = NewPostgres(db, "kycmint.near")
	s.ctx = context.Background()
	s.digest = models.DeriveDigest(123, "alice.near", "kycmint.near")
	s.at = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func (s *PostgresStoreSuite) TestCreate() {
	tier := "KYC_2"
	seconds := uint64(86400)
	rec := &models.AuthorizationRecord{
		Digest:       s.digest,
		Destination:  "alice.near",
		Status:       &models.Status{Verified: true},
		Tier:         &tier,
		SecondsToPay: &seconds,
		CreatedAt:    s.at,
	}

	s.Run("inserts optional fields", func() {
		s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO authorizations")).
			WithArgs(s.digest.Bytes(), "kycmint.near", "alice.near", []byte(`{}`),
				sql.NullBool{Bool: true, Valid: true}, sql.NullTime{},
				sql.NullString{String: "KYC_2", Valid: true},
				sql.NullString{String: "86400", Valid: true}, s.at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s.NoError(s.store.Create(s.ctx, rec))
	})

	s.Run("occupied digest conflicts", func() {
		s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO authorizations")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		s.ErrorIs(s.store.Create(s.ctx, rec), sentinel.ErrConflict)
	})
}

func (s *PostgresStoreSuite) TestFind() {
	s.Run("record without optional fields", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM authorizations WHERE digest = $1")).
			WithArgs(s.digest.Bytes(), "kycmint.near").
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(s.digest.Bytes(), "alice.near", []byte(`{"extra":"QmDoc"}`), nil, nil, nil, nil, s.at))

		got, err := s.store.Find(s.ctx, s.digest)
		s.Require().NoError(err)
		s.Equal(s.digest, got.Digest)
		s.Nil(got.Status)
		s.Nil(got.Tier)
		s.Nil(got.SecondsToPay)
		s.Equal("QmDoc", *got.Metadata.Extra)
	})

	s.Run("record with status and expiry", func() {
		expiry := s.at.Add(24 * time.Hour)
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM authorizations WHERE digest = $1")).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(s.digest.Bytes(), "alice.near", []byte(`{}`), false, expiry, "KYC_3", "60", s.at))

		got, err := s.store.Find(s.ctx, s.digest)
		s.Require().NoError(err)
		s.Require().NotNil(got.Status)
		s.False(got.Status.Verified)
		s.True(expiry.Equal(*got.Status.Expiry))
		s.Equal("KYC_3", *got.Tier)
		s.Equal(uint64(60), *got.SecondsToPay)
	})

	s.Run("missing", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM authorizations WHERE digest = $1")).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := s.store.Find(s.ctx, s.digest)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestConsume() {
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(recordColumns).
			AddRow(s.digest.Bytes(), "alice.near", []byte(`{}`), nil, nil, nil, nil, s.at)
	}

	s.Run("locks validates and deletes in one transaction", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(row())
		s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM authorizations")).
			WithArgs(s.digest.Bytes()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		s.mock.ExpectCommit()

		got, err := s.store.Consume(s.ctx, s.digest, func(*models.AuthorizationRecord) error { return nil })
		s.Require().NoError(err)
		s.Equal(s.digest, got.Digest)
	})

	s.Run("validation failure rolls back without deleting", func() {
		boom := errors.New("insufficient payment")
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(row())
		s.mock.ExpectRollback()

		_, err := s.store.Consume(s.ctx, s.digest, func(*models.AuthorizationRecord) error { return boom })
		s.Same(boom, err)
	})

	s.Run("missing record", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(sqlmock.NewRows(recordColumns))
		s.mock.ExpectRollback()

		_, err := s.store.Consume(s.ctx, s.digest, nil)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
