package ownership

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
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/middleware/requesttime"
	"kycmint/pkg/platform/sentinel"
)

type PostgresLedgerSuite struct {
	suite.Suite
	db     *sql.DB
	mock   sqlmock.Sqlmock
	ledger *PostgresLedger
	ctx    context.Context
	now    time.Time
}

func TestPostgresLedgerSuite(t *testing.T) {
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.db, s.mock = db, mock
	s.ledger = NewPostgres(db, "kycmint.near")
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requesttime.WithTime(context.Background(), s.now)
}

func (s *PostgresLedgerSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func (s *PostgresLedgerSuite) TestCreate() {
	extra := "QmDoc"
	metadata := models.TokenMetadata{Extra: &extra}

	s.Run("inserts the credential", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO credentials")).
			WithArgs("kycmint.near", "7", "alice.near", []byte(`{"extra":"QmDoc"}`), "1000", s.now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("7"))

		view, err := s.ledger.Create(s.ctx, 7, "alice.near", metadata, id.AmountFromUint64(1000))
		s.Require().NoError(err)
		s.Equal(id.CredentialID(7), view.ID)
		s.Equal(id.AccountID("alice.near"), view.Owner)
	})

	s.Run("existing id conflicts", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO credentials")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := s.ledger.Create(s.ctx, 7, "alice.near", metadata, id.Amount{})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *PostgresLedgerSuite) TestOwnerOf() {
	s.Run("found", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("SELECT owner FROM credentials")).
			WithArgs("kycmint.near", "18446744073709551615").
			WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow("bob.near"))

		owner, err := s.ledger.OwnerOf(s.ctx, id.CredentialID(^uint64(0)))
		s.Require().NoError(err)
		s.Equal(id.AccountID("bob.near"), owner)
	})

	s.Run("missing row is not found", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("SELECT owner FROM credentials")).
			WillReturnError(sql.ErrNoRows)

		_, err := s.ledger.OwnerOf(s.ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("driver errors are wrapped", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("SELECT owner FROM credentials")).
			WillReturnError(errors.New("connection reset"))

		_, err := s.ledger.OwnerOf(s.ctx, 1)
		s.Require().Error(err)
		s.NotErrorIs(err, sentinel.ErrNotFound)
		s.Contains(err.Error(), "find credential owner")
	})
}

func (s *PostgresLedgerSuite) TestIDsOwnedBy() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM credentials")).
		WithArgs("kycmint.near", "alice.near").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("0").AddRow("4"))

	ids, err := s.ledger.IDsOwnedBy(s.ctx, "alice.near")
	s.Require().NoError(err)
	s.Equal([]id.CredentialID{0, 4}, ids)
}

func (s *PostgresLedgerSuite) TestMetadata() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT metadata FROM credentials")).
		WithArgs("kycmint.near", "2").
		WillReturnRows(sqlmock.NewRows([]string{"metadata"}).AddRow([]byte(`{"title":"KYC","extra":"QmDoc"}`)))

	got, err := s.ledger.Metadata(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal("KYC", *got.Title)
	s.Equal("QmDoc", *got.Extra)
}

func (s *PostgresLedgerSuite) TestCount() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM credentials")).
		WithArgs("kycmint.near").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := s.ledger.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(3), n)
}

func (s *PostgresLedgerSuite) TestTransactionBound() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO credentials")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("0"))
	s.mock.ExpectCommit()

	tx, err := s.db.BeginTx(s.ctx, nil)
	s.Require().NoError(err)
	_, err = NewPostgresTx(tx, "kycmint.near").Create(s.ctx, 0, "alice.near", models.TokenMetadata{}, id.Amount{})
	s.Require().NoError(err)
	s.Require().NoError(tx.Commit())
}
