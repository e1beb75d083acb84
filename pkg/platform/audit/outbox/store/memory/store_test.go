package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycmint/pkg/platform/audit/outbox"
	"kycmint/pkg/platform/sentinel"
)

type OutboxMemorySuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	t0    time.Time
}

func (s *OutboxMemorySuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.t0 = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
}

func TestOutboxMemorySuite(t *testing.T) {
	suite.Run(t, new(OutboxMemorySuite))
}

func (s *OutboxMemorySuite) append(offset time.Duration, eventType string) *outbox.Entry {
	e := outbox.NewEntry("contract", "kyc.near", eventType, []byte(`{}`), s.t0.Add(offset))
	s.Require().NoError(s.store.Append(s.ctx, e))
	return e
}

func (s *OutboxMemorySuite) TestFetchReturnsOldestFirst() {
	s.append(2*time.Second, "credential_issued")
	first := s.append(0, "authorization_created")
	s.append(time.Second, "contract_updated")

	got, err := s.store.FetchUnprocessed(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(first.ID, got[0].ID)
	s.Equal("contract_updated", got[1].EventType)
}

func (s *OutboxMemorySuite) TestMarkProcessedRemovesFromPending() {
	e := s.append(0, "credential_issued")
	s.Require().NoError(s.store.MarkProcessed(s.ctx, e.ID, s.t0.Add(time.Minute)))

	n, err := s.store.CountPending(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)

	err = s.store.MarkProcessed(s.ctx, e.ID, s.t0)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *OutboxMemorySuite) TestAppendRejectsDuplicateIDs() {
	e := s.append(0, "credential_issued")
	s.ErrorIs(s.store.Append(s.ctx, e), sentinel.ErrConflict)
}

func (s *OutboxMemorySuite) TestDeleteProcessedBefore() {
	old := s.append(0, "a")
	fresh := s.append(0, "b")
	pending := s.append(0, "c")
	s.Require().NoError(s.store.MarkProcessed(s.ctx, old.ID, s.t0))
	s.Require().NoError(s.store.MarkProcessed(s.ctx, fresh.ID, s.t0.Add(time.Hour)))

	n, err := s.store.DeleteProcessedBefore(s.ctx, s.t0.Add(time.Minute))
	s.Require().NoError(err)
	s.EqualValues(1, n)

	remaining := s.store.Snapshot()
	s.Len(remaining, 2)
	ids := []any{remaining[0].ID, remaining[1].ID}
	s.Contains(ids, fresh.ID)
	s.Contains(ids, pending.ID)
}
