package authorization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycmint/internal/credential/models"
	"kycmint/pkg/platform/sentinel"
)

func newRecord() *models.AuthorizationRecord {
	extra := "QmDoc"
	return &models.AuthorizationRecord{
		Digest:      models.DeriveDigest(0, "alice.near", "kycmint.near"),
		Destination: "alice.near",
		Metadata:    models.TokenMetadata{Extra: &extra},
		CreatedAt:   time.Unix(1_700_000_000, 0).UTC(),
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		s := NewInMemoryStore()
		rec := newRecord()
		require.NoError(t, s.Create(ctx, rec))

		got, err := s.Find(ctx, rec.Digest)
		require.NoError(t, err)
		assert.Equal(t, rec.Destination, got.Destination)
	})

	t.Run("second create on same digest conflicts", func(t *testing.T) {
		s := NewInMemoryStore()
		require.NoError(t, s.Create(ctx, newRecord()))
		assert.ErrorIs(t, s.Create(ctx, newRecord()), sentinel.ErrConflict)
	})

	t.Run("consume removes the record", func(t *testing.T) {
		s := NewInMemoryStore()
		rec := newRecord()
		require.NoError(t, s.Create(ctx, rec))

		got, err := s.Consume(ctx, rec.Digest, nil)
		require.NoError(t, err)
		assert.Equal(t, rec.Digest, got.Digest)
		assert.Zero(t, s.Len())

		_, err = s.Consume(ctx, rec.Digest, nil)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("failed validation keeps the record", func(t *testing.T) {
		s := NewInMemoryStore()
		rec := newRecord()
		require.NoError(t, s.Create(ctx, rec))

		boom := errors.New("insufficient payment")
		_, err := s.Consume(ctx, rec.Digest, func(*models.AuthorizationRecord) error { return boom })
		assert.Same(t, boom, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("stored record is isolated from caller mutation", func(t *testing.T) {
		s := NewInMemoryStore()
		rec := newRecord()
		require.NoError(t, s.Create(ctx, rec))
		rec.Destination = "mallory.near"

		got, err := s.Find(ctx, rec.Digest)
		require.NoError(t, err)
		assert.Equal(t, "alice.near", got.Destination.String())
	})
}
