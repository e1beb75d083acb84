package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kycmint/internal/credential/models"
	"kycmint/internal/credential/store/authorization"
	"kycmint/internal/credential/store/contract"
	"kycmint/internal/credential/store/status"
	"kycmint/internal/ownership/mocks"
	"kycmint/internal/pricefeed"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/sentinel"
)

func newServiceWithLedger(t *testing.T) (*Service, *mocks.MockLedger, *authorization.InMemoryStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	auths := authorization.NewInMemoryStore()

	svc := New(contractID, Stores{
		Authorizations: auths,
		States:         status.NewInMemoryStore(),
		Contracts:      contract.NewInMemoryStore(),
		Ownership:      ledger,
	}, pricefeed.NewInMemoryStore())
	_, _, err := svc.Bootstrap(context.Background(), models.Genesis{ContractID: contractID, Owner: owner, MintAuthorizer: minter})
	require.NoError(t, err)
	return svc, ledger, auths
}

func TestLedgerFailuresSurfaceAsInternal(t *testing.T) {
	ctx := context.Background()

	t.Run("owner lookup failure", func(t *testing.T) {
		svc, ledger, _ := newServiceWithLedger(t)
		ledger.EXPECT().OwnerOf(gomock.Any(), id.CredentialID(3)).Return(id.AccountID(""), errors.New("connection reset"))

		_, err := svc.IsCredentialValid(ctx, 3)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.False(t, errors.Is(err, models.ErrCredentialNotFound))
	})

	t.Run("ownership creation failure keeps the authorization redeemable", func(t *testing.T) {
		svc, ledger, auths := newServiceWithLedger(t)
		_, err := svc.Authorize(ctx, minter, models.AuthorizeInput{Code: 1, Destination: alice})
		require.NoError(t, err)

		ledger.EXPECT().OwnerOf(gomock.Any(), id.CredentialID(0)).Return(id.AccountID(""), sentinel.ErrNotFound).Times(2)
		gomock.InOrder(
			ledger.EXPECT().
				Create(gomock.Any(), id.CredentialID(0), alice, gomock.Any(), gomock.Any()).
				Return(nil, errors.New("disk full")),
			ledger.EXPECT().
				Create(gomock.Any(), id.CredentialID(0), alice, gomock.Any(), gomock.Any()).
				Return(&models.CredentialView{ID: 0, Owner: alice}, nil),
		)

		_, err = svc.Redeem(ctx, alice, 1, id.Amount{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.Equal(t, 1, auths.Len(), "authorization survives the failed write")

		info, err := svc.stores.Contracts.Load(ctx, contractID)
		require.NoError(t, err)
		assert.Zero(t, info.NextCredentialID, "counter not advanced")

		res, err := svc.Redeem(ctx, alice, 1, id.Amount{})
		require.NoError(t, err)
		assert.Equal(t, id.CredentialID(0), res.Credential.ID)
		assert.Zero(t, auths.Len())
	})

	t.Run("an already issued next id stops redemption before any write", func(t *testing.T) {
		svc, ledger, auths := newServiceWithLedger(t)
		_, err := svc.Authorize(ctx, minter, models.AuthorizeInput{Code: 1, Destination: alice})
		require.NoError(t, err)

		ledger.EXPECT().OwnerOf(gomock.Any(), id.CredentialID(0)).Return(bob, nil)

		_, err = svc.Redeem(ctx, alice, 1, id.Amount{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.Equal(t, 1, auths.Len())

		_, found, err := svc.stores.States.Find(ctx, 0)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("owned ids are checked until one is valid", func(t *testing.T) {
		svc, ledger, _ := newServiceWithLedger(t)
		ledger.EXPECT().IDsOwnedBy(gomock.Any(), alice).Return([]id.CredentialID{4, 8}, nil)
		require.NoError(t, svc.stores.States.Save(ctx, 4, models.CredentialState{Status: models.Status{Verified: false}, Tier: "KYC_1"}))

		valid, err := svc.HasValidAny(ctx, alice)
		require.NoError(t, err)
		assert.True(t, valid, "id 8 has no stored state and defaults to valid")
	})
}
