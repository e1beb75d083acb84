package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/testutil"
)

const racers = 24

func (s *ServiceSuite) TestConcurrentRedeemOfOneCodeIssuesOnce() {
	s.authorize(11, alice)

	result := testutil.RunConcurrentCtx(s.ctx, racers, func(ctx context.Context, _ int) error {
		_, err := s.svc.Redeem(ctx, alice, 11, id.Amount{})
		return err
	})

	s.Equal(1, result.Successes)
	s.Equal(racers-1, result.FailuresWith(dErrors.CodeUnauthorizedCode))
	count, err := s.ledger.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), count)
}

func (s *ServiceSuite) TestConcurrentRedeemsGetDistinctSequentialIDs() {
	accounts := make([]id.AccountID, racers)
	for i := range accounts {
		accounts[i] = id.AccountID(fmt.Sprintf("user%d.near", i))
		s.authorize(id.AuthCode(100+i), accounts[i])
	}

	var (
		mu  sync.Mutex
		ids []int
	)
	result := testutil.RunConcurrentCtx(s.ctx, racers, func(ctx context.Context, idx int) error {
		res, err := s.svc.Redeem(ctx, accounts[idx], id.AuthCode(100+idx), id.Amount{})
		if err != nil {
			return err
		}
		mu.Lock()
		ids = append(ids, int(res.Credential.ID))
		mu.Unlock()
		return nil
	})

	s.Require().Equal(racers, result.Successes)
	sort.Ints(ids)
	for i, got := range ids {
		s.Equal(i, got)
	}
	info, err := s.svc.ContractInfo(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(racers), info.TotalIssued)
}

func (s *ServiceSuite) TestConcurrentAuthorizeOfOneDigestKeepsFirst() {
	result := testutil.RunConcurrentCtx(s.ctx, racers, func(ctx context.Context, idx int) error {
		tier := fmt.Sprintf("KYC_%d", idx)
		_, err := s.svc.Authorize(ctx, minter, models.AuthorizeInput{
			Code:        5,
			Destination: bob,
			Tier:        &tier,
		})
		return err
	})

	s.Equal(1, result.Successes)
	s.Equal(racers-1, result.FailuresWith(dErrors.CodeCodeAlreadyAuthorized))
	s.Equal(1, s.auths.Len())
}
