package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kycmint/internal/credential/handler/mocks"
	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/requestcontext"
)

const callerHeader = "X-Test-Caller"

type CredentialHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestCredentialHandlerSuite(t *testing.T) {
	suite.Run(t, new(CredentialHandlerSuite))
}

func (s *CredentialHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = newTestRouter(s.service, fakeAuth)
}

// fakeAuth trusts the test header as the authenticated caller and rejects
// requests that do not carry one.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := r.Header.Get(callerHeader)
		if caller == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(r.Context(), id.AccountID(caller))))
	})
}

func newTestRouter(service Service, requireAuth func(http.Handler) http.Handler) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(service, logger).Register(r, requireAuth)
	return r
}

func (s *CredentialHandlerSuite) do(method, path, caller string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CredentialHandlerSuite) assertErrorResponse(w *httptest.ResponseRecorder, status int, code string) {
	s.Require().Equal(status, w.Code, w.Body.String())
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(code, body["error"])
}

func (s *CredentialHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *CredentialHandlerSuite) TestAuthorize() {
	s.Run("creates authorization for the caller", func() {
		created := time.Unix(1_700_000_000, 0).UTC()
		expiry := time.Unix(1_800_000_000, 0).UTC()
		s.service.EXPECT().
			Authorize(gomock.Any(), id.AccountID("authorizer.near"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.AccountID, in models.AuthorizeInput) (*models.AuthorizationRecord, error) {
				s.Equal(id.AuthCode(42), in.Code)
				s.Equal(id.AccountID("alice.near"), in.Destination)
				s.Require().NotNil(in.Expiry)
				s.True(expiry.Equal(*in.Expiry))
				s.Equal("KYC_2", *in.Tier)
				s.Require().NotNil(in.Metadata.Extra)
				s.Equal("QmAlice", *in.Metadata.Extra)
				return &models.AuthorizationRecord{
					Digest:      models.DeriveDigest(in.Code, in.Destination, "kyc.near"),
					Destination: in.Destination,
					Status:      &models.Status{Verified: true, Expiry: in.Expiry},
					Tier:        in.Tier,
					CreatedAt:   created,
				}, nil
			})

		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", map[string]any{
			"code":        42,
			"destination": "alice.near",
			"metadata":    map[string]any{"title": "KYC", "extra": "QmAlice"},
			"expiry":      expiry.Unix(),
			"tier":        " KYC_2 ",
		})

		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		body := s.decode(w)
		s.Len(body["digest"], 64)
		s.Equal("KYC_2", body["tier"])
		s.Equal(float64(expiry.Unix()), body["expiry"])
		s.Equal(float64(0), body["seconds_to_pay"])
	})

	s.Run("missing code is a validation error", func() {
		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", map[string]any{
			"destination": "alice.near",
		})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("missing metadata is a validation error", func() {
		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", map[string]any{
			"code":        1,
			"destination": "alice.near",
		})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("null metadata is a validation error", func() {
		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", `{"code":1,"destination":"alice.near","metadata":null}`)
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed destination is rejected", func() {
		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", map[string]any{
			"code":        1,
			"destination": "Not An Account",
			"metadata":    map[string]any{},
		})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown fields are rejected", func() {
		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", `{"code":1,"destination":"alice.near","metadata":{},"bogus":true}`)
		s.assertErrorResponse(w, http.StatusBadRequest, "bad_request")
	})

	s.Run("non-authorizer gets 403", func() {
		s.service.EXPECT().Authorize(gomock.Any(), id.AccountID("mallory.near"), gomock.Any()).
			Return(nil, models.ErrUnauthorized)

		w := s.do(http.MethodPost, "/v1/authorizations", "mallory.near", map[string]any{
			"code": 1, "destination": "alice.near", "metadata": map[string]any{},
		})
		s.assertErrorResponse(w, http.StatusForbidden, "forbidden")
	})

	s.Run("duplicate digest gets 409", func() {
		s.service.EXPECT().Authorize(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, models.ErrCodeAlreadyAuthorized)

		w := s.do(http.MethodPost, "/v1/authorizations", "authorizer.near", map[string]any{
			"code": 1, "destination": "alice.near", "metadata": map[string]any{},
		})
		s.assertErrorResponse(w, http.StatusConflict, "code_already_authorized")
	})

	s.Run("unauthenticated request never reaches the service", func() {
		w := s.do(http.MethodPost, "/v1/authorizations", "", map[string]any{
			"code": 1, "destination": "alice.near", "metadata": map[string]any{},
		})
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *CredentialHandlerSuite) TestRedeem() {
	s.Run("returns credential with cost and refund", func() {
		s.service.EXPECT().
			Redeem(gomock.Any(), id.AccountID("alice.near"), id.AuthCode(7), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.AccountID, _ id.AuthCode, attached id.Amount) (*models.RedeemResult, error) {
				s.Equal("1000", attached.String())
				return &models.RedeemResult{
					Credential: models.CredentialView{ID: 0, Owner: "alice.near"},
					Cost:       id.AmountFromUint64(600),
					Refund:     id.AmountFromUint64(400),
				}, nil
			})

		w := s.do(http.MethodPost, "/v1/authorizations/redeem", "alice.near", map[string]any{
			"code": 7, "attached_deposit": "1000",
		})

		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		body := s.decode(w)
		s.Equal("600", body["cost"])
		s.Equal("400", body["refund"])
		credential := body["credential"].(map[string]any)
		s.Equal("alice.near", credential["owner"])
	})

	s.Run("omitted deposit redeems as zero", func() {
		s.service.EXPECT().
			Redeem(gomock.Any(), gomock.Any(), id.AuthCode(8), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.AccountID, _ id.AuthCode, attached id.Amount) (*models.RedeemResult, error) {
				s.True(attached.IsZero())
				return &models.RedeemResult{Credential: models.CredentialView{ID: 1, Owner: "alice.near"}}, nil
			})

		w := s.do(http.MethodPost, "/v1/authorizations/redeem", "alice.near", map[string]any{"code": 8})
		s.Equal(http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("non-numeric deposit is rejected", func() {
		w := s.do(http.MethodPost, "/v1/authorizations/redeem", "alice.near", map[string]any{
			"code": 7, "attached_deposit": "1e24",
		})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown code", models.ErrUnauthorizedCode, http.StatusNotFound, "unauthorized_code"},
		{"underpaid", models.ErrInsufficientPayment, http.StatusPaymentRequired, "insufficient_payment"},
		{"counter exhausted", models.ErrIDOverflow, http.StatusConflict, "id_overflow"},
		{"storage timeout", dErrors.Wrap(context.DeadlineExceeded, dErrors.CodeTimeout, "transaction timed out"), http.StatusGatewayTimeout, "timeout"},
		{"untyped failure", io.ErrUnexpectedEOF, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range errorCases {
		s.Run(tc.name, func() {
			s.service.EXPECT().Redeem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			w := s.do(http.MethodPost, "/v1/authorizations/redeem", "alice.near", map[string]any{
				"code": 7, "attached_deposit": "1",
			})
			s.assertErrorResponse(w, tc.status, tc.code)
		})
	}
}

func (s *CredentialHandlerSuite) TestCostQueries() {
	s.Run("cost for seconds", func() {
		s.service.EXPECT().RequiredCostForSeconds(gomock.Any(), uint64(86400)).
			Return(id.AmountFromUint64(123), nil)

		w := s.do(http.MethodGet, "/v1/pricing/cost?seconds=86400", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal("123", s.decode(w)["cost"])
	})

	s.Run("missing seconds", func() {
		w := s.do(http.MethodGet, "/v1/pricing/cost", "", nil)
		s.assertErrorResponse(w, http.StatusBadRequest, "bad_request")
	})

	s.Run("zero price quote surfaces as 422", func() {
		s.service.EXPECT().RequiredCostForSeconds(gomock.Any(), uint64(1)).
			Return(id.Amount{}, models.ErrInvalidPriceQuote)

		w := s.do(http.MethodGet, "/v1/pricing/cost?seconds=1", "", nil)
		s.assertErrorResponse(w, http.StatusUnprocessableEntity, "invalid_price_quote")
	})

	s.Run("cost for code", func() {
		s.service.EXPECT().RequiredCostForCode(gomock.Any(), id.AuthCode(5), id.AccountID("alice.near")).
			Return(id.AmountFromUint64(0), nil)

		w := s.do(http.MethodGet, "/v1/authorizations/cost?code=5&destination=alice.near", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal("0", s.decode(w)["cost"])
	})

	s.Run("cost for code with bad destination", func() {
		w := s.do(http.MethodGet, "/v1/authorizations/cost?code=5&destination=", "", nil)
		s.assertErrorResponse(w, http.StatusBadRequest, "bad_request")
	})
}

func (s *CredentialHandlerSuite) TestStatusReads() {
	s.Run("validity is public", func() {
		s.service.EXPECT().IsCredentialValid(gomock.Any(), id.CredentialID(3)).Return(true, nil)

		w := s.do(http.MethodGet, "/v1/credentials/3/validity", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(true, s.decode(w)["valid"])
	})

	s.Run("unknown credential", func() {
		s.service.EXPECT().CredentialTier(gomock.Any(), id.CredentialID(99)).Return("", models.ErrCredentialNotFound)

		w := s.do(http.MethodGet, "/v1/credentials/99/tier", "", nil)
		s.assertErrorResponse(w, http.StatusNotFound, "credential_not_found")
	})

	s.Run("non-numeric credential id", func() {
		w := s.do(http.MethodGet, "/v1/credentials/abc/validity", "", nil)
		s.assertErrorResponse(w, http.StatusBadRequest, "bad_request")
	})

	s.Run("absent expiry renders null", func() {
		s.service.EXPECT().CredentialExpiry(gomock.Any(), id.CredentialID(0)).Return(nil, nil)

		w := s.do(http.MethodGet, "/v1/credentials/0/expiry", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		body := s.decode(w)
		s.Contains(body, "expiry")
		s.Nil(body["expiry"])
	})

	s.Run("verified flag requires authentication", func() {
		w := s.do(http.MethodGet, "/v1/credentials/0/verified", "", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("verified flag for the authorizer", func() {
		s.service.EXPECT().CredentialVerified(gomock.Any(), id.AccountID("authorizer.near"), id.CredentialID(0)).
			Return(false, nil)

		w := s.do(http.MethodGet, "/v1/credentials/0/verified", "authorizer.near", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(false, s.decode(w)["verified"])
	})

	s.Run("has valid credential for account", func() {
		s.service.EXPECT().HasValidAny(gomock.Any(), id.AccountID("alice.near")).Return(true, nil)

		w := s.do(http.MethodGet, "/v1/accounts/alice.near/valid", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(true, s.decode(w)["valid"])
	})

	s.Run("token uri without extra", func() {
		s.service.EXPECT().TokenURI(gomock.Any(), id.CredentialID(1)).Return("", models.ErrMissingTokenURIData)

		w := s.do(http.MethodGet, "/v1/credentials/1/uri", "", nil)
		s.assertErrorResponse(w, http.StatusBadRequest, "bad_request")
	})
}

func (s *CredentialHandlerSuite) TestStatusUpdates() {
	s.Run("set verified returns the new state", func() {
		s.service.EXPECT().SetVerified(gomock.Any(), id.AccountID("authorizer.near"), id.CredentialID(2), false).
			Return(&models.CredentialState{Status: models.Status{Verified: false}, Tier: models.DefaultTier}, nil)

		w := s.do(http.MethodPut, "/v1/credentials/2/verified", "authorizer.near", map[string]any{"verified": false})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		body := s.decode(w)
		s.Equal(false, body["verified"])
		s.Equal(models.DefaultTier, body["tier"])
	})

	s.Run("set verified without a value", func() {
		w := s.do(http.MethodPut, "/v1/credentials/2/verified", "authorizer.near", map[string]any{})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("null expiry clears it", func() {
		s.service.EXPECT().SetExpiry(gomock.Any(), gomock.Any(), id.CredentialID(2), (*time.Time)(nil)).
			Return(&models.CredentialState{Status: models.Status{Verified: true}, Tier: models.DefaultTier}, nil)

		w := s.do(http.MethodPut, "/v1/credentials/2/expiry", "authorizer.near", `{"expiry":null}`)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.Nil(s.decode(w)["expiry"])
	})

	s.Run("non-authorizer cannot update", func() {
		s.service.EXPECT().SetExpiry(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, models.ErrUnauthorized)

		w := s.do(http.MethodPut, "/v1/credentials/2/expiry", "alice.near", map[string]any{"expiry": 10})
		s.assertErrorResponse(w, http.StatusForbidden, "forbidden")
	})
}

func (s *CredentialHandlerSuite) TestContractConfiguration() {
	s.Run("contract info is public", func() {
		s.service.EXPECT().ContractInfo(gomock.Any()).Return(&models.ContractInfo{
			ID:          "kyc.near",
			Name:        models.CollectionName,
			Symbol:      models.CollectionSymbol,
			Owner:       "owner.near",
			TotalIssued: 2,
			Balance:     id.AmountFromUint64(10),
		}, nil)

		w := s.do(http.MethodGet, "/v1/contract", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		body := s.decode(w)
		s.Equal("PEOPLE", body["symbol"])
		s.Equal("10", body["balance"])
	})

	s.Run("price quote is public", func() {
		s.service.EXPECT().CurrentPriceQuote(gomock.Any()).Return(models.DefaultPriceQuote(), nil)

		w := s.do(http.MethodGet, "/v1/pricing/quote", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		body := s.decode(w)
		s.Equal(float64(17370), body["price"])
		s.Equal(float64(4), body["decimals"])
	})

	s.Run("before bootstrap", func() {
		s.service.EXPECT().MintAuthorizer(gomock.Any()).Return(id.AccountID(""), models.ErrContractNotFound)

		w := s.do(http.MethodGet, "/v1/contract/mint-authorizer", "", nil)
		s.assertErrorResponse(w, http.StatusNotFound, "not_found")
	})

	s.Run("owner rotates the authorizer", func() {
		s.service.EXPECT().SetMintAuthorizer(gomock.Any(), id.AccountID("owner.near"), id.AccountID("ops.near")).Return(nil)

		w := s.do(http.MethodPut, "/v1/contract/mint-authorizer", "owner.near", map[string]any{"account": "ops.near"})
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("ownership transfer by stranger", func() {
		s.service.EXPECT().TransferOwnership(gomock.Any(), id.AccountID("mallory.near"), gomock.Any()).Return(models.ErrUnauthorized)

		w := s.do(http.MethodPut, "/v1/contract/owner", "mallory.near", map[string]any{"account": "mallory.near"})
		s.assertErrorResponse(w, http.StatusForbidden, "forbidden")
	})

	s.Run("zero price quote", func() {
		s.service.EXPECT().SetPriceQuote(gomock.Any(), gomock.Any(), models.PriceQuote{Price: 0, Decimals: 4}).
			Return(models.ErrInvalidPriceQuote)

		w := s.do(http.MethodPut, "/v1/contract/price-quote", "owner.near", map[string]any{"price": 0, "decimals": 4})
		s.assertErrorResponse(w, http.StatusUnprocessableEntity, "invalid_price_quote")
	})

	s.Run("quote decimals are bounded", func() {
		w := s.do(http.MethodPut, "/v1/contract/price-quote", "owner.near", map[string]any{"price": 1, "decimals": 30})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("base uri must be a url", func() {
		w := s.do(http.MethodPut, "/v1/contract/base-uri", "owner.near", map[string]any{"base_uri": "not a url"})
		s.assertErrorResponse(w, http.StatusBadRequest, "validation_error")
	})

	s.Run("subscription cost", func() {
		s.service.EXPECT().SetSubscriptionCost(gomock.Any(), id.AccountID("owner.near"), uint64(2_400_000_000)).Return(nil)

		w := s.do(http.MethodPut, "/v1/contract/subscription-cost", "owner.near", map[string]any{"subscription_cost_usd": 2_400_000_000})
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("withdraw empty balance", func() {
		s.service.EXPECT().Withdraw(gomock.Any(), id.AccountID("owner.near"), id.AccountID("treasury.near")).
			Return(nil, models.ErrNothingToWithdraw)

		w := s.do(http.MethodPost, "/v1/contract/withdraw", "owner.near", map[string]any{"recipient": "treasury.near"})
		s.assertErrorResponse(w, http.StatusConflict, "conflict")
	})

	s.Run("withdraw pays out the balance", func() {
		s.service.EXPECT().Withdraw(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.Withdrawal{Recipient: "treasury.near", Amount: id.AmountFromUint64(55)}, nil)

		w := s.do(http.MethodPost, "/v1/contract/withdraw", "owner.near", map[string]any{"recipient": "treasury.near"})
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal("55", s.decode(w)["amount"])
	})
}

func (s *CredentialHandlerSuite) TestMissingCallerIsAnInternalError() {
	// Without auth middleware the caller never lands in the context.
	s.router = newTestRouter(s.service, nil)

	w := s.do(http.MethodPost, "/v1/contract/withdraw", "owner.near", map[string]any{"recipient": "treasury.near"})
	s.assertErrorResponse(w, http.StatusInternalServerError, "internal_error")
}
