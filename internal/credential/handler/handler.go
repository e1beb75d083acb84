package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/httputil"
	"kycmint/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

// Service is the credential issuance core exposed over HTTP.
type Service interface {
	Authorize(ctx context.Context, caller id.AccountID, in models.AuthorizeInput) (*models.AuthorizationRecord, error)
	Redeem(ctx context.Context, caller id.AccountID, code id.AuthCode, attached id.Amount) (*models.RedeemResult, error)
	RequiredCostForSeconds(ctx context.Context, seconds uint64) (id.Amount, error)
	RequiredCostForCode(ctx context.Context, code id.AuthCode, destination id.AccountID) (id.Amount, error)

	IsCredentialValid(ctx context.Context, credentialID id.CredentialID) (bool, error)
	CredentialExpiry(ctx context.Context, credentialID id.CredentialID) (*time.Time, error)
	CredentialTier(ctx context.Context, credentialID id.CredentialID) (string, error)
	CredentialVerified(ctx context.Context, caller id.AccountID, credentialID id.CredentialID) (bool, error)
	HasValidAny(ctx context.Context, account id.AccountID) (bool, error)
	SetVerified(ctx context.Context, caller id.AccountID, credentialID id.CredentialID, verified bool) (*models.CredentialState, error)
	SetExpiry(ctx context.Context, caller id.AccountID, credentialID id.CredentialID, expiry *time.Time) (*models.CredentialState, error)
	TokenURI(ctx context.Context, credentialID id.CredentialID) (string, error)

	ContractInfo(ctx context.Context) (*models.ContractInfo, error)
	MintAuthorizer(ctx context.Context) (id.AccountID, error)
	CurrentPriceQuote(ctx context.Context) (models.PriceQuote, error)
	SetBaseURI(ctx context.Context, caller id.AccountID, baseURI string) error
	SetSubscriptionCost(ctx context.Context, caller id.AccountID, costUSD uint64) error
	SetMintAuthorizer(ctx context.Context, caller id.AccountID, authorizer id.AccountID) error
	TransferOwnership(ctx context.Context, caller id.AccountID, newOwner id.AccountID) error
	SetPriceFeed(ctx context.Context, caller id.AccountID, source string) error
	SetPriceQuote(ctx context.Context, caller id.AccountID, quote models.PriceQuote) error
	Withdraw(ctx context.Context, caller id.AccountID, recipient id.AccountID) (*models.Withdrawal, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register mounts the /v1 routes. Reads are public; everything that acts
// on behalf of a caller runs behind requireAuth.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/contract", h.handleContractInfo)
		r.Get("/contract/mint-authorizer", h.handleMintAuthorizer)
		r.Get("/pricing/quote", h.handlePriceQuote)
		r.Get("/pricing/cost", h.handleCostForSeconds)
		r.Get("/authorizations/cost", h.handleCostForCode)
		r.Get("/credentials/{id}/validity", h.handleIsValid)
		r.Get("/credentials/{id}/expiry", h.handleExpiry)
		r.Get("/credentials/{id}/tier", h.handleTier)
		r.Get("/credentials/{id}/uri", h.handleTokenURI)
		r.Get("/accounts/{account}/valid", h.handleHasValidAny)

		r.Group(func(r chi.Router) {
			if requireAuth != nil {
				r.Use(requireAuth)
			}
			r.Post("/authorizations", h.handleAuthorize)
			r.Post("/authorizations/redeem", h.handleRedeem)
			r.Get("/credentials/{id}/verified", h.handleVerified)
			r.Put("/credentials/{id}/verified", h.handleSetVerified)
			r.Put("/credentials/{id}/expiry", h.handleSetExpiry)
			r.Put("/contract/base-uri", h.handleSetBaseURI)
			r.Put("/contract/subscription-cost", h.handleSetSubscriptionCost)
			r.Put("/contract/mint-authorizer", h.handleSetMintAuthorizer)
			r.Put("/contract/owner", h.handleTransferOwnership)
			r.Put("/contract/price-feed", h.handleSetPriceFeed)
			r.Put("/contract/price-quote", h.handleSetPriceQuote)
			r.Post("/contract/withdraw", h.handleWithdraw)
		})
	})
}

// fail logs and writes err. Client-side failures log at warn, the rest at error.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, requestID string, err error) {
	if httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}

func credentialIDParam(r *http.Request) (id.CredentialID, error) {
	return id.ParseCredentialID(chi.URLParam(r, "id"))
}

// callerAndRequest resolves the authenticated caller and decodes the body.
func callerAndRequest[T any](h *Handler, w http.ResponseWriter, r *http.Request) (id.AccountID, *T, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return "", nil, false
	}
	req, ok := httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestID)
	if !ok {
		return "", nil, false
	}
	return caller, req, true
}

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, req, ok := callerAndRequest[AuthorizeRequest](h, w, r)
	if !ok {
		return
	}

	rec, err := h.service.Authorize(ctx, caller, req.Input())
	if err != nil {
		h.fail(ctx, w, "failed to authorize code", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAuthorizationResponse(rec))
}

func (h *Handler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, req, ok := callerAndRequest[RedeemRequest](h, w, r)
	if !ok {
		return
	}
	deposit, err := req.Deposit()
	if err != nil {
		h.fail(ctx, w, "invalid attached deposit", requestID, err)
		return
	}

	result, err := h.service.Redeem(ctx, caller, id.AuthCode(*req.Code), deposit)
	if err != nil {
		h.fail(ctx, w, "failed to redeem code", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleCostForSeconds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	seconds, err := parseSeconds(r.URL.Query().Get("seconds"))
	if err != nil {
		h.fail(ctx, w, "invalid seconds parameter", requestID, err)
		return
	}
	cost, err := h.service.RequiredCostForSeconds(ctx, seconds)
	if err != nil {
		h.fail(ctx, w, "failed to compute cost", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CostResponse{Cost: cost})
}

func (h *Handler) handleCostForCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	query := r.URL.Query()

	code, err := id.ParseAuthCode(query.Get("code"))
	if err != nil {
		h.fail(ctx, w, "invalid code parameter", requestID, err)
		return
	}
	destination, err := id.ParseAccountID(query.Get("destination"))
	if err != nil {
		h.fail(ctx, w, "invalid destination parameter", requestID, err)
		return
	}
	cost, err := h.service.RequiredCostForCode(ctx, code, destination)
	if err != nil {
		h.fail(ctx, w, "failed to compute cost for code", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CostResponse{Cost: cost})
}

func (h *Handler) handleIsValid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	valid, err := h.service.IsCredentialValid(ctx, credentialID)
	if err != nil {
		h.fail(ctx, w, "failed to check validity", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ValidityResponse{CredentialID: credentialID, Valid: valid})
}

func (h *Handler) handleExpiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	expiry, err := h.service.CredentialExpiry(ctx, credentialID)
	if err != nil {
		h.fail(ctx, w, "failed to read expiry", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ExpiryResponse{CredentialID: credentialID, Expiry: timeToEpoch(expiry)})
}

func (h *Handler) handleTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	tier, err := h.service.CredentialTier(ctx, credentialID)
	if err != nil {
		h.fail(ctx, w, "failed to read tier", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TierResponse{CredentialID: credentialID, Tier: tier})
}

func (h *Handler) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	uri, err := h.service.TokenURI(ctx, credentialID)
	if err != nil {
		h.fail(ctx, w, "failed to build token uri", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenURIResponse{CredentialID: credentialID, URI: uri})
}

func (h *Handler) handleHasValidAny(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	account, err := id.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		h.fail(ctx, w, "invalid account", requestID, err)
		return
	}
	valid, err := h.service.HasValidAny(ctx, account)
	if err != nil {
		h.fail(ctx, w, "failed to check account validity", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AccountValidityResponse{Account: account, Valid: valid})
}

func (h *Handler) handleVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	verified, err := h.service.CredentialVerified(ctx, caller, credentialID)
	if err != nil {
		h.fail(ctx, w, "failed to read verified flag", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VerifiedResponse{CredentialID: credentialID, Verified: verified})
}

func (h *Handler) handleSetVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	caller, req, ok := callerAndRequest[SetVerifiedRequest](h, w, r)
	if !ok {
		return
	}
	state, err := h.service.SetVerified(ctx, caller, credentialID, *req.Verified)
	if err != nil {
		h.fail(ctx, w, "failed to set verified flag", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(credentialID, state))
}

func (h *Handler) handleSetExpiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID, err := credentialIDParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid credential id", requestID, err)
		return
	}
	caller, req, ok := callerAndRequest[SetExpiryRequest](h, w, r)
	if !ok {
		return
	}
	state, err := h.service.SetExpiry(ctx, caller, credentialID, epochToTime(req.Expiry))
	if err != nil {
		h.fail(ctx, w, "failed to set expiry", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(credentialID, state))
}

func (h *Handler) handleContractInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.service.ContractInfo(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to load contract", requestcontext.RequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleMintAuthorizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authorizer, err := h.service.MintAuthorizer(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to load mint authorizer", requestcontext.RequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MintAuthorizerResponse{MintAuthorizer: authorizer})
}

func (h *Handler) handlePriceQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quote, err := h.service.CurrentPriceQuote(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to load price quote", requestcontext.RequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

func (h *Handler) handleSetBaseURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, req, ok := callerAndRequest[SetBaseURIRequest](h, w, r)
	if !ok {
		return
	}
	h.noContent(ctx, w, "failed to set base uri", h.service.SetBaseURI(ctx, caller, req.BaseURI))
}

func (h *Handler) handleSetSubscriptionCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, req, ok := callerAndRequest[SetSubscriptionCostRequest](h, w, r)
	if !ok {
		return
	}
	h.noContent(ctx, w, "failed to set subscription cost",
		h.service.SetSubscriptionCost(ctx, caller, *req.SubscriptionCostUSD))
}

func (h *Handler) handleSetMintAuthorizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, req, ok := callerAndRequest[SetAccountRequest](h, w, r)
	if !ok {
		return
	}
	h.noContent(ctx, w, "failed to set mint authorizer",
		h.service.SetMintAuthorizer(ctx, caller, id.AccountID(req.Account)))
}

func (h *Handler) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, req, ok := callerAndRequest[SetAccountRequest](h, w, r)
	if !ok {
		return
	}
	h.noContent(ctx, w, "failed to transfer ownership",
		h.service.TransferOwnership(ctx, caller, id.AccountID(req.Account)))
}

func (h *Handler) handleSetPriceFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, req, ok := callerAndRequest[SetPriceFeedRequest](h, w, r)
	if !ok {
		return
	}
	h.noContent(ctx, w, "failed to set price feed", h.service.SetPriceFeed(ctx, caller, req.PriceFeed))
}

func (h *Handler) handleSetPriceQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, req, ok := callerAndRequest[SetPriceQuoteRequest](h, w, r)
	if !ok {
		return
	}
	h.noContent(ctx, w, "failed to set price quote", h.service.SetPriceQuote(ctx, caller, req.Quote()))
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, req, ok := callerAndRequest[WithdrawRequest](h, w, r)
	if !ok {
		return
	}
	withdrawal, err := h.service.Withdraw(ctx, caller, id.AccountID(req.Recipient))
	if err != nil {
		h.fail(ctx, w, "failed to withdraw balance", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, withdrawal)
}

func (h *Handler) noContent(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if err != nil {
		h.fail(ctx, w, msg, requestcontext.RequestID(ctx), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
