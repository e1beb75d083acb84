package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kycmint/internal/credential/metrics"
	"kycmint/internal/credential/models"
	"kycmint/internal/credential/store/authorization"
	"kycmint/internal/credential/store/contract"
	"kycmint/internal/credential/store/status"
	"kycmint/internal/ownership"
	"kycmint/internal/pricefeed"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/audit/outbox"
	"kycmint/pkg/platform/sentinel"
)

// Stores bundles every store one operation touches. Inside RunInTx the
// bundle is bound to the transaction.
type Stores struct {
	Authorizations authorization.Store
	States         status.Store
	Contracts      contract.Store
	Ownership      ownership.Ledger
	Outbox         outbox.Appender
}

type Option func(*Service)

// Service is the issuance core: the authorization ledger, the redeem state
// machine, the validity engine and the owner configuration surface of one
// contract.
type Service struct {
	contractID id.ContractID
	stores     Stores
	tx         StoreTx
	prices     pricefeed.Store
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New wires the service for contractID. Reads go through stores directly;
// mutations go through the StoreTx, which defaults to a mutex over stores.
func New(contractID id.ContractID, stores Stores, prices pricefeed.Store, opts ...Option) *Service {
	svc := &Service{
		contractID: contractID,
		stores:     stores,
		prices:     prices,
		logger:     slog.Default(),
		tracer:     otel.Tracer("kycmint/credential"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.tx == nil {
		svc.tx = NewInMemoryTx(stores)
	}
	return svc
}

// WithTx sets the transaction boundary used by mutations.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer replaces the global otel tracer, mostly for tests.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// ContractID reports which contract this service operates on.
func (s *Service) ContractID() id.ContractID {
	return s.contractID
}

func (s *Service) loadContract(ctx context.Context, st Stores) (*models.Contract, error) {
	c, err := st.Contracts.Load(ctx, s.contractID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrContractNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contract")
	}
	return c, nil
}

func (s *Service) saveContract(ctx context.Context, st Stores, c *models.Contract) error {
	if err := st.Contracts.Save(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrContractNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contract")
	}
	return nil
}

// requireCredential confirms the id exists in the ownership ledger.
func requireCredential(ctx context.Context, ledger ownership.Ledger, credentialID id.CredentialID) (id.AccountID, error) {
	owner, err := ledger.OwnerOf(ctx, credentialID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", models.ErrCredentialNotFound
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up credential")
	}
	return owner, nil
}
