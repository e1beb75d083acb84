package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/middleware/metadata"
)

const (
	DefaultAddr                = ":8080"
	DefaultContractID          = "kycmint.near"
	DefaultContractOwner       = "owner.near"
	DefaultSubscriptionCostUSD = uint64(500_000_000)
	DefaultPriceFeed           = "priceoracle.near"
	DefaultAuditTopic          = "kycmint.audit.events"

	devSigningKey = "dev-secret-key-change-in-production"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Server    Server
	Auth      Auth
	Contract  Contract
	Database  Database
	Redis     Redis
	Kafka     Kafka
	RateLimit RateLimit
	// TrustedProxies are the CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []netip.Prefix
}

type Server struct {
	Addr        string
	Environment string
}

// IsProduction reports whether dev conveniences must be refused.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

type Auth struct {
	SigningKey string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
}

// Contract is the genesis configuration of the contract aggregate. It is
// only applied when the aggregate does not exist yet.
type Contract struct {
	ID                  id.ContractID
	Owner               id.AccountID
	MintAuthorizer      id.AccountID
	BaseURI             string
	SubscriptionCostUSD uint64
	PriceFeed           string
}

type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Kafka struct {
	Brokers    string
	Acks       string
	Retries    int
	AuditTopic string
}

// Enabled is false when no brokers are configured; events are then discarded.
func (k Kafka) Enabled() bool {
	return strings.TrimSpace(k.Brokers) != ""
}

type RateLimit struct {
	RPS   float64
	Burst int
}

func (r RateLimit) Enabled() bool {
	return r.RPS > 0 && r.Burst > 0
}

// FromEnv builds the configuration from environment variables.
func FromEnv() (Config, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(get func(string) string) (Config, error) {
	p := parser{get: get}

	cfg := Config{
		Server: Server{
			Addr:        p.str("KYCMINT_ADDR", DefaultAddr),
			Environment: p.str("KYCMINT_ENV", "development"),
		},
		Auth: Auth{
			SigningKey: p.str("JWT_SIGNING_KEY", ""),
			Issuer:     p.str("JWT_ISSUER", "kycmint"),
			Audience:   p.str("JWT_AUDIENCE", "kycmint-api"),
			TokenTTL:   p.duration("TOKEN_TTL", 15*time.Minute),
		},
		Contract: Contract{
			BaseURI:             p.str("BASE_URI", ""),
			SubscriptionCostUSD: p.unsigned("SUBSCRIPTION_COST_USD", DefaultSubscriptionCostUSD),
			PriceFeed:           p.str("PRICE_FEED", DefaultPriceFeed),
		},
		Database: Database{
			URL:             p.str("DATABASE_URL", ""),
			MaxOpenConns:    p.integer("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    p.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: Redis{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    p.str("KAFKA_BROKERS", ""),
			Acks:       p.str("KAFKA_ACKS", "all"),
			Retries:    p.integer("KAFKA_RETRIES", 3),
			AuditTopic: p.str("KAFKA_AUDIT_TOPIC", DefaultAuditTopic),
		},
		RateLimit: RateLimit{
			RPS:   p.float("RATE_LIMIT_RPS", 20),
			Burst: p.integer("RATE_LIMIT_BURST", 40),
		},
	}

	cfg.Contract.ID = id.ContractID(p.str("CONTRACT_ID", DefaultContractID))
	cfg.Contract.Owner = p.account("CONTRACT_OWNER", DefaultContractOwner)
	cfg.Contract.MintAuthorizer = p.account("MINT_AUTHORIZER", cfg.Contract.Owner.String())

	if raw := p.str("TRUSTED_PROXIES", ""); raw != "" {
		proxies, err := metadata.ParseTrustedProxies(strings.Split(raw, ","))
		if err != nil {
			p.fail("TRUSTED_PROXIES", err)
		}
		cfg.TrustedProxies = proxies
	}

	if cfg.Auth.SigningKey == "" {
		if cfg.Server.IsProduction() {
			p.fail("JWT_SIGNING_KEY", fmt.Errorf("required in production"))
		}
		cfg.Auth.SigningKey = devSigningKey
	}

	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

// parser keeps the first error so FromEnv can read every variable in one pass.
type parser struct {
	get func(string) string
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config %s: %w", key, err)
	}
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.get(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) unsigned(key string, def uint64) uint64 {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) account(key, def string) id.AccountID {
	acct, err := id.ParseAccountID(p.str(key, def))
	if err != nil {
		p.fail(key, err)
	}
	return acct
}
