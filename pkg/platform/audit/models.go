package audit

import (
	"time"

	id "kycmint/pkg/domain"
)

// Event records one state change of the issuance core. Events travel through
// the outbox to Kafka; the same fields are written to the audit log line.
type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Contract   id.ContractID     `json:"contract"`
	Actor      id.AccountID      `json:"actor,omitempty"`
	Action     Action            `json:"action"`
	Subject    string            `json:"subject,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Action string

const (
	ActionAuthorizationCreated    Action = "authorization_created"
	ActionCredentialIssued        Action = "credential_issued"
	ActionCredentialStatusUpdated Action = "credential_status_updated"
	ActionContractUpdated         Action = "contract_updated"
	ActionBalanceWithdrawn        Action = "balance_withdrawn"
	ActionContractBootstrapped    Action = "contract_bootstrapped"
)

// AggregateType is the outbox aggregate every event belongs to.
const AggregateType = "contract"
