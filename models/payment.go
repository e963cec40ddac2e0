package models

import "regexp"

// SchemeExact is the only payment scheme issued by this service: the payer
// transfers exactly the required amount to the receiving account.
const SchemeExact = "exact"

// TokenNative identifies the ledger's native currency in a PaymentPayload.
// Crypto transfers always move the native token; asset-token transfers are
// not supported.
const TokenNative = "HBAR"

var (
	// accountIDPattern is the Hedera account-identifier grammar
	// (shard.realm.num, e.g. "0.0.999").
	accountIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

	// transactionIDPattern matches the ledger transaction-identifier form
	// payerAccount@seconds.nanos (e.g. "0.0.1234@1700000000.000000001").
	transactionIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+@\d+\.\d+$`)
)

// ValidAccountID reports whether s satisfies the ledger's account-identifier
// grammar.
func ValidAccountID(s string) bool {
	return accountIDPattern.MatchString(s)
}

// ValidTransactionID reports whether s is a parseable ledger transaction
// identifier.
func ValidTransactionID(s string) bool {
	return transactionIDPattern.MatchString(s)
}

// PaymentRequirements is the declarative "what must be paid, to whom, on
// which network" object modelling an HTTP 402 challenge. It is immutable
// once issued; the rest of the flow consumes it, never mutates it.
type PaymentRequirements struct {
	Scheme            string            `json:"scheme"`
	Network           Network           `json:"network"`
	MaxAmountRequired string            `json:"maxAmountRequired"`
	Resource          string            `json:"resource"`
	PayTo             string            `json:"payTo"`
	MaxTimeoutSeconds int               `json:"maxTimeoutSeconds"`
	Extra             RequirementsExtra `json:"extra"`
}

// RequirementsExtra carries scheme-specific requirement fields.
type RequirementsExtra struct {
	FeePayer string `json:"feePayer"`
}

// PaymentMetadata rides on a PaymentPayload and must carry the on-ledger
// transaction identifier once a transfer has executed. A payload without a
// parseable TransactionID is invalid before any network call is made.
type PaymentMetadata struct {
	TransactionID string `json:"transactionId"`
}

// PaymentPayload is the payer's claim presented to the facilitator. The
// facilitator does not trust any of its fields; it independently looks up
// the referenced transaction on the ledger.
type PaymentPayload struct {
	Network   Network         `json:"network"`
	AccountID string          `json:"accountId"`
	Amount    string          `json:"amount"`
	Token     string          `json:"token"`
	Nonce     string          `json:"nonce"`
	SessionID string          `json:"sessionId"`
	Metadata  PaymentMetadata `json:"metadata"`
	Signature string          `json:"signature"`
}
