package models

import "github.com/golang-jwt/jwt/v5"

// PaymentClaims is the claim set signed into a PaymentPayload.Signature.
// It binds the payer account, the freshly generated nonce and session, and
// the on-ledger transaction identifier into one tamper-evident token.
type PaymentClaims struct {
	AccountID     string `json:"accountId"`
	Nonce         string `json:"nonce"`
	SessionID     string `json:"sessionId"`
	TransactionID string `json:"transactionId"`

	jwt.RegisteredClaims
}
