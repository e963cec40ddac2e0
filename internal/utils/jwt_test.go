// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridia/paycore/models"
)

const testSignKey = "payment-sign-key"

func testClaims() models.PaymentClaims {
	return models.PaymentClaims{
		AccountID:     "0.0.1001",
		Nonce:         "0198f6a2-nonce",
		SessionID:     "0198f6a2-session",
		TransactionID: "0.0.1001@1700000000.42",
	}
}

func TestSignAndParsePaymentClaims(t *testing.T) {
	signed, err := SignPaymentClaims(testClaims(), time.Minute, testSignKey)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	parsed, err := ParsePaymentClaims(signed, testSignKey)
	require.NoError(t, err)

	assert.Equal(t, "0.0.1001", parsed.AccountID)
	assert.Equal(t, "0198f6a2-nonce", parsed.Nonce)
	assert.Equal(t, "0198f6a2-session", parsed.SessionID)
	assert.Equal(t, "0.0.1001@1700000000.42", parsed.TransactionID)
}

func TestSignPaymentClaims_InvalidParams(t *testing.T) {
	noAccount := testClaims()
	noAccount.AccountID = ""

	noTx := testClaims()
	noTx.TransactionID = ""

	tests := []struct {
		name     string
		claims   models.PaymentClaims
		validity time.Duration
		signKey  string
	}{
		{name: "missing account", claims: noAccount, validity: time.Minute, signKey: testSignKey},
		{name: "missing transaction id", claims: noTx, validity: time.Minute, signKey: testSignKey},
		{name: "zero validity", claims: testClaims(), validity: 0, signKey: testSignKey},
		{name: "empty sign key", claims: testClaims(), validity: time.Minute, signKey: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SignPaymentClaims(tt.claims, tt.validity, tt.signKey)
			assert.Error(t, err)
		})
	}
}

func TestParsePaymentClaims_WrongKey(t *testing.T) {
	signed, err := SignPaymentClaims(testClaims(), time.Minute, testSignKey)
	require.NoError(t, err)

	_, err = ParsePaymentClaims(signed, "a-different-key")
	assert.Error(t, err)
}

func TestParsePaymentClaims_Expired(t *testing.T) {
	signed, err := SignPaymentClaims(testClaims(), time.Nanosecond, testSignKey)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = ParsePaymentClaims(signed, testSignKey)
	assert.Error(t, err)
}

func TestParsePaymentClaims_Garbage(t *testing.T) {
	_, err := ParsePaymentClaims("not.a.token", testSignKey)
	assert.Error(t, err)
}
