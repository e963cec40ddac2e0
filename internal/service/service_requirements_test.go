package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/models"
)

func paymentsConfig() config.Payments {
	return config.Payments{
		Network:           "hedera-testnet",
		PayTo:             "0.0.2002",
		PriceHbar:         "0.001",
		Resource:          "https://api.example.com/protected",
		FeePayer:          "0.0.3003",
		MaxTimeoutSeconds: 60,
	}
}

func TestIssueRequirements(t *testing.T) {
	req, err := IssueRequirements("", "", paymentsConfig())
	require.NoError(t, err)

	assert.Equal(t, models.SchemeExact, req.Scheme)
	assert.Equal(t, models.NetworkTestnet, req.Network)
	assert.Equal(t, "100000", req.MaxAmountRequired, "0.001 hbar is 100000 tinybar")
	assert.Equal(t, "https://api.example.com/protected", req.Resource)
	assert.Equal(t, "0.0.2002", req.PayTo)
	assert.Equal(t, 60, req.MaxTimeoutSeconds)
	assert.Equal(t, "0.0.3003", req.Extra.FeePayer)
}

func TestIssueRequirements_ArgumentsOverrideConfig(t *testing.T) {
	req, err := IssueRequirements("https://api.example.com/other", "2.5", paymentsConfig())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/other", req.Resource)
	assert.Equal(t, "250000000", req.MaxAmountRequired)
}

func TestIssueRequirements_TruncatesNeverRoundsUp(t *testing.T) {
	req, err := IssueRequirements("", "0.000000019", paymentsConfig())
	require.NoError(t, err)
	assert.Equal(t, "1", req.MaxAmountRequired, "the ninth decimal digit is dropped, not rounded")
}

func TestIssueRequirements_SubTinybarPriceRejected(t *testing.T) {
	_, err := IssueRequirements("", "0.000000001", paymentsConfig())
	require.ErrorIs(t, err, ErrInvalidRequirements, "a price that truncates to zero cannot be issued")
}

func TestIssueRequirements_Rejections(t *testing.T) {
	badPayTo := paymentsConfig()
	badPayTo.PayTo = "acct-2002"

	badNetwork := paymentsConfig()
	badNetwork.Network = "hedera-localnet"

	badPrice := paymentsConfig()
	badPrice.PriceHbar = "-1"

	badFeePayer := paymentsConfig()
	badFeePayer.FeePayer = "fee!"

	noResource := paymentsConfig()
	noResource.Resource = ""

	tests := []struct {
		name string
		cfg  config.Payments
	}{
		{name: "malformed payTo", cfg: badPayTo},
		{name: "unknown network", cfg: badNetwork},
		{name: "negative price", cfg: badPrice},
		{name: "malformed feePayer", cfg: badFeePayer},
		{name: "missing resource", cfg: noResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IssueRequirements("", "", tt.cfg)
			require.ErrorIs(t, err, ErrInvalidRequirements)
		})
	}
}

func TestIssueRequirements_DefaultTimeout(t *testing.T) {
	cfg := paymentsConfig()
	cfg.MaxTimeoutSeconds = 0

	req, err := IssueRequirements("", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, 60, req.MaxTimeoutSeconds)
}
