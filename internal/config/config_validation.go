// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/veridia/paycore/models"
)

// defaultMaxTimeoutSeconds bounds a payment attempt when the deployment
// does not configure its own limit.
const defaultMaxTimeoutSeconds = 60

// applyDefaults fills the fields whose zero value is not a usable setting.
// It runs after all sources are merged and before validation.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Payments.MaxTimeoutSeconds <= 0 {
		cfg.Payments.MaxTimeoutSeconds = defaultMaxTimeoutSeconds
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The cipher key is required: the vault never stores secrets it cannot
// encrypt. Payment parameters are validated only when set, since the
// facilitator binary runs without a payments section; a set-but-malformed
// payTo or network is a startup failure, never silently defaulted.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.CipherKey == "" {
		return ErrNoCipherKey
	}

	if cfg.Payments.PayTo != "" && !models.ValidAccountID(cfg.Payments.PayTo) {
		return ErrInvalidPayTo
	}

	if cfg.Payments.Network != "" {
		if _, err := models.NormalizeNetwork(cfg.Payments.Network); err != nil {
			return ErrInvalidNetwork
		}
	}

	if cfg.Payments.FeePayer != "" && !models.ValidAccountID(cfg.Payments.FeePayer) {
		return ErrInvalidFeePayer
	}

	return nil
}
