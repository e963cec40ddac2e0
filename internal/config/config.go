// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the paycore
// services. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file. Everything here is resolved once at startup; nothing is
// request-scoped.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: the credential cipher key, the
	// payment-signature signing key, and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the credential vault persistence.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC-health servers.
	Server Server `envPrefix:"SERVER_"`

	// Payments holds the fixed parameters from which payment requirements
	// are issued: receiving account, price, resource, and default network.
	Payments Payments `envPrefix:"PAYMENTS_"`

	// Facilitator holds the orchestrator-side facilitator endpoint settings.
	Facilitator Facilitator `envPrefix:"FACILITATOR_"`

	// Ledger holds per-network ledger gateway base URLs.
	Ledger Ledger `envPrefix:"LEDGER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control at-rest
// encryption, payload signing, and versioning.
type App struct {
	// CipherKey is the key material for the credential field cipher:
	// either a 64-character hex string (used directly as a 256-bit key) or
	// a passphrase stretched with Argon2id. Must be kept confidential.
	// Rotating it invalidates all previously encrypted credential fields.
	// Env: APP_CIPHER_KEY
	CipherKey string `env:"CIPHER_KEY"`

	// SignKey is the HMAC-SHA256 key used to sign payment payloads.
	// Env: APP_SIGN_KEY
	SignKey string `env:"SIGN_KEY"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the persistence backends.
type Storage struct {
	// DB holds the credential vault database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the vault database.
type DB struct {
	// DSN is the data source name. A "postgres://" URI selects the pgx
	// driver; any other value is treated as a SQLite file path (dev/local).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the facilitator HTTP server
	// listens, in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address for the gRPC health-checking server.
	// Empty disables the gRPC listener.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Payments holds the declarative parameters of the 402 challenge this
// deployment issues.
type Payments struct {
	// Network is the default target network (e.g. "hedera-testnet").
	// Env: PAYMENTS_NETWORK
	Network string `env:"NETWORK"`

	// PayTo is the receiving account in shard.realm.num form. A malformed
	// value fails validation at startup; requirements are never issued
	// against a placeholder account.
	// Env: PAYMENTS_PAY_TO
	PayTo string `env:"PAY_TO"`

	// PriceHbar is the resource price in HBAR as a decimal string
	// (e.g. "0.001"). Converted to tinybar by truncation at issue time.
	// Env: PAYMENTS_PRICE_HBAR
	PriceHbar string `env:"PRICE_HBAR"`

	// Resource identifies the endpoint the payment unlocks.
	// Env: PAYMENTS_RESOURCE
	Resource string `env:"RESOURCE"`

	// FeePayer is the account carried in requirements extra.feePayer.
	// Env: PAYMENTS_FEE_PAYER
	FeePayer string `env:"FEE_PAYER"`

	// MaxTimeoutSeconds bounds the transfer/verify/settle pipeline for one
	// payment attempt. Defaults to 60 when unset.
	// Env: PAYMENTS_MAX_TIMEOUT
	MaxTimeoutSeconds int `env:"MAX_TIMEOUT"`
}

// Facilitator holds the orchestrator-side facilitator client settings.
type Facilitator struct {
	// BaseURL is the facilitator endpoint the orchestrator calls for
	// verify and settle (e.g. "http://localhost:8080").
	// Env: FACILITATOR_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Timeout bounds a single facilitator HTTP call.
	// Env: FACILITATOR_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Ledger holds per-network ledger gateway base URLs. Each URL points at the
// JSON gateway offering transaction submission, receipt, and balance
// queries for that network.
type Ledger struct {
	// Env: LEDGER_MAINNET_URL
	MainnetURL string `env:"MAINNET_URL"`
	// Env: LEDGER_TESTNET_URL
	TestnetURL string `env:"TESTNET_URL"`
	// Env: LEDGER_PREVIEWNET_URL
	PreviewnetURL string `env:"PREVIEWNET_URL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
