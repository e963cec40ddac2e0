package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration values are missing or malformed. All of them are fail-fast
// startup errors: the process never runs with a partially valid config.
var (
	// ErrNoCipherKey indicates that no credential cipher key material was
	// provided through any configuration source.
	ErrNoCipherKey = errors.New("missing credential cipher key")
	// ErrInvalidPayTo indicates that the configured receiving account does
	// not satisfy the shard.realm.num account grammar.
	ErrInvalidPayTo = errors.New("invalid payTo account")
	// ErrInvalidNetwork indicates that the configured default network is
	// not one of the canonical network tokens.
	ErrInvalidNetwork = errors.New("invalid payment network")
	// ErrInvalidFeePayer indicates that the configured fee payer account
	// does not satisfy the account grammar.
	ErrInvalidFeePayer = errors.New("invalid fee payer account")
)
