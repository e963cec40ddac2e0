package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrCredentialNotFound is returned when a query expects an ACTIVE
	// credential for a (user_id, credential_type) pair and the result set
	// is empty.
	ErrCredentialNotFound = errors.New("credential was not found")

	// ErrCredentialNotSaved is returned when an upsert completes without a
	// database error but no row was actually written.
	ErrCredentialNotSaved = errors.New("credential was not saved")

	// ErrDuplicateActiveCredential is returned when an insert collides with
	// the partial unique index guarding the one-ACTIVE-row invariant and
	// the follow-up update also finds no row to converge on.
	ErrDuplicateActiveCredential = errors.New("duplicate active credential")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan credential row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan credential rows")
)
