package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/models"
)

// credentialRepository is the SQL-backed implementation of
// [CredentialRepository]. It executes all vault CRUD operations directly
// against the "credentials" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (user_id, credential_type, etc.).
type credentialRepository struct {
	*DB
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	return &credentialRepository{
		DB:     db,
		logger: logger,
	}
}

// GetActive retrieves the single ACTIVE credential for the
// (userID, credentialType) pair.
//
// Returns [ErrCredentialNotFound] when no ACTIVE row exists.
func (c *credentialRepository) GetActive(ctx context.Context, userID, credentialType string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetCredentialsQuery(credentialFilter{
		UserID:         userID,
		CredentialType: credentialType,
		Status:         models.CredentialActive,
	})
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.GetActive").
			Str("user_id", userID).
			Msg("failed to build query")
		return models.Credential{}, err
	}

	var cred models.Credential
	scanErr := c.DB.QueryRowContext(ctx, query, args...).Scan(
		&cred.CredentialID,
		&cred.UserID,
		&cred.CredentialType,
		&cred.CredentialData,
		&cred.Status,
		&cred.CreatedAt,
		&cred.UpdatedAt,
		&cred.CreatedBy,
		&cred.UpdatedBy,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.Credential{}, ErrCredentialNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "credentialRepository.GetActive").
			Str("user_id", userID).
			Str("credential_type", credentialType).
			Msg("failed to scan credential row")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return cred, nil
}

// Upsert updates the ACTIVE row for the credential's pair, inserting a new
// one when none exists.
//
// The operation runs inside a transaction. An insert that loses a race with
// a concurrent upsert hits the partial unique index; that collision is
// resolved by retrying the update against the now-existing row, so
// concurrent upserts converge to a single active row (last writer wins).
func (c *credentialRepository) Upsert(ctx context.Context, credential models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Upsert").
			Str("user_id", credential.UserID).
			Msg("failed to begin transaction")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stored, err := c.upsertInTx(ctx, tx, credential)
	if err != nil {
		return models.Credential{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "credentialRepository.Upsert").
			Str("user_id", credential.UserID).
			Msg("failed to commit transaction")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "credentialRepository.Upsert").
		Str("user_id", credential.UserID).
		Str("credential_type", credential.CredentialType).
		Str("credential_id", stored.CredentialID).
		Msg("credential upserted")

	return stored, nil
}

func (c *credentialRepository) upsertInTx(ctx context.Context, tx *sql.Tx, credential models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()

	updated, err := c.updateActive(ctx, tx, credential, now)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, ErrCredentialNotFound) {
		return models.Credential{}, err
	}

	// No active row yet: insert. A concurrent upsert may beat us to it, in
	// which case the partial unique index fires and we converge by updating
	// the winner's row. The savepoint keeps the transaction usable after
	// the failed insert.
	inserted := credential
	inserted.Status = models.CredentialActive
	inserted.CreatedAt = now
	inserted.UpdatedAt = now
	inserted.CreatedBy = credential.UpdatedBy

	if _, spErr := tx.ExecContext(ctx, savepointUpsertInsert); spErr != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrExecutingQuery, spErr)
	}

	_, execErr := tx.ExecContext(ctx, insertCredential,
		inserted.CredentialID,
		inserted.UserID,
		inserted.CredentialType,
		inserted.CredentialData,
		inserted.Status,
		inserted.CreatedAt,
		inserted.UpdatedAt,
		inserted.CreatedBy,
		inserted.UpdatedBy,
	)
	if execErr == nil {
		return inserted, nil
	}

	if c.errorClassifier.IsUniqueViolation(execErr) {
		log.Debug().
			Str("func", "credentialRepository.upsertInTx").
			Str("user_id", credential.UserID).
			Msg("insert lost the upsert race, converging via update")

		if _, rbErr := tx.ExecContext(ctx, rollbackUpsertInsert); rbErr != nil {
			return models.Credential{}, fmt.Errorf("%w: %w", ErrExecutingQuery, rbErr)
		}

		updated, retryErr := c.updateActive(ctx, tx, credential, now)
		if errors.Is(retryErr, ErrCredentialNotFound) {
			return models.Credential{}, ErrDuplicateActiveCredential
		}
		return updated, retryErr
	}

	log.Err(execErr).
		Str("func", "credentialRepository.upsertInTx").
		Str("user_id", credential.UserID).
		Str("credential_type", credential.CredentialType).
		Msg("failed to insert credential")
	return models.Credential{}, fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
}

func (c *credentialRepository) updateActive(ctx context.Context, tx *sql.Tx, credential models.Credential, now time.Time) (models.Credential, error) {
	log := logger.FromContext(ctx)

	updated := credential
	updated.Status = models.CredentialActive
	updated.UpdatedAt = now

	scanErr := tx.QueryRowContext(ctx, updateActiveCredential,
		credential.CredentialData,
		now,
		credential.UpdatedBy,
		credential.UserID,
		credential.CredentialType,
	).Scan(&updated.CredentialID, &updated.CreatedAt, &updated.CreatedBy)

	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.Credential{}, ErrCredentialNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "credentialRepository.updateActive").
			Str("user_id", credential.UserID).
			Str("credential_type", credential.CredentialType).
			Msg("failed to execute update query")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return updated, nil
}

// SoftDelete flips every ACTIVE credential of the user to INACTIVE.
//
// Returns whether any row existed. The rows are preserved: recovery is
// possible by design, though not exposed through the API.
func (c *credentialRepository) SoftDelete(ctx context.Context, userID, actor string) (bool, error) {
	log := logger.FromContext(ctx)

	res, err := c.DB.ExecContext(ctx, softDeleteCredentials, time.Now().UTC(), actor, userID)
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.SoftDelete").
			Str("user_id", userID).
			Msg("failed to execute soft delete query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.SoftDelete").
			Str("user_id", userID).
			Msg("failed to read affected rows")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Info().
		Str("func", "credentialRepository.SoftDelete").
		Str("user_id", userID).
		Int64("rows", affected).
		Msg("credentials soft-deleted")

	return affected > 0, nil
}

// ListActive returns every ACTIVE credential row. It feeds the startup
// re-encryption sweep, which decides per row whether an upgrade is needed.
func (c *credentialRepository) ListActive(ctx context.Context) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetCredentialsQuery(credentialFilter{Status: models.CredentialActive})
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.ListActive").
			Msg("failed to build query")
		return nil, err
	}

	rows, queryErr := c.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "credentialRepository.ListActive").
			Msg("failed to execute query for listing active credentials")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	results := make([]models.Credential, 0, 50)

	for rows.Next() {
		var cred models.Credential

		scanErr := rows.Scan(
			&cred.CredentialID,
			&cred.UserID,
			&cred.CredentialType,
			&cred.CredentialData,
			&cred.Status,
			&cred.CreatedAt,
			&cred.UpdatedAt,
			&cred.CreatedBy,
			&cred.UpdatedBy,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "credentialRepository.ListActive").
				Msg("failed to scan credential row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, cred)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "credentialRepository.ListActive").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
