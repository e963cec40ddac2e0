// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/veridia/paycore/models"
)

const (
	insertCredential = `INSERT INTO credentials (
			credential_id,
			user_id,
			credential_type,
			credential_data,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	// Placeholder numbers follow occurrence order: the sqlite3 driver binds
	// arguments by position, not by number.
	updateActiveCredential = `UPDATE credentials
		SET credential_data = $1, updated_at = $2, updated_by = $3
		WHERE user_id = $4 AND credential_type = $5 AND status = 'ACTIVE'
		RETURNING credential_id, created_at, created_by;`

	softDeleteCredentials = `UPDATE credentials
		SET status = 'INACTIVE', updated_at = $1, updated_by = $2
		WHERE user_id = $3 AND status = 'ACTIVE';`

	// The insert runs under a savepoint so a unique-violation from a lost
	// upsert race can be rolled back without aborting the enclosing
	// transaction (PostgreSQL invalidates the whole transaction otherwise).
	savepointUpsertInsert = `SAVEPOINT upsert_insert;`
	rollbackUpsertInsert  = `ROLLBACK TO SAVEPOINT upsert_insert;`
)

// credentialColumns is the canonical column order used by every SELECT and
// the corresponding row scans.
var credentialColumns = []string{
	"credential_id", "user_id", "credential_type", "credential_data",
	"status", "created_at", "updated_at", "created_by", "updated_by",
}

// credentialFilter narrows credential SELECT queries. Zero-valued fields
// are omitted from the WHERE clause.
type credentialFilter struct {
	UserID         string
	CredentialType string
	Status         models.CredentialStatus
}

// buildGetCredentialsQuery assembles a filtered SELECT over the credentials
// table with dollar placeholders. Filters are applied only for non-zero
// fields, so the same builder serves the single-row lookup and the sweep
// listing.
func buildGetCredentialsQuery(filter credentialFilter) (string, []any, error) {
	qb := sq.Select(credentialColumns...).
		From("credentials").
		PlaceholderFormat(sq.Dollar)

	if filter.UserID != "" {
		qb = qb.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.CredentialType != "" {
		qb = qb.Where(sq.Eq{"credential_type": filter.CredentialType})
	}
	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": string(filter.Status)})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
