package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/migrations"
	"github.com/veridia/paycore/models"
)

// newSQLiteRepo opens a real temp-file SQLite vault with migrations
// applied. Unlike the sqlmock tests above, these run actual driver
// parameter binding and the partial unique index.
func newSQLiteRepo(t *testing.T) CredentialRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "vault.db")
	db, err := NewConnectSQLite(testContext(), config.DB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Migrate(db.DB, "sqlite3"))

	return NewCredentialRepository(db, logger.Nop())
}

func sqliteCredential(id, data string) models.Credential {
	return models.Credential{
		CredentialID:   id,
		UserID:         "user-42",
		CredentialType: "hedera",
		CredentialData: models.CipheredPayload(data),
		UpdatedBy:      "user-42",
	}
}

func TestUpsertSQLite_SecondUpsertUpdatesInPlace(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := testContext()

	first, err := repo.Upsert(ctx, sqliteCredential("cred-1", `{"privateKey":"v1"}`))
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, sqliteCredential("cred-2", `{"privateKey":"v2"}`))
	require.NoError(t, err)

	assert.Equal(t, first.CredentialID, second.CredentialID, "existing row identity must win")
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt), "creation time must survive the update")

	active, err := repo.GetActive(ctx, "user-42", "hedera")
	require.NoError(t, err)
	assert.Equal(t, models.CipheredPayload(`{"privateKey":"v2"}`), active.CredentialData)

	all, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertSQLite_ConcurrentUpsertsConvergeToOneActiveRow(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := testContext()

	const writers = 16

	payloads := make(map[models.CipheredPayload]bool, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		data := models.CipheredPayload(fmt.Sprintf(`{"privateKey":"v%d"}`, i))
		payloads[data] = true

		wg.Add(1)
		go func(i int, data models.CipheredPayload) {
			defer wg.Done()
			cred := sqliteCredential(fmt.Sprintf("cred-%d", i), string(data))
			_, errs[i] = repo.Upsert(ctx, cred)
		}(i, data)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1, "exactly one ACTIVE row must survive %d concurrent upserts", writers)
	assert.True(t, payloads[active[0].CredentialData], "surviving payload must be one of the written values")
}

func TestSoftDeleteSQLite(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := testContext()

	_, err := repo.Upsert(ctx, sqliteCredential("cred-1", `{"privateKey":"v1"}`))
	require.NoError(t, err)

	existed, err := repo.SoftDelete(ctx, "user-42", "user-42")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = repo.GetActive(ctx, "user-42", "hedera")
	require.ErrorIs(t, err, ErrCredentialNotFound)

	// the row is preserved, only flipped; a repeat delete finds nothing
	existed, err = repo.SoftDelete(ctx, "user-42", "user-42")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestUpsertSQLite_DeleteThenUpsertCreatesFreshActiveRow(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := testContext()

	_, err := repo.Upsert(ctx, sqliteCredential("cred-1", `{"privateKey":"v1"}`))
	require.NoError(t, err)

	existed, err := repo.SoftDelete(ctx, "user-42", "user-42")
	require.NoError(t, err)
	require.True(t, existed)

	// INACTIVE rows do not collide with the partial unique index
	fresh, err := repo.Upsert(ctx, sqliteCredential("cred-2", `{"privateKey":"v2"}`))
	require.NoError(t, err)
	assert.Equal(t, "cred-2", fresh.CredentialID)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
