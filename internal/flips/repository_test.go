package flips

import (
	"path/filepath"
	"testing"
	"time"

	"ge-flip-tracker/internal/database"
	"ge-flip-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewRepository(db)
}

func newFlip(userID, item string, buy int64) *models.Flip {
	return &models.Flip{
		UserID:   userID,
		ItemName: item,
		Quantity: 10,
		BuyPrice: buy,
		BuyDate:  time.Now().AddDate(0, 0, -2),
	}
}

func TestRepositoryCRUD(t *testing.T) {
	repo := setupRepo(t)

	flip := newFlip("u1", "Abyssal whip", 1_800_000)
	require.NoError(t, repo.Create(flip))
	require.NotZero(t, flip.ID)

	got, err := repo.Get("u1", flip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abyssal whip", got.ItemName)

	// Another user's id never resolves the flip.
	_, err = repo.Get("u2", flip.ID)
	assert.Error(t, err)

	// Record the sale.
	sell := int64(2_000_000)
	now := time.Now()
	got.SellPrice = &sell
	got.SellDate = &now
	require.NoError(t, repo.Update(got))

	completed, err := repo.Completed("u1")
	require.NoError(t, err)
	assert.Len(t, completed, 1)
	assert.True(t, completed[0].Completed())

	open, err := repo.Open("u1")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestRepositoryOpenVsCompleted(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(newFlip("u1", "Rune scimitar", 30_000)))

	sold := newFlip("u1", "Abyssal whip", 1_800_000)
	sell := int64(2_000_000)
	now := time.Now()
	sold.SellPrice = &sell
	sold.SellDate = &now
	require.NoError(t, repo.Create(sold))

	open, err := repo.Open("u1")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Rune scimitar", open[0].ItemName)

	completed, err := repo.Completed("u1")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Abyssal whip", completed[0].ItemName)
}

func TestRepositorySoftDeleteAndRestore(t *testing.T) {
	repo := setupRepo(t)

	flip := newFlip("u1", "Abyssal whip", 1_800_000)
	require.NoError(t, repo.Create(flip))

	require.NoError(t, repo.SoftDelete("u1", flip.ID))

	// Tombstoned rows vanish from every default read.
	list, err := repo.ListByUser("u1")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = repo.Get("u1", flip.ID)
	assert.Error(t, err)

	// But the record is recoverable.
	require.NoError(t, repo.Restore("u1", flip.ID))
	list, err = repo.ListByUser("u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Restoring twice fails: there is no tombstone left.
	assert.Error(t, repo.Restore("u1", flip.ID))
}

func TestRepositoryHardDelete(t *testing.T) {
	repo := setupRepo(t)

	flip := newFlip("u1", "Abyssal whip", 1_800_000)
	require.NoError(t, repo.Create(flip))
	require.NoError(t, repo.SoftDelete("u1", flip.ID))
	require.NoError(t, repo.HardDelete("u1", flip.ID))

	// Gone for good: even a restore finds nothing.
	assert.Error(t, repo.Restore("u1", flip.ID))
}

func TestRepositorySoftDeleteUnknownFlip(t *testing.T) {
	repo := setupRepo(t)
	assert.Error(t, repo.SoftDelete("u1", 999))
}

func TestRepositoryWatchlist(t *testing.T) {
	repo := setupRepo(t)

	entry := &models.WatchlistEntry{UserID: "u1", ItemID: 4151, ItemName: "Abyssal whip"}
	require.NoError(t, repo.Watch(entry))
	// Watching the same item again is a no-op.
	require.NoError(t, repo.Watch(&models.WatchlistEntry{UserID: "u1", ItemID: 4151, ItemName: "Abyssal whip"}))

	entries, err := repo.Watchlist("u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, repo.Unwatch("u1", 4151))
	entries, err = repo.Watchlist("u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
