package flips

import (
	"fmt"

	"ge-flip-tracker/internal/models"
	"gorm.io/gorm"
)

// Repository provides CRUD over flip records keyed by an opaque user id.
// Deletes are soft by default: gorm's DeletedAt tombstone keeps the row
// recoverable and excludes it from every default query.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a flip repository over an opened database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new flip.
func (r *Repository) Create(flip *models.Flip) error {
	return r.db.Create(flip).Error
}

// Update persists edits to an existing flip (sell price/date, notes, tags).
func (r *Repository) Update(flip *models.Flip) error {
	return r.db.Save(flip).Error
}

// Get fetches one of the user's flips by id, excluding tombstoned rows.
func (r *Repository) Get(userID string, id uint) (*models.Flip, error) {
	var flip models.Flip
	err := r.db.Where("user_id = ?", userID).First(&flip, id).Error
	if err != nil {
		return nil, err
	}
	return &flip, nil
}

// ListByUser returns all of the user's live flips, newest buys first.
func (r *Repository) ListByUser(userID string) ([]models.Flip, error) {
	var flips []models.Flip
	err := r.db.Where("user_id = ?", userID).Order("buy_date DESC").Find(&flips).Error
	return flips, err
}

// Completed returns the user's completed flips: sell price and sell date both
// present, tombstoned rows excluded.
func (r *Repository) Completed(userID string) ([]models.Flip, error) {
	var flips []models.Flip
	err := r.db.
		Where("user_id = ? AND sell_price IS NOT NULL AND sell_date IS NOT NULL", userID).
		Order("sell_date DESC").
		Find(&flips).Error
	return flips, err
}

// Open returns the user's open positions (no sell price recorded).
func (r *Repository) Open(userID string) ([]models.Flip, error) {
	var flips []models.Flip
	err := r.db.
		Where("user_id = ? AND sell_price IS NULL", userID).
		Order("buy_date DESC").
		Find(&flips).Error
	return flips, err
}

// SoftDelete tombstones a flip. The row stays recoverable via Restore.
func (r *Repository) SoftDelete(userID string, id uint) error {
	res := r.db.Where("user_id = ?", userID).Delete(&models.Flip{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("flip %d not found for user %s", id, userID)
	}
	return nil
}

// Restore clears a flip's tombstone.
func (r *Repository) Restore(userID string, id uint) error {
	res := r.db.Unscoped().Model(&models.Flip{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no tombstoned flip %d for user %s", id, userID)
	}
	return nil
}

// HardDelete permanently removes a flip, tombstoned or not.
func (r *Repository) HardDelete(userID string, id uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Flip{}, id).Error
}

// Watchlist returns the user's watchlist entries.
func (r *Repository) Watchlist(userID string) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	err := r.db.Where("user_id = ?", userID).Order("item_name").Find(&entries).Error
	return entries, err
}

// Watch adds an item to the user's watchlist if it is not already there.
func (r *Repository) Watch(entry *models.WatchlistEntry) error {
	return r.db.
		FirstOrCreate(entry, models.WatchlistEntry{UserID: entry.UserID, ItemID: entry.ItemID}).
		Error
}

// Unwatch removes an item from the user's watchlist.
func (r *Repository) Unwatch(userID string, itemID int) error {
	return r.db.
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&models.WatchlistEntry{}).Error
}
