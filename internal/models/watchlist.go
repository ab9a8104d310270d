package models

import "gorm.io/gorm"

// WatchlistEntry is an item a user tracks without holding a position in it.
type WatchlistEntry struct {
	gorm.Model
	UserID     string `gorm:"uniqueIndex:idx_user_item;not null" json:"user_id"`
	ItemID     int    `gorm:"uniqueIndex:idx_user_item;not null" json:"item_id"`
	ItemName   string `gorm:"not null" json:"item_name"`
	TargetBuy  *int64 `json:"target_buy,omitempty"`
	TargetSell *int64 `json:"target_sell,omitempty"`
}
