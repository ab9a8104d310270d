package models

import (
	"time"

	"gorm.io/gorm"
)

// Flip represents a single logged buy/(optional) sell transaction for one item.
// A flip with no sell price is an open position; once both SellPrice and
// SellDate are set it is completed. DeletedAt is the soft-delete tombstone:
// gorm excludes tombstoned rows from default queries and a restore simply
// clears the timestamp.
type Flip struct {
	gorm.Model
	UserID      string `gorm:"index;not null" json:"user_id"`
	ItemName    string `gorm:"index;not null" json:"item_name"`
	ItemID      *int   `json:"item_id,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	Quantity    int64  `gorm:"not null" json:"quantity"`
	BuyPrice    int64  `gorm:"not null" json:"buy_price"` // gp per unit
	SellPrice   *int64 `json:"sell_price,omitempty"`      // gp per unit
	BuyDate     time.Time  `json:"buy_date"`
	SellDate    *time.Time `json:"sell_date,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Strategy    string     `gorm:"index" json:"strategy,omitempty"`
	MembersItem bool       `json:"members_item"`
}

// Completed reports whether the flip has both a sell price and a sell date.
func (f *Flip) Completed() bool {
	return f.SellPrice != nil && f.SellDate != nil
}

// HoldDuration returns how long the position was (or has been) held.
func (f *Flip) HoldDuration(now time.Time) time.Duration {
	if f.SellDate != nil {
		return f.SellDate.Sub(f.BuyDate)
	}
	return now.Sub(f.BuyDate)
}

// TotalCost returns the full buy-side outlay in gp.
func (f *Flip) TotalCost() int64 {
	return f.BuyPrice * f.Quantity
}
