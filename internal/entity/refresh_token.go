package entity

import "time"

// RefreshToken is one token family. Family is stored hashed; the counter
// increases on every rotation, so a replayed token carries a stale counter.
type RefreshToken struct {
	Family string `gorm:"primaryKey"`

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Counter    uint64
	Expiration time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
