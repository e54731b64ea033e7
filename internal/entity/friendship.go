package entity

import "time"

// Friendship is one directed edge of the friends relation. Accepting a
// request inserts both directions in one transaction, so the relation stays
// symmetric at rest.
type Friendship struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	FriendID string `gorm:"primaryKey"`
	Friend   User   `gorm:"foreignKey:FriendID"`
}
