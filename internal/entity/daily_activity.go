package entity

import "time"

// DailyActivity accumulates the XP a user earned during one UTC calendar
// day. Day is the dateutil.DayKey of Date.
type DailyActivity struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Day string `gorm:"primaryKey"`

	Date      time.Time
	XP        int
	UpdatedAt time.Time
}
