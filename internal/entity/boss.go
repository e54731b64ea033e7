package entity

import "github.com/chore-quest/backend/pkg/enum"

type BossStatus string

var (
	BossAlive    = enum.New(BossStatus("alive"))
	BossDefeated = enum.New(BossStatus("defeated"))
)

type Boss struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Name        string
	Description string
	ImageURL    string

	TotalHealth   int
	CurrentHealth int
	Status        BossStatus

	LevelRequirement int

	Chores []Chore `gorm:"foreignKey:BossID"`
}
