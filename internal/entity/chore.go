package entity

import "github.com/chore-quest/backend/pkg/enum"

type ChoreDifficulty string

var (
	ChoreEasy   = enum.New(ChoreDifficulty("easy"))
	ChoreMedium = enum.New(ChoreDifficulty("medium"))
	ChoreHard   = enum.New(ChoreDifficulty("hard"))
)

type Chore struct {
	Base

	BossID string
	Boss   Boss `gorm:"foreignKey:BossID"`

	Title            string
	XP               int
	Damage           int
	Completed        bool
	Difficulty       ChoreDifficulty
	EstimatedMinutes int

	// Position keeps the chore list in its creation order.
	Position int
}
