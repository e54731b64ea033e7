package entity

import "database/sql"

type User struct {
	Base

	Name          string `gorm:"unique"`
	Email         string `gorm:"unique"`
	PasswordHash  sql.NullString
	ServiceUserID sql.NullString `gorm:"unique"`
	Avatar        string
	Role          string `gorm:"default:USER"`

	// IsNewUser stays true until the hero finishes username setup.
	IsNewUser bool

	Level          int `gorm:"default:1"`
	CurrentXP      int
	XPToNextLevel  int
	BossesDefeated int
}

const (
	AdminRole = "ADMIN"
	UserRole  = "USER"
)
