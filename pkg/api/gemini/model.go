package gemini

import (
	"errors"

	"golang.org/x/exp/slices"
)

type Chore struct {
	Title         string `mapstructure:"title" json:"title"`
	XP            int    `mapstructure:"xp" json:"xp"`
	Damage        int    `mapstructure:"damage" json:"damage"`
	Difficulty    string `mapstructure:"difficulty" json:"difficulty"`
	EstimatedTime int    `mapstructure:"estimatedTime" json:"estimatedTime"`
}

type Boss struct {
	Name        string  `mapstructure:"name" json:"name"`
	Description string  `mapstructure:"description" json:"description"`
	TotalHealth int     `mapstructure:"totalHealth" json:"totalHealth"`
	Chores      []Chore `mapstructure:"chores" json:"chores"`
}

var difficulties = []string{"Easy", "Medium", "Hard"}

// normalize is the validation boundary between the model output and domain
// logic. Recoverable oddities are defaulted or clamped; a boss that cannot be
// repaired is rejected.
func normalize(boss Boss) (Boss, error) {
	if boss.Name == "" {
		return Boss{}, errors.New("boss has no name")
	}

	if boss.TotalHealth <= 0 {
		boss.TotalHealth = 100
	}

	chores := make([]Chore, 0, len(boss.Chores))
	for _, chore := range boss.Chores {
		if chore.Title == "" {
			continue
		}

		if chore.XP <= 0 {
			chore.XP = 10
		}

		if chore.Damage <= 0 {
			chore.Damage = 10
		}

		if chore.EstimatedTime <= 0 {
			chore.EstimatedTime = 5
		}

		if !slices.Contains(difficulties, chore.Difficulty) {
			chore.Difficulty = "Medium"
		}

		chores = append(chores, chore)
	}

	if len(chores) == 0 {
		return Boss{}, errors.New("boss has no usable chore")
	}

	boss.Chores = chores
	return boss, nil
}

// OfflineBoss is the deterministic boss returned when no API credential is
// configured.
func OfflineBoss(description string) Boss {
	return Boss{
		Name:        "The Grime Lord (Offline)",
		Description: "A foul beast born of neglected cleaning tasks: " + description,
		TotalHealth: 100,
		Chores: []Chore{
			{Title: "Sweep the Dust Bunnies", XP: 50, Damage: 50, Difficulty: "Medium", EstimatedTime: 15},
			{Title: "Mop the Sticky Floor", XP: 75, Damage: 50, Difficulty: "Hard", EstimatedTime: 25},
		},
	}
}

// FailedSummonBoss is substituted when the provider call fails, so the
// session can continue instead of stalling.
func FailedSummonBoss(description string) Boss {
	return Boss{
		Name:        "Shade of a Failed Summon",
		Description: "The ritual fizzled, but the chores remain: " + description,
		TotalHealth: 50,
		Chores: []Chore{
			{Title: "Finish the chores by hand", XP: 25, Damage: 50, Difficulty: "Medium", EstimatedTime: 30},
		},
	}
}
