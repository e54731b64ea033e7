package testutil

import (
	"context"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:          entity.Base{ID: "user1"},
		Name:          "alice_the_brave",
		Email:         "alice@example.com",
		Level:         1,
		CurrentXP:     0,
		XPToNextLevel: 100,
	}

	User2 = entity.User{
		Base:          entity.Base{ID: "user2"},
		Name:          "bob_the_bold",
		Email:         "bob@example.com",
		Level:         2,
		CurrentXP:     20,
		XPToNextLevel: 150,
	}

	Boss1 = entity.Boss{
		Base:          entity.Base{ID: "boss1"},
		UserID:        "user1",
		Name:          "The Laundry Leviathan",
		Description:   "A towering heap of unwashed clothes",
		TotalHealth:   100,
		CurrentHealth: 100,
		Status:        entity.BossAlive,
	}

	Chore1 = entity.Chore{
		Base:             entity.Base{ID: "chore1"},
		BossID:           "boss1",
		Title:            "Sort the whites",
		XP:               30,
		Damage:           40,
		Difficulty:       entity.ChoreEasy,
		EstimatedMinutes: 10,
		Position:         0,
	}

	Chore2 = entity.Chore{
		Base:             entity.Base{ID: "chore2"},
		BossID:           "boss1",
		Title:            "Run the machine",
		XP:               50,
		Damage:           60,
		Difficulty:       entity.ChoreMedium,
		EstimatedMinutes: 45,
		Position:         1,
	}
)

// CreateFixture seeds the database with two heroes and one boss owned by
// user1, carrying two incomplete chores.
func CreateFixture(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2} {
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}

	boss := Boss1
	boss.Chores = []entity.Chore{Chore1, Chore2}
	if err := repository.NewBossRepository().Create(ctx, &boss); err != nil {
		panic(err)
	}
}
