package model

import (
	"time"

	"github.com/chore-quest/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	clientUser := User{
		ID:             user.ID,
		Name:           user.Name,
		Avatar:         user.Avatar,
		IsNewUser:      user.IsNewUser,
		Level:          user.Level,
		CurrentXP:      user.CurrentXP,
		XPToNextLevel:  user.XPToNextLevel,
		BossesDefeated: user.BossesDefeated,
	}

	if includeSensitive {
		clientUser.Email = user.Email
		clientUser.Role = user.Role
		clientUser.CreatedAt = user.CreatedAt.Format(DefaultTimeLayout)
	}

	return clientUser
}

func ConvertChore(chore *entity.Chore) Chore {
	if chore == nil {
		return Chore{}
	}

	return Chore{
		ID:               chore.ID,
		Title:            chore.Title,
		XP:               chore.XP,
		Damage:           chore.Damage,
		Completed:        chore.Completed,
		Difficulty:       string(chore.Difficulty),
		EstimatedMinutes: chore.EstimatedMinutes,
	}
}

func ConvertBoss(boss *entity.Boss) Boss {
	if boss == nil {
		return Boss{}
	}

	chores := []Chore{}
	for i := range boss.Chores {
		chores = append(chores, ConvertChore(&boss.Chores[i]))
	}

	return Boss{
		ID:               boss.ID,
		Name:             boss.Name,
		Description:      boss.Description,
		ImageURL:         boss.ImageURL,
		TotalHealth:      boss.TotalHealth,
		CurrentHealth:    boss.CurrentHealth,
		Status:           string(boss.Status),
		LevelRequirement: boss.LevelRequirement,
		Chores:           chores,
		CreatedAt:        boss.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertFriendRequest(request *entity.FriendRequest, from *entity.User) FriendRequest {
	if request == nil {
		return FriendRequest{}
	}

	return FriendRequest{
		ID:        request.ID,
		From:      ConvertUser(from, false),
		CreatedAt: request.CreatedAt.Format(DefaultTimeLayout),
	}
}
