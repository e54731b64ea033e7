package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/api/gemini"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newBossDomain(endpoint gemini.IEndpoint) *bossDomain {
	userRepo := repository.NewUserRepository()
	dailyActivityRepo := repository.NewDailyActivityRepository()
	return NewBossDomain(
		repository.NewBossRepository(),
		repository.NewChoreRepository(),
		repository.NewBossGenerationRepository(testutil.SnowflakeNode()),
		userRepo,
		repository.NewFriendshipRepository(),
		endpoint,
		NewProgressionEngine(userRepo, dailyActivityRepo),
		nil,
		nil,
	)
}

func Test_bossDomain_CompleteChore(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{})

	resp, err := bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore1"})
	require.NoError(t, err)
	require.Equal(t, 30, resp.XPGained)
	require.Equal(t, 40, resp.DamageDealt)
	require.False(t, resp.LeveledUp)
	require.False(t, resp.BossDefeated)
	require.Equal(t, 60, resp.Boss.CurrentHealth)
	require.Equal(t, 30, resp.User.CurrentXP)

	// A chore pays out exactly once.
	_, err = bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore1"})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// The second chore's damage lands exactly on zero health.
	resp, err = bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore2"})
	require.NoError(t, err)
	require.True(t, resp.BossDefeated)
	require.Equal(t, 0, resp.Boss.CurrentHealth)
	require.Equal(t, "defeated", resp.Boss.Status)
	require.Equal(t, 1, resp.User.BossesDefeated)
	require.Equal(t, 80, resp.User.CurrentXP)

	// No chore of a defeated boss can be completed.
	_, err = bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore2"})
	require.Error(t, err)
}

func Test_bossDomain_CompleteChore_notOwner(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user2")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{})

	_, err := bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore1"})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func Test_bossDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{})

	resp, err := bossDomain.Create(ctx, &model.CreateBossRequest{
		Name:        "The Dish Dragon",
		Description: "Guards a sink full of dirty dishes",
		Chores: []model.CreateChore{
			{Title: "Scrub the pots", XP: 20, Damage: 30, Difficulty: "hard"},
			{Title: "Dry the plates"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "The Dish Dragon", resp.Boss.Name)
	require.Equal(t, "alive", resp.Boss.Status)
	require.Len(t, resp.Boss.Chores, 2)

	// Health defaults to the total chore damage, so clearing every chore
	// defeats the boss exactly.
	require.Equal(t, 40, resp.Boss.TotalHealth)
	require.Equal(t, 40, resp.Boss.CurrentHealth)

	// Omitted chore numbers fall back to defaults.
	require.Equal(t, 10, resp.Boss.Chores[1].XP)
	require.Equal(t, 10, resp.Boss.Chores[1].Damage)
	require.Equal(t, "medium", resp.Boss.Chores[1].Difficulty)

	// No chores, no boss.
	_, err = bossDomain.Create(ctx, &model.CreateBossRequest{Name: "Empty"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_bossDomain_Summon(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{
		GenerateBossFunc: func(ctx context.Context, description string) (gemini.Boss, string, error) {
			return gemini.Boss{
				Name:        "The Dust Devil",
				Description: "Spawned from: " + description,
				TotalHealth: 120,
				Chores: []gemini.Chore{
					{Title: "Vacuum the rug", XP: 40, Damage: 60, Difficulty: "Easy", EstimatedTime: 20},
					{Title: "Wipe the shelves", XP: 35, Damage: 60, Difficulty: "Medium", EstimatedTime: 15},
				},
			}, `{"mock":"response"}`, nil
		},
	})

	resp, err := bossDomain.Summon(ctx, &model.SummonBossRequest{Description: "dusty living room"})
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Equal(t, "The Dust Devil", resp.Boss.Name)
	require.Equal(t, 120, resp.Boss.CurrentHealth)
	require.Len(t, resp.Boss.Chores, 2)
	require.Equal(t, "easy", resp.Boss.Chores[0].Difficulty)
	require.Equal(t, 20, resp.Boss.Chores[0].EstimatedMinutes)

	// Every summon leaves an audit record.
	history, err := bossDomain.GetSummonHistory(ctx, &model.GetSummonHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, history.Generations, 1)
	require.Equal(t, "dusty living room", history.Generations[0].Prompt)
}

func Test_bossDomain_Summon_fallback(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{
		GenerateBossFunc: func(ctx context.Context, description string) (gemini.Boss, string, error) {
			return gemini.Boss{}, "", errors.New("provider is down")
		},
	})

	// A provider failure still produces a playable boss.
	resp, err := bossDomain.Summon(ctx, &model.SummonBossRequest{Description: "messy kitchen"})
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Equal(t, "Shade of a Failed Summon", resp.Boss.Name)
	require.Equal(t, "alive", resp.Boss.Status)
	require.NotEmpty(t, resp.Boss.Chores)

	// An empty description is rejected before calling the provider.
	_, err = bossDomain.Summon(ctx, &model.SummonBossRequest{Description: "   "})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_bossDomain_Resummon(t *testing.T) {
	calls := 0
	ctx := testutil.MockContextWithUserID("user1")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{
		GenerateBossFunc: func(ctx context.Context, description string) (gemini.Boss, string, error) {
			calls++
			return gemini.OfflineBoss(description), "{}", nil
		},
	})

	_, err := bossDomain.Summon(ctx, &model.SummonBossRequest{Description: "hall of mirrors"})
	require.NoError(t, err)

	history, err := bossDomain.GetSummonHistory(ctx, &model.GetSummonHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, history.Generations, 1)

	resp, err := bossDomain.Resummon(ctx, &model.ResummonBossRequest{
		GenerationID: history.Generations[0].ID,
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, "The Grime Lord (Offline)", resp.Boss.Name)

	// Resummoning also records a new generation.
	history, err = bossDomain.GetSummonHistory(ctx, &model.GetSummonHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, history.Generations, 2)
}

func Test_bossDomain_GetMyList(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{})

	_, err := bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore1"})
	require.NoError(t, err)
	_, err = bossDomain.CompleteChore(ctx, &model.CompleteChoreRequest{ChoreID: "chore2"})
	require.NoError(t, err)

	resp, err := bossDomain.GetMyList(ctx, &model.GetMyBossesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Bosses, 1)
	require.Equal(t, "defeated", resp.Bosses[0].Status)

	// The defeated boss drops out of the battle screen.
	resp, err = bossDomain.GetMyList(ctx, &model.GetMyBossesRequest{AliveOnly: true})
	require.NoError(t, err)
	require.Empty(t, resp.Bosses)
}

func Test_bossDomain_Get_permission(t *testing.T) {
	ctx2 := testutil.MockContextWithUserID("user2")
	bossDomain := newBossDomain(&testutil.MockGeminiEndpoint{})

	// user2 is not a friend of user1 yet.
	_, err := bossDomain.Get(ctx2, &model.GetBossRequest{BossID: "boss1"})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}
