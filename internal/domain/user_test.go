package domain

import (
	"testing"
	"time"

	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/dateutil"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/testutil"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newUserDomain() *userDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewFriendshipRepository(),
		repository.NewDailyActivityRepository(),
	)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	userDomain := newUserDomain()

	resp, err := userDomain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "user1", resp.ID)
	require.Equal(t, "alice_the_brave", resp.Name)
	require.Equal(t, "alice@example.com", resp.Email)
}

func Test_userDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	userDomain := newUserDomain()

	resp, err := userDomain.Update(ctx, &model.UpdateUserRequest{Name: "alice_reborn"})
	require.NoError(t, err)
	require.Equal(t, "alice_reborn", resp.User.Name)
	require.False(t, resp.User.IsNewUser)

	// A taken name is rejected.
	_, err = userDomain.Update(ctx, &model.UpdateUserRequest{Name: "bob_the_bold"})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// Renaming to your own name is a no-op, not a conflict.
	resp, err = userDomain.Update(ctx, &model.UpdateUserRequest{Name: "alice_reborn"})
	require.NoError(t, err)
	require.Equal(t, "alice_reborn", resp.User.Name)

	// Invalid names are rejected.
	for _, name := range []string{"", "ab", "has space", "way_too_long_for_a_hero_name"} {
		_, err = userDomain.Update(ctx, &model.UpdateUserRequest{Name: name})
		require.Error(t, err)
		require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
	}
}

func Test_userDomain_Search(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user2")
	userDomain := newUserDomain()

	resp, err := userDomain.Search(ctx, &model.SearchUserRequest{Query: "alice"})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	require.Equal(t, "user1", resp.Users[0].ID)

	// The requester is never part of the results.
	resp, err = userDomain.Search(ctx, &model.SearchUserRequest{Query: "bob"})
	require.NoError(t, err)
	require.Empty(t, resp.Users)

	// Search results never expose emails.
	resp, err = userDomain.Search(ctx, &model.SearchUserRequest{Query: "alice"})
	require.NoError(t, err)
	require.Empty(t, resp.Users[0].Email)

	_, err = userDomain.Search(ctx, &model.SearchUserRequest{Query: "a"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_userDomain_GetWeeklyActivity(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	userDomain := newUserDomain()

	engine := NewProgressionEngine(
		repository.NewUserRepository(), repository.NewDailyActivityRepository())
	_, err := engine.GrantXP(ctx, "user1", 45)
	require.NoError(t, err)

	resp, err := userDomain.GetWeeklyActivity(ctx, &model.GetWeeklyActivityRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 7)

	// Days without grants are zero-filled, today carries the grant.
	today := dateutil.DayKey(time.Now())
	require.Equal(t, today, resp.Activities[6].Day)
	require.Equal(t, 45, resp.Activities[6].XP)
	for _, a := range resp.Activities[:6] {
		require.Equal(t, 0, a.XP)
	}

	// A stranger's ledger is not visible.
	ctx2 := xcontext.WithRequestUserID(ctx, "user2")
	_, err = userDomain.GetWeeklyActivity(ctx2, &model.GetWeeklyActivityRequest{UserID: "user1"})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}
