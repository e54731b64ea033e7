package domain

import (
	"testing"

	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/testutil"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newFriendDomain() *friendDomain {
	return NewFriendDomain(
		repository.NewFriendRequestRepository(),
		repository.NewFriendshipRepository(),
		repository.NewUserRepository(),
		nil,
	)
}

func Test_friendDomain_roundTrip(t *testing.T) {
	ctx1 := testutil.MockContextWithUserID("user1")
	ctx2 := xcontext.WithRequestUserID(ctx1, "user2")
	friendDomain := newFriendDomain()

	_, err := friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)

	pending, err := friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Requests, 1)
	require.Equal(t, "alice_the_brave", pending.Requests[0].From.Name)

	_, err = friendDomain.AcceptRequest(ctx2, &model.AcceptFriendRequestRequest{
		RequestID: pending.Requests[0].ID,
	})
	require.NoError(t, err)

	// The friendship is symmetric.
	friends1, err := friendDomain.GetFriends(ctx1, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, friends1.Friends, 1)
	require.Equal(t, "user2", friends1.Friends[0].ID)

	friends2, err := friendDomain.GetFriends(ctx2, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, friends2.Friends, 1)
	require.Equal(t, "user1", friends2.Friends[0].ID)

	// The resolved request is gone and a retried accept reports that without
	// touching the friendship.
	requestID := pending.Requests[0].ID
	pending, err = friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Empty(t, pending.Requests)

	_, err = friendDomain.AcceptRequest(ctx2, &model.AcceptFriendRequestRequest{RequestID: requestID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	friends1, err = friendDomain.GetFriends(ctx1, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, friends1.Friends, 1)

	// Another request between friends is rejected.
	_, err = friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)
}

func Test_friendDomain_SendRequest_invalid(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	friendDomain := newFriendDomain()

	// To yourself.
	_, err := friendDomain.SendRequest(ctx, &model.SendFriendRequestRequest{ToUserID: "user1"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// To an unknown user.
	_, err = friendDomain.SendRequest(ctx, &model.SendFriendRequestRequest{ToUserID: "nobody"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	// A duplicate of a pending request, in either direction.
	_, err = friendDomain.SendRequest(ctx, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)

	_, err = friendDomain.SendRequest(ctx, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	ctx2 := xcontext.WithRequestUserID(ctx, "user2")
	_, err = friendDomain.SendRequest(ctx2, &model.SendFriendRequestRequest{ToUserID: "user1"})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)
}

func Test_friendDomain_AcceptRequest_onlyRecipient(t *testing.T) {
	ctx1 := testutil.MockContextWithUserID("user1")
	friendDomain := newFriendDomain()

	_, err := friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)

	ctx2 := xcontext.WithRequestUserID(ctx1, "user2")
	pending, err := friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Requests, 1)

	// The sender cannot accept their own request.
	_, err = friendDomain.AcceptRequest(ctx1, &model.AcceptFriendRequestRequest{
		RequestID: pending.Requests[0].ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func Test_friendDomain_DeclineRequest(t *testing.T) {
	ctx1 := testutil.MockContextWithUserID("user1")
	ctx2 := xcontext.WithRequestUserID(ctx1, "user2")
	friendDomain := newFriendDomain()

	_, err := friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)

	pending, err := friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Requests, 1)

	_, err = friendDomain.DeclineRequest(ctx2, &model.DeclineFriendRequestRequest{
		RequestID: pending.Requests[0].ID,
	})
	require.NoError(t, err)

	// No friendship was created and the request is gone.
	friends, err := friendDomain.GetFriends(ctx1, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Empty(t, friends.Friends)

	pending, err = friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Empty(t, pending.Requests)

	// Declining does not block a later retry.
	_, err = friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)
}

func Test_friendDomain_CancelRequest(t *testing.T) {
	ctx1 := testutil.MockContextWithUserID("user1")
	ctx2 := xcontext.WithRequestUserID(ctx1, "user2")
	friendDomain := newFriendDomain()

	_, err := friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)

	pending, err := friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Requests, 1)
	requestID := pending.Requests[0].ID

	// The recipient cannot withdraw a request on the sender's behalf.
	_, err = friendDomain.CancelRequest(ctx2, &model.CancelFriendRequestRequest{RequestID: requestID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = friendDomain.CancelRequest(ctx1, &model.CancelFriendRequestRequest{RequestID: requestID})
	require.NoError(t, err)

	// The request is gone and the recipient can no longer accept it.
	pending, err = friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)
	require.Empty(t, pending.Requests)

	_, err = friendDomain.AcceptRequest(ctx2, &model.AcceptFriendRequestRequest{RequestID: requestID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	// Cancelling does not block a later retry.
	_, err = friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)
}

func Test_friendDomain_RemoveFriend(t *testing.T) {
	ctx1 := testutil.MockContextWithUserID("user1")
	ctx2 := xcontext.WithRequestUserID(ctx1, "user2")
	friendDomain := newFriendDomain()

	_, err := friendDomain.SendRequest(ctx1, &model.SendFriendRequestRequest{ToUserID: "user2"})
	require.NoError(t, err)

	pending, err := friendDomain.GetPendingRequests(ctx2, &model.GetPendingFriendRequestsRequest{})
	require.NoError(t, err)

	_, err = friendDomain.AcceptRequest(ctx2, &model.AcceptFriendRequestRequest{
		RequestID: pending.Requests[0].ID,
	})
	require.NoError(t, err)

	_, err = friendDomain.RemoveFriend(ctx1, &model.RemoveFriendRequest{FriendID: "user2"})
	require.NoError(t, err)

	// Both directions are gone.
	friends1, err := friendDomain.GetFriends(ctx1, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Empty(t, friends1.Friends)

	friends2, err := friendDomain.GetFriends(ctx2, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Empty(t, friends2.Friends)
}
