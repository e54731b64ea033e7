package domain

import (
	"context"
	"errors"

	"github.com/chore-quest/backend/internal/common"
	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendDomain interface {
	SendRequest(context.Context, *model.SendFriendRequestRequest) (*model.SendFriendRequestResponse, error)
	AcceptRequest(context.Context, *model.AcceptFriendRequestRequest) (*model.AcceptFriendRequestResponse, error)
	DeclineRequest(context.Context, *model.DeclineFriendRequestRequest) (*model.DeclineFriendRequestResponse, error)
	CancelRequest(context.Context, *model.CancelFriendRequestRequest) (*model.CancelFriendRequestResponse, error)
	GetPendingRequests(context.Context, *model.GetPendingFriendRequestsRequest) (*model.GetPendingFriendRequestsResponse, error)
	GetFriends(context.Context, *model.GetFriendsRequest) (*model.GetFriendsResponse, error)
	RemoveFriend(context.Context, *model.RemoveFriendRequest) (*model.RemoveFriendResponse, error)
}

type friendDomain struct {
	friendRequestRepo repository.FriendRequestRepository
	friendshipRepo    repository.FriendshipRepository
	userRepo          repository.UserRepository
	notifier          *Notifier
}

func NewFriendDomain(
	friendRequestRepo repository.FriendRequestRepository,
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
) *friendDomain {
	return &friendDomain{
		friendRequestRepo: friendRequestRepo,
		friendshipRepo:    friendshipRepo,
		userRepo:          userRepo,
		notifier:          notifier,
	}
}

func (d *friendDomain) SendRequest(
	ctx context.Context, req *model.SendFriendRequestRequest,
) (*model.SendFriendRequestResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if req.ToUserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty recipient")
	}

	if req.ToUserID == requestUserID {
		return nil, errorx.New(errorx.BadRequest, "Cannot send a friend request to yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get recipient: %v", err)
		return nil, errorx.Unknown
	}

	isFriend, err := d.friendshipRepo.IsFriend(ctx, requestUserID, req.ToUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check friendship: %v", err)
		return nil, errorx.Unknown
	}

	if isFriend {
		return nil, errorx.New(errorx.AlreadyExists, "You are already friends")
	}

	_, err = d.friendRequestRepo.GetPendingByPair(ctx, requestUserID, req.ToUserID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "A pending request already exists")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check pending request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.friendRequestRepo.Create(ctx, &entity.FriendRequest{
		Base:   entity.Base{ID: uuid.NewString()},
		FromID: requestUserID,
		ToID:   req.ToUserID,
		Status: entity.FriendRequestPending,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SendFriendRequestResponse{}, nil
}

// AcceptRequest resolves a pending request in one transaction. Both directed
// friendship edges are inserted and the request row is deleted, so a retry
// of a half-applied accept converges instead of failing.
func (d *friendDomain) AcceptRequest(
	ctx context.Context, req *model.AcceptFriendRequestRequest,
) (*model.AcceptFriendRequestResponse, error) {
	request, err := d.friendRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friend request: %v", err)
		return nil, errorx.Unknown
	}

	if request.ToID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the recipient can accept a request")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	edges := []entity.Friendship{
		{UserID: request.FromID, FriendID: request.ToID},
		{UserID: request.ToID, FriendID: request.FromID},
	}
	for i := range edges {
		if err := d.friendshipRepo.Upsert(ctx, &edges[i]); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create friendship: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.friendRequestRepo.DeleteByID(ctx, request.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friend request: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if d.notifier != nil {
		d.notifier.Emit(ctx, common.Event{
			Type:   common.FriendAcceptedEvent,
			UserID: request.FromID,
			Data:   map[string]any{"friend_id": request.ToID},
		})
	}

	return &model.AcceptFriendRequestResponse{}, nil
}

func (d *friendDomain) DeclineRequest(
	ctx context.Context, req *model.DeclineFriendRequestRequest,
) (*model.DeclineFriendRequestResponse, error) {
	request, err := d.friendRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friend request: %v", err)
		return nil, errorx.Unknown
	}

	if request.ToID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the recipient can decline a request")
	}

	if err := d.friendRequestRepo.DeleteByID(ctx, request.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeclineFriendRequestResponse{}, nil
}

// CancelRequest withdraws a request the caller sent before the recipient
// acts on it.
func (d *friendDomain) CancelRequest(
	ctx context.Context, req *model.CancelFriendRequestRequest,
) (*model.CancelFriendRequestResponse, error) {
	request, err := d.friendRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friend request: %v", err)
		return nil, errorx.Unknown
	}

	if request.FromID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the sender can cancel a request")
	}

	if err := d.friendRequestRepo.DeleteByID(ctx, request.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelFriendRequestResponse{}, nil
}

func (d *friendDomain) GetPendingRequests(
	ctx context.Context, req *model.GetPendingFriendRequestsRequest,
) (*model.GetPendingFriendRequestsResponse, error) {
	requests, err := d.friendRequestRepo.GetPendingListByToID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending requests: %v", err)
		return nil, errorx.Unknown
	}

	fromIDs := []string{}
	for _, r := range requests {
		fromIDs = append(fromIDs, r.FromID)
	}

	senders, err := d.userRepo.GetByIDs(ctx, fromIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get senders: %v", err)
		return nil, errorx.Unknown
	}

	senderMap := map[string]*entity.User{}
	for i := range senders {
		senderMap[senders[i].ID] = &senders[i]
	}

	clientRequests := []model.FriendRequest{}
	for i := range requests {
		// A request whose sender no longer exists is unactionable, hide it.
		sender, ok := senderMap[requests[i].FromID]
		if !ok {
			continue
		}

		clientRequests = append(clientRequests,
			model.ConvertFriendRequest(&requests[i], sender))
	}

	return &model.GetPendingFriendRequestsResponse{Requests: clientRequests}, nil
}

func (d *friendDomain) GetFriends(
	ctx context.Context, req *model.GetFriendsRequest,
) (*model.GetFriendsResponse, error) {
	friendships, err := d.friendshipRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendships: %v", err)
		return nil, errorx.Unknown
	}

	friendIDs := []string{}
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.FriendID)
	}

	friends, err := d.userRepo.GetByIDs(ctx, friendIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friends: %v", err)
		return nil, errorx.Unknown
	}

	clientFriends := []model.User{}
	for i := range friends {
		clientFriends = append(clientFriends, model.ConvertUser(&friends[i], false))
	}

	return &model.GetFriendsResponse{Friends: clientFriends}, nil
}

func (d *friendDomain) RemoveFriend(
	ctx context.Context, req *model.RemoveFriendRequest,
) (*model.RemoveFriendResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	isFriend, err := d.friendshipRepo.IsFriend(ctx, requestUserID, req.FriendID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check friendship: %v", err)
		return nil, errorx.Unknown
	}

	if !isFriend {
		return nil, errorx.New(errorx.NotFound, "Not found friendship")
	}

	if err := d.friendshipRepo.Delete(ctx, requestUserID, req.FriendID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friendship: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RemoveFriendResponse{}, nil
}
