package model

type FriendRequest struct {
	ID        string `json:"id"`
	From      User   `json:"from"`
	CreatedAt string `json:"created_at"`
}

type SendFriendRequestRequest struct {
	ToUserID string `json:"to_user_id"`
}

type SendFriendRequestResponse struct{}

type AcceptFriendRequestRequest struct {
	RequestID string `json:"request_id"`
}

type AcceptFriendRequestResponse struct{}

type CancelFriendRequestRequest struct {
	RequestID string `json:"request_id"`
}

type CancelFriendRequestResponse struct{}

type DeclineFriendRequestRequest struct {
	RequestID string `json:"request_id"`
}

type DeclineFriendRequestResponse struct{}

type GetPendingFriendRequestsRequest struct{}

type GetPendingFriendRequestsResponse struct {
	Requests []FriendRequest `json:"requests"`
}

type GetFriendsRequest struct{}

type GetFriendsResponse struct {
	Friends []User `json:"friends"`
}

type RemoveFriendRequest struct {
	FriendID string `json:"friend_id"`
}

type RemoveFriendResponse struct{}
