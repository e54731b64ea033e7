package entity

import "github.com/chore-quest/backend/pkg/enum"

type FriendRequestStatus string

var (
	FriendRequestPending  = enum.New(FriendRequestStatus("pending"))
	FriendRequestAccepted = enum.New(FriendRequestStatus("accepted"))
	FriendRequestDeclined = enum.New(FriendRequestStatus("declined"))
)

// FriendRequest mediates the symmetric friendship relation. It only exists
// while pending; terminal resolutions delete it.
type FriendRequest struct {
	Base

	FromID string
	From   User `gorm:"foreignKey:FromID"`

	ToID string
	To   User `gorm:"foreignKey:ToID"`

	Status FriendRequestStatus
}
