package domain

import (
	"context"
	"encoding/json"

	"github.com/chore-quest/backend/internal/common"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/pubsub"
	"github.com/chore-quest/backend/pkg/ws"
	"github.com/chore-quest/backend/pkg/xcontext"
)

// Notifier fans a domain event out to the hero and their friends. With a
// broker configured it publishes one pack per receiver and delivery to the
// websocket hub happens through the event subscriber, so heroes connected
// to other api instances get the event too. Without a broker it broadcasts
// straight to the local hub. Delivery is best effort; a failed emit never
// fails the request that produced it.
type Notifier struct {
	publisher      pubsub.Publisher
	hub            *ws.Hub
	friendshipRepo repository.FriendshipRepository
}

func NewNotifier(
	publisher pubsub.Publisher,
	hub *ws.Hub,
	friendshipRepo repository.FriendshipRepository,
) *Notifier {
	return &Notifier{
		publisher:      publisher,
		hub:            hub,
		friendshipRepo: friendshipRepo,
	}
}

func (n *Notifier) Emit(ctx context.Context, event common.Event) {
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
		return
	}

	receivers := []string{event.UserID}
	friendships, err := n.friendshipRepo.GetListByUserID(ctx, event.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friends of event user: %v", err)
	} else {
		for _, f := range friendships {
			receivers = append(receivers, f.FriendID)
		}
	}

	if n.publisher != nil {
		for _, receiver := range receivers {
			pack := &pubsub.Pack{Key: []byte(receiver), Msg: b}
			if err := n.publisher.Publish(ctx, common.EventTopic, pack); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot publish event: %v", err)
			}
		}

		return
	}

	if n.hub != nil {
		n.hub.BroadcastTo(b, receivers...)
	}
}
