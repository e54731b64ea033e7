package pubsub

// Pack is the unit published to a topic. Key determines the partition so all
// events of one user stay ordered.
type Pack struct {
	Key []byte
	Msg []byte
}
