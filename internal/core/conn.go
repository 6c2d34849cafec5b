package core

// Frame is a raw message payload.
type Frame []byte

// SignalConn abstracts the messaging transport of one connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConn interface {
	TrySend(Frame) error
	Close()
}
