package core

// Frame is a raw outbound signaling payload, already encoded.
type Frame []byte

// ConnID is the opaque identifier of one live signaling connection,
// assigned at connect time and stable for the connection's lifetime.
type ConnID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
