package core

import (
	"encoding/json"

	"github.com/wzray/Mockview/internal/domain"
)

// Signaling message kinds. Payloads (sdp, candidate) are opaque blobs;
// the relay round-trips them verbatim and never inspects their contents.
const (
	KindJoin       = "join"
	KindLeave      = "leave"
	KindOffer      = "offer"
	KindAnswer     = "answer"
	KindCandidate  = "ice-candidate"
	KindPeerJoined = "peer-joined"
	KindPeerLeft   = "peer-left"
	KindConnected  = "connected"
	KindError      = "error"
)

// ConnectedEvent hands the client its own connection id right after the
// transport is promoted, so peers can address each other by it.
type ConnectedEvent struct {
	Kind string `json:"type"`
	Conn ConnID `json:"connectionId"`
}

// Envelope carries only the discriminator; handlers re-parse the full body.
type Envelope struct {
	Kind string `json:"type"`
}

// JoinRequest names the room to join. Identity comes from the verified
// connection context, not from the client.
type JoinRequest struct {
	Kind string `json:"type"`
	Room string `json:"roomId"`
}

// ForwardRequest addresses an offer/answer/candidate to one peer in a room.
type ForwardRequest struct {
	Kind      string          `json:"type"`
	Room      string          `json:"roomId"`
	To        ConnID          `json:"to"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// ForwardEvent is the relay-emitted mirror of ForwardRequest.
type ForwardEvent struct {
	Kind      string          `json:"type"`
	From      ConnID          `json:"from"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// PeerJoinedEvent tells an already-present member about a new arrival.
type PeerJoinedEvent struct {
	Kind   string        `json:"type"`
	Conn   ConnID        `json:"connectionId"`
	UserID domain.UserID `json:"userId"`
	Role   domain.Role   `json:"role"`
}

type PeerLeftEvent struct {
	Kind string `json:"type"`
	Conn ConnID `json:"connectionId"`
}

type ErrorEvent struct {
	Kind  string `json:"type"`
	Error string `json:"error"`
}
