package app

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/core"
	"github.com/wzray/Mockview/internal/domain"
)

// Relay routes signaling messages between the two peers of a room. It holds
// no state of its own beyond the registry and membership table it owns; each
// handler is a plain in-memory map operation followed by outbound sends.
type Relay struct {
	Registry *Registry
	Rooms    *core.Membership
}

func NewRelay(reg *Registry, rooms *core.Membership) *Relay {
	return &Relay{Registry: reg, Rooms: rooms}
}

// Connect promotes an accepted transport connection with its verified
// identity and returns the connection id the peers will address each other by.
func (r *Relay) Connect(peer *domain.Peer, conn core.SignalConnection) core.ConnID {
	return r.Registry.Register(peer, conn)
}

// Join adds the connection to a room and tells every member that was
// already present about the new arrival. The joiner gets no peer list;
// the already-present side reacts to peer-joined and initiates the offer.
func (r *Relay) Join(id core.ConnID, roomKey string) {
	conn, peer, ok := r.Registry.Lookup(id)
	if !ok {
		log.Warn().Str("module", "app.relay").Str("conn", string(id)).Msg("join from unknown connection")
		return
	}

	existing, first, err := r.Rooms.Join(roomKey, core.Member{
		Conn:   id,
		UserID: peer.UserID,
		Role:   peer.Role,
	})
	if err != nil {
		reason := "room_full"
		if errors.Is(err, core.ErrRoleTaken) {
			reason = "role_taken"
		}
		log.Info().Str("module", "app.relay").Str("conn", string(id)).
			Str("room", roomKey).Str("reason", reason).Msg("join rejected")
		r.send(conn, core.ErrorEvent{Kind: core.KindError, Error: reason})
		return
	}
	if !first {
		// Idempotent re-join: members were already notified once.
		return
	}

	log.Info().Str("module", "app.relay").Str("conn", string(id)).
		Str("room", roomKey).Str("role", string(peer.Role)).Msg("joined room")

	evt := core.PeerJoinedEvent{
		Kind:   core.KindPeerJoined,
		Conn:   id,
		UserID: peer.UserID,
		Role:   peer.Role,
	}
	for _, mem := range existing {
		r.sendTo(mem.Conn, evt)
	}
}

// Leave removes the connection from one room and notifies the remaining
// member. The connection itself stays open.
func (r *Relay) Leave(id core.ConnID, roomKey string) {
	remaining, removed := r.Rooms.Leave(roomKey, id)
	if !removed {
		log.Warn().Str("module", "app.relay").Str("conn", string(id)).Str("room", roomKey).Msg("leave from non-member dropped")
		return
	}
	log.Info().Str("module", "app.relay").Str("conn", string(id)).Str("room", roomKey).Msg("left room")
	for _, mem := range remaining {
		r.sendTo(mem.Conn, core.PeerLeftEvent{Kind: core.KindPeerLeft, Conn: id})
	}
}

// Forward relays an offer, answer or ice-candidate to the addressed peer,
// payload untouched. The forward is dropped unless both the sender and the
// target are current members of the named room; a misaddressed message is
// never surfaced back to the sender.
func (r *Relay) Forward(id core.ConnID, req core.ForwardRequest) {
	if req.To == "" || req.Room == "" {
		log.Warn().Str("module", "app.relay").Str("conn", string(id)).
			Str("kind", req.Kind).Msg("forward missing target or room")
		return
	}
	if !r.Rooms.Contains(req.Room, id) || !r.Rooms.Contains(req.Room, req.To) {
		log.Warn().Str("module", "app.relay").Str("conn", string(id)).
			Str("room", req.Room).Str("to", string(req.To)).Msg("forward outside room membership")
		return
	}

	r.sendTo(req.To, core.ForwardEvent{
		Kind:      req.Kind,
		From:      id,
		SDP:       req.SDP,
		Candidate: req.Candidate,
	})
}

// Disconnect reconciles a closed connection: it fires at most once per
// connection even when both an error and a close event arrive, removes the
// connection from every room, notifies survivors and unregisters it.
func (r *Relay) Disconnect(id core.ConnID) {
	if !r.Registry.MarkGone(id) {
		return
	}
	for roomKey, remaining := range r.Rooms.LeaveAll(id) {
		log.Info().Str("module", "app.relay").Str("conn", string(id)).
			Str("room", roomKey).Msg("removed from room on disconnect")
		for _, mem := range remaining {
			r.sendTo(mem.Conn, core.PeerLeftEvent{Kind: core.KindPeerLeft, Conn: id})
		}
	}
	r.Registry.Unregister(id)
}

func (r *Relay) sendTo(id core.ConnID, v any) {
	conn, _, ok := r.Registry.Lookup(id)
	if !ok {
		// Target vanished between snapshot and send; nothing to report.
		log.Debug().Str("module", "app.relay").Str("conn", string(id)).Msg("send to dead connection")
		return
	}
	r.send(conn, v)
}

func (r *Relay) send(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal outbound")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Msg("drop outbound frame")
	}
}
