package app

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/core"
	"github.com/wzray/Mockview/internal/domain"
)

type connEntry struct {
	peer *domain.Peer
	conn core.SignalConnection

	// gone flips once, when the disconnection reconciler runs. Both an
	// error event and a close event may fire for the same connection;
	// only the first one may clean up and notify.
	gone bool
}

// Registry tracks every live signaling connection. It is an explicitly
// owned service object: constructed once at process start and passed by
// handle into the transport adapter, never an ambient singleton.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Register allocates a fresh connection id for an accepted connection with
// its verified identity. Registration always succeeds.
func (r *Registry) Register(peer *domain.Peer, conn core.SignalConnection) core.ConnID {
	id := core.ConnID(uuid.NewString())
	r.mu.Lock()
	r.conns[id] = &connEntry{peer: peer, conn: conn}
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("conn", string(id)).
		Str("user", string(peer.UserID)).Str("role", string(peer.Role)).Msg("connection registered")
	return id
}

// Unregister removes the connection. Unknown ids are a no-op.
func (r *Registry) Unregister(id core.ConnID) {
	r.mu.Lock()
	delete(r.conns, id)
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection unregistered")
}

// Lookup returns the transport endpoint and identity for a live connection.
func (r *Registry) Lookup(id core.ConnID) (core.SignalConnection, *domain.Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, nil, false
	}
	return e.conn, e.peer, true
}

// MarkGone flips the one-shot disconnect flag. It returns true exactly once
// per connection; later invocations (and unknown ids) return false.
func (r *Registry) MarkGone(id core.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.gone {
		return false
	}
	e.gone = true
	return true
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
