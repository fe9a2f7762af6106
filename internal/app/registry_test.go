package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzray/Mockview/internal/domain"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	peer := &domain.Peer{UserID: "u1", Username: "alice", Role: domain.RoleInterviewer}
	conn := &fakeConn{}

	id := reg.Register(peer, conn)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, reg.Len())

	got, gotPeer, ok := reg.Lookup(id)
	require.True(t, ok)
	assert.Same(t, peer, gotPeer)
	assert.Equal(t, conn, got)

	reg.Unregister(id)
	_, _, ok = reg.Lookup(id)
	assert.False(t, ok)

	// Unregistering an unknown id is a no-op.
	reg.Unregister(id)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryIDsAreUnique(t *testing.T) {
	reg := NewRegistry()
	peer := &domain.Peer{UserID: "u1", Role: domain.RoleInterviewee}

	a := reg.Register(peer, &fakeConn{})
	b := reg.Register(peer, &fakeConn{})
	assert.NotEqual(t, a, b)
}

func TestMarkGoneFiresOnce(t *testing.T) {
	reg := NewRegistry()
	id := reg.Register(&domain.Peer{UserID: "u1", Role: domain.RoleInterviewee}, &fakeConn{})

	assert.True(t, reg.MarkGone(id))
	assert.False(t, reg.MarkGone(id))
	assert.False(t, reg.MarkGone("unknown"))
}
