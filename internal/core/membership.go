package core

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/domain"
)

// RoomCapacity: one interviewee, one interviewer.
const RoomCapacity = 2

var (
	ErrRoomFull  = errors.New("room full")
	ErrRoleTaken = errors.New("role already taken in room")
)

// Member is one connection's presence in one room.
type Member struct {
	Conn   ConnID
	UserID domain.UserID
	Role   domain.Role
}

// Membership maps a room key to the set of connections currently present.
// Purely in-memory and ephemeral; it never touches the persisted Room
// entity and accepts any string as a room key.
type Membership struct {
	mu    sync.Mutex
	rooms map[string]map[ConnID]Member
}

func NewMembership() *Membership {
	return &Membership{rooms: make(map[string]map[ConnID]Member)}
}

// Join adds the entry and returns a snapshot of the members that were
// already present before this join. Re-joining the same room with the same
// connection does not duplicate the entry: the same snapshot comes back
// with first=false. A join that would exceed RoomCapacity fails with
// ErrRoomFull; a join duplicating an occupied role fails with ErrRoleTaken.
func (m *Membership) Join(roomKey string, mem Member) (existing []Member, first bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms[roomKey]
	if room == nil {
		room = make(map[ConnID]Member)
		m.rooms[roomKey] = room
	}

	if _, ok := room[mem.Conn]; ok {
		return othersLocked(room, mem.Conn), false, nil
	}
	if len(room) >= RoomCapacity {
		return nil, false, ErrRoomFull
	}
	for _, other := range room {
		if other.Role == mem.Role {
			return nil, false, ErrRoleTaken
		}
	}

	existing = othersLocked(room, mem.Conn)
	room[mem.Conn] = mem
	log.Debug().Str("module", "core.membership").Str("room", roomKey).
		Str("conn", string(mem.Conn)).Str("role", string(mem.Role)).Msg("member joined")
	return existing, true, nil
}

// Leave removes the entry and returns the members remaining in the room.
// Leaving a room the connection never joined is a no-op: removed is false
// and callers must not notify anyone on its behalf.
func (m *Membership) Leave(roomKey string, id ConnID) (remaining []Member, removed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomKey]
	if !ok {
		return nil, false
	}
	if _, ok := room[id]; !ok {
		return othersLocked(room, id), false
	}
	delete(room, id)
	if len(room) == 0 {
		delete(m.rooms, roomKey)
		log.Debug().Str("module", "core.membership").Str("room", roomKey).Msg("room emptied")
		return nil, true
	}
	return othersLocked(room, id), true
}

// LeaveAll removes the connection from every room it was a member of and
// returns, per room, the members that remain for notification purposes.
func (m *Membership) LeaveAll(id ConnID) map[string][]Member {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string][]Member)
	for key, room := range m.rooms {
		if _, ok := room[id]; !ok {
			continue
		}
		delete(room, id)
		out[key] = othersLocked(room, id)
		if len(room) == 0 {
			delete(m.rooms, key)
		}
	}
	return out
}

// MembersOf is a read-only snapshot of a room's members.
func (m *Membership) MembersOf(roomKey string) []Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomKey]
	if !ok {
		return nil
	}
	out := make([]Member, 0, len(room))
	for _, mem := range room {
		out = append(out, mem)
	}
	return out
}

// Contains reports whether the connection is currently a member of the room.
func (m *Membership) Contains(roomKey string, id ConnID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[roomKey][id]
	return ok
}

func othersLocked(room map[ConnID]Member, self ConnID) []Member {
	out := make([]Member, 0, len(room))
	for id, mem := range room {
		if id == self {
			continue
		}
		out = append(out, mem)
	}
	return out
}
