package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzray/Mockview/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return st
}

func TestCreateUserAndLookup(t *testing.T) {
	st := openTestStore(t)

	user, err := st.CreateUser("alice", "hash", "123", domain.RoleInterviewer)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleInterviewer, user.Role)

	got, hash, err := st.UserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", hash)

	byID, err := st.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestCreateUserDuplicate(t *testing.T) {
	st := openTestStore(t)

	_, err := st.CreateUser("alice", "hash", "", domain.RoleInterviewee)
	require.NoError(t, err)
	_, err = st.CreateUser("alice", "hash2", "", domain.RoleInterviewee)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUserInvalidUsername(t *testing.T) {
	st := openTestStore(t)

	_, err := st.CreateUser("", "hash", "", domain.RoleInterviewee)
	assert.ErrorIs(t, err, domain.ErrUsernameEmpty)

	long := strings.Repeat("x", domain.MaxUsernameLen+1)
	_, err = st.CreateUser(long, "hash", "", domain.RoleInterviewee)
	assert.ErrorIs(t, err, domain.ErrUsernameTooLong)
}

func TestUserNotFound(t *testing.T) {
	st := openTestStore(t)

	_, _, err := st.UserByUsername("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = st.UserByID("nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = st.UpdateProfile("nope", Profile{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	st := openTestStore(t)
	user, err := st.CreateUser("alice", "hash", "", domain.RoleInterviewee)
	require.NoError(t, err)

	updated, err := st.UpdateProfile(user.ID, Profile{
		Phone:    "555",
		Email:    "a@example.com",
		RealName: "Alice",
		Nickname: "al",
		Avatar:   "http://img",
	})
	require.NoError(t, err)
	assert.Equal(t, "555", updated.Phone)
	assert.Equal(t, "a@example.com", updated.Email)
	assert.Equal(t, "Alice", updated.RealName)

	// Overwrite semantics: empty fields clear previous values.
	updated, err = st.UpdateProfile(user.ID, Profile{Email: "b@example.com"})
	require.NoError(t, err)
	assert.Empty(t, updated.Phone)
	assert.Equal(t, "b@example.com", updated.Email)
}

func TestCreateRoom(t *testing.T) {
	st := openTestStore(t)
	when := time.Now().Add(time.Hour).Truncate(time.Second)

	room, err := st.CreateRoom("R1", when, "u1", domain.RoleInterviewer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomWaiting, room.Status)
	require.Len(t, room.Participants, 1)
	assert.Equal(t, domain.UserID("u1"), room.Participants[0].UserID)

	_, err = st.CreateRoom("R1", when, "u2", domain.RoleInterviewee)
	assert.ErrorIs(t, err, ErrRoomExists)
}

func TestJoinRoomIdempotent(t *testing.T) {
	st := openTestStore(t)
	_, err := st.CreateRoom("R1", time.Now(), "u1", domain.RoleInterviewer)
	require.NoError(t, err)

	room, err := st.JoinRoom("R1", "u2", domain.RoleInterviewee)
	require.NoError(t, err)
	assert.Len(t, room.Participants, 2)
	assert.Equal(t, domain.RoomActive, room.Status)

	room, err = st.JoinRoom("R1", "u2", domain.RoleInterviewee)
	require.NoError(t, err)
	assert.Len(t, room.Participants, 2)
	assert.Equal(t, domain.RoomActive, room.Status)

	_, err = st.JoinRoom("missing", "u2", domain.RoleInterviewee)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoomByCreatorStaysWaiting(t *testing.T) {
	st := openTestStore(t)
	_, err := st.CreateRoom("R1", time.Now(), "u1", domain.RoleInterviewer)
	require.NoError(t, err)

	// The creator re-entering their own room is not a second participant.
	room, err := st.JoinRoom("R1", "u1", domain.RoleInterviewer)
	require.NoError(t, err)
	assert.Len(t, room.Participants, 1)
	assert.Equal(t, domain.RoomWaiting, room.Status)
}

func TestSetRoomStatus(t *testing.T) {
	st := openTestStore(t)
	_, err := st.CreateRoom("R1", time.Now(), "u1", domain.RoleInterviewer)
	require.NoError(t, err)

	require.NoError(t, st.SetRoomStatus("R1", domain.RoomActive))
	room, err := st.RoomByKey("R1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomActive, room.Status)

	assert.ErrorIs(t, st.SetRoomStatus("missing", domain.RoomActive), ErrRoomNotFound)
}
