package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSignal(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal?token=" + token
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readSignal(t *testing.T, c *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func writeSignal(t *testing.T, c *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, c.WriteJSON(v))
}

// await sends a ping and waits for the pong, guaranteeing every earlier
// message on this connection has been handled.
func await(t *testing.T, c *websocket.Conn) {
	t.Helper()
	writeSignal(t, c, map[string]any{"type": "ping"})
	m := readSignal(t, c)
	require.Equal(t, "pong", m["type"])
}

func TestSignalRejectsMissingToken(t *testing.T) {
	r := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignalHandshakeEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	register(t, r, "alice", "interviewer")
	register(t, r, "bob", "interviewee")
	tokenA := login(t, r, "alice")
	tokenB := login(t, r, "bob")

	connA := dialSignal(t, srv, tokenA)
	hello := readSignal(t, connA)
	require.Equal(t, "connected", hello["type"])
	idA := hello["connectionId"].(string)
	require.NotEmpty(t, idA)

	writeSignal(t, connA, map[string]any{"type": "join", "roomId": "R1"})
	await(t, connA)

	connB := dialSignal(t, srv, tokenB)
	hello = readSignal(t, connB)
	require.Equal(t, "connected", hello["type"])
	idB := hello["connectionId"].(string)

	writeSignal(t, connB, map[string]any{"type": "join", "roomId": "R1"})

	joined := readSignal(t, connA)
	require.Equal(t, "peer-joined", joined["type"])
	assert.Equal(t, idB, joined["connectionId"])
	assert.Equal(t, "interviewee", joined["role"])

	// The side that saw peer-joined initiates.
	writeSignal(t, connA, map[string]any{"type": "offer", "roomId": "R1", "to": idB, "sdp": "v=0"})
	offer := readSignal(t, connB)
	require.Equal(t, "offer", offer["type"])
	assert.Equal(t, idA, offer["from"])
	assert.Equal(t, "v=0", offer["sdp"])

	writeSignal(t, connB, map[string]any{"type": "answer", "roomId": "R1", "to": idA, "sdp": "v=1"})
	answer := readSignal(t, connA)
	require.Equal(t, "answer", answer["type"])
	assert.Equal(t, idB, answer["from"])
	assert.Equal(t, "v=1", answer["sdp"])

	writeSignal(t, connB, map[string]any{
		"type": "ice-candidate", "roomId": "R1", "to": idA,
		"candidate": map[string]any{"candidate": "candidate:0 1 UDP 1 192.0.2.1 5000 typ host"},
	})
	cand := readSignal(t, connA)
	require.Equal(t, "ice-candidate", cand["type"])
	assert.Equal(t, idB, cand["from"])

	require.NoError(t, connB.Close())
	left := readSignal(t, connA)
	require.Equal(t, "peer-left", left["type"])
	assert.Equal(t, idB, left["connectionId"])
}

func TestSignalIdentityComesFromToken(t *testing.T) {
	r := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	register(t, r, "alice", "interviewer")
	register(t, r, "eve", "interviewer")
	tokenA := login(t, r, "alice")
	tokenE := login(t, r, "eve")

	connA := dialSignal(t, srv, tokenA)
	readSignal(t, connA) // connected
	writeSignal(t, connA, map[string]any{"type": "join", "roomId": "R1"})
	await(t, connA)

	// Eve declares herself an interviewee in the join body; the relay
	// only believes the token, so the role clash is rejected.
	connE := dialSignal(t, srv, tokenE)
	readSignal(t, connE) // connected
	writeSignal(t, connE, map[string]any{"type": "join", "roomId": "R1", "role": "interviewee"})

	m := readSignal(t, connE)
	require.Equal(t, "error", m["type"])
	assert.Equal(t, "role_taken", m["error"])
}
