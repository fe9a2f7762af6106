package signal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/app"
	"github.com/wzray/Mockview/internal/auth"
	"github.com/wzray/Mockview/internal/config"
	"github.com/wzray/Mockview/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the WebSocket end of the signaling relay. Connections are
// promoted only after their token is verified; identity then lives on the
// connection, never in message bodies.
type Controller struct {
	Relay *app.Relay
	Auth  *auth.Manager
	Cfg   *config.Config
}

func NewController(relay *app.Relay, authm *auth.Manager, cfg *config.Config) *Controller {
	return &Controller{Relay: relay, Auth: authm, Cfg: cfg}
}

type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.Mutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// bearerToken pulls the token from ?token= or the Authorization header.
func bearerToken(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	return ""
}

// HandleSignal authenticates and upgrades one signaling connection, then
// starts its pumps. The read pump drives the relay until disconnect.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	claims, err := ctl.Auth.Validate(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	peer, err := claims.Peer()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid role"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}

	id := ctl.Relay.Connect(peer, conn)
	log.Info().Str("module", "signal").Str("conn", string(id)).
		Str("user", string(peer.UserID)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, id, conn)
	go ctl.readPump(ctx, cancel, id, conn)

	ctl.sendJSON(conn, core.ConnectedEvent{Kind: core.KindConnected, Conn: id})
}
