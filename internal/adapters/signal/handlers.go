package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/core"
)

func (ctl *Controller) handleJoin(id core.ConnID, c *WsConn, data []byte) {
	var req core.JoinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	if req.Room == "" {
		ctl.sendJSON(c, core.ErrorEvent{Kind: core.KindError, Error: "missing roomId"})
		return
	}
	ctl.Relay.Join(id, req.Room)
}

func (ctl *Controller) handleLeave(id core.ConnID, c *WsConn, data []byte) {
	var req core.JoinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad leave payload")
		return
	}
	if req.Room == "" {
		ctl.sendJSON(c, core.ErrorEvent{Kind: core.KindError, Error: "missing roomId"})
		return
	}
	ctl.Relay.Leave(id, req.Room)
}

// handleForward parses offer/answer/ice-candidate uniformly; the payload
// stays a raw blob all the way through the relay.
func (ctl *Controller) handleForward(id core.ConnID, data []byte) {
	var req core.ForwardRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad forward payload")
		return
	}
	ctl.Relay.Forward(id, req)
}
