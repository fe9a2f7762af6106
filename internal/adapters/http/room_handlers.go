package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/domain"
	"github.com/wzray/Mockview/internal/store"
)

func (h *Handlers) CreateRoom(c *gin.Context) {
	claims := claimsFrom(c)
	var req struct {
		RoomID        string    `json:"roomId" binding:"required"`
		InterviewTime time.Time `json:"interviewTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId and interviewTime are required"})
		return
	}

	room, err := h.Store.CreateRoom(
		domain.RoomKey(req.RoomID),
		req.InterviewTime,
		domain.UserID(claims.UserID),
		domain.Role(claims.Role),
	)
	if err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "room already exists"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "room created", "room": room})
}

func (h *Handlers) JoinRoom(c *gin.Context) {
	claims := claimsFrom(c)
	var req struct {
		RoomID string `json:"roomId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId is required"})
		return
	}

	room, err := h.Store.JoinRoom(
		domain.RoomKey(req.RoomID),
		domain.UserID(claims.UserID),
		domain.Role(claims.Role),
	)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "room not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("join room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined room", "room": room})
}

func (h *Handlers) GetRoom(c *gin.Context) {
	room, err := h.Store.RoomByKey(domain.RoomKey(c.Param("roomId")))
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "room not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("get room")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// WebRTCConfig hands browser peers the ICE server list. Media itself never
// touches this server; peers connect to each other directly.
func (h *Handlers) WebRTCConfig(c *gin.Context) {
	servers := make([]webrtc.ICEServer, 0, len(h.Cfg.ICEServers))
	for _, s := range h.Cfg.ICEServers {
		ice := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			ice.Username = s.Username
			ice.Credential = s.Credential
		}
		servers = append(servers, ice)
	}
	c.JSON(http.StatusOK, gin.H{"iceServers": servers})
}
