package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/auth"
	"github.com/wzray/Mockview/internal/config"
	"github.com/wzray/Mockview/internal/domain"
	"github.com/wzray/Mockview/internal/store"
)

type Handlers struct {
	Store *store.Store
	Auth  *auth.Manager
	Cfg   *config.Config
}

func (h *Handlers) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	role := domain.RoleInterviewee
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown role"})
			return
		}
		role = parsed
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	if _, err := h.Store.CreateUser(req.Username, hash, req.Phone, role); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "username already exists"})
			return
		}
		if errors.Is(err, domain.ErrUsernameEmpty) || errors.Is(err, domain.ErrUsernameTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid username"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	user, hash, err := h.Store.UserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user not found"})
		return
	}
	if !auth.CheckPassword(hash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "wrong password"})
		return
	}

	token, err := h.Auth.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "logged in",
		"token":   token,
		"role":    user.Role,
		"user":    user,
	})
}

func (h *Handlers) GetProfile(c *gin.Context) {
	claims := claimsFrom(c)
	user, err := h.Store.UserByID(domain.UserID(claims.UserID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	claims := claimsFrom(c)
	var req struct {
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		RealName string `json:"realName"`
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	user, err := h.Store.UpdateProfile(domain.UserID(claims.UserID), store.Profile{
		Phone:    req.Phone,
		Email:    req.Email,
		RealName: req.RealName,
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": user})
}
