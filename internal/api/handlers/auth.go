package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/auth"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/pkg/dto"
)

type AuthHandler struct {
	db     *storage.PostgresStore
	issuer *auth.TokenIssuer
	audit  *audit.Logger
}

func NewAuthHandler(db *storage.PostgresStore, issuer *auth.TokenIssuer, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{db: db, issuer: issuer, audit: auditLog}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.db.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleMember,
	}
	if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.audit.Log(c.Request.Context(), &user.ID, "signup",
		fmt.Sprintf("user %s registered", user.Username),
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	resp, err := h.startSession(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.audit.Log(c.Request.Context(), &user.ID, "login",
		fmt.Sprintf("user %s logged in", user.Username),
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token: the presented session is revoked and
// a fresh token pair is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.db.GetSessionByToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
		return
	}

	if err := h.db.DeleteSessionByToken(c.Request.Context(), req.RefreshToken); err != nil && !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.startSession(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.DeleteSessionByToken(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if ident, ok := auth.IdentityFrom(c); ok {
		h.audit.Log(c.Request.Context(), &ident.UserID, "logout",
			fmt.Sprintf("user %s logged out", ident.Username),
			c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), ident.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateRole(c *gin.Context) {
	var req dto.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpdateUserRole(c.Request.Context(), req.UserID, models.Role(req.Role)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if ident, ok := auth.IdentityFrom(c); ok {
		h.audit.Log(c.Request.Context(), &ident.UserID, "update_role",
			fmt.Sprintf("set role of %s to %s", req.UserID, req.Role),
			c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (*dto.TokenResponse, error) {
	access, err := h.issuer.Access(user)
	if err != nil {
		return nil, err
	}
	refresh, err := h.issuer.Refresh(user)
	if err != nil {
		return nil, err
	}

	sess := &models.UserSession{
		UserID:       user.ID,
		RefreshToken: refresh,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		ExpiresAt:    time.Now().Add(h.issuer.RefreshTTL()),
	}
	if err := h.db.CreateSession(c.Request.Context(), sess); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:        access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
	}, nil
}
