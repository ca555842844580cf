package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/config"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/editor"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/services"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/utils"
)

type AuthHandler struct {
	log    *zap.Logger
	users  UserStore
	email  *services.EmailService
	drafts *editor.Manager
}

func NewAuthHandler(log *zap.Logger, users UserStore, email *services.EmailService, drafts *editor.Manager) *AuthHandler {
	return &AuthHandler{log: log, users: users, email: email, drafts: drafts}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	UID           uint   `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters with upper, lower, digit and symbol"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		c.JSON(http.StatusConflict, gin.H{"error": "could not register with that email"})
		return
	}

	if err := h.email.SendVerificationEmail(user); err != nil {
		// Registration itself succeeded; the user can request another email.
		h.log.Error("Failed to send verification email", zap.Error(err), zap.Uint("userID", user.ID))
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, userView{UID: user.ID, Email: user.Email, EmailVerified: user.EmailVerified})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}

	c.JSON(http.StatusOK, userView{UID: user.ID, Email: user.Email, EmailVerified: user.EmailVerified})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// Navigating away from the editor discards the in-memory draft.
	if user, ok := currentUser(c); ok {
		h.drafts.Drop(user.ID)
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me reports the signed-in user. The client's verify-email page polls this
// until emailVerified flips to true.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, userView{UID: user.ID, Email: user.Email, EmailVerified: user.EmailVerified})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	if user.EmailVerified {
		c.JSON(http.StatusOK, gin.H{"message": "email already verified"})
		return
	}
	if err := h.email.SendVerificationEmail(user); err != nil {
		h.log.Error("Failed to resend verification email", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send verification email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification email sent"})
}

// Verify consumes the emailed verification link.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	userID, err := utils.ParseVerificationToken(token, config.Conf.Auth.VerifySecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification link"})
		return
	}

	if err := h.users.MarkVerified(c.Request.Context(), userID); err != nil {
		h.log.Error("Failed to mark user verified", zap.Error(err), zap.Uint("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}
