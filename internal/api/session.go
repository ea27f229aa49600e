package api

import (
	"errors"
	"net/http"
	"net/url"

	"fasohabita/server/internal/auth"
	"fasohabita/server/internal/models"

	"github.com/gin-gonic/gin"
)

// Login sends the browser to the identity provider
func (h *Handler) Login(c *gin.Context) {
	if h.config.Auth.LoginURL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Login is not configured"})
		return
	}

	target, err := url.Parse(h.config.Auth.LoginURL)
	if err != nil {
		h.logger.WithError(err).Error("Invalid login URL")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login is not configured"})
		return
	}
	q := target.Query()
	q.Set("redirect_uri", h.config.Auth.CallbackURL)
	target.RawQuery = q.Encode()

	c.Redirect(http.StatusFound, target.String())
}

// Callback accepts the provider token, records the user and opens a session
func (h *Handler) Callback(c *gin.Context) {
	claims, err := h.sessions.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user := claims.User()
	if err := h.users.UpsertUser(c.Request.Context(), user); err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to upsert user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to sign in"})
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to issue session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to sign in"})
		return
	}

	h.setSessionCookie(c, token, int(h.sessions.TTL().Seconds()))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) CurrentUser(c *gin.Context) {
	userID, _ := auth.UserID(c)

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to get user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Auth.CookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}
