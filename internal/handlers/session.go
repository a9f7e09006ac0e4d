package handlers

import (
	"context"
	"log"
	"net/http"

	"reddit-ideas/internal/auth"

	"github.com/gin-gonic/gin"
)

// SignOuter revokes a session with the auth provider
type SignOuter interface {
	SignOut(ctx context.Context, token string) error
}

// SessionHandler handles browser session endpoints
type SessionHandler struct {
	signOuter SignOuter
	siteURL   string
}

// NewSessionHandler creates a new session handler. signOuter may be nil.
func NewSessionHandler(signOuter SignOuter, siteURL string) *SessionHandler {
	return &SessionHandler{
		signOuter: signOuter,
		siteURL:   siteURL,
	}
}

// Logout handles GET /logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if token := auth.TokenFromRequest(c); token != "" && h.signOuter != nil {
		if err := h.signOuter.SignOut(c.Request.Context(), token); err != nil {
			// The cookie is cleared either way
			log.Printf("Sign out failed: %v", err)
		}
	}

	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, h.siteURL+"/")
}
