package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"reddit-ideas/internal/auth"
	"reddit-ideas/internal/models"
	"reddit-ideas/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConfirmationSender re-triggers the signup confirmation email
type ConfirmationSender interface {
	ResendConfirmation(ctx context.Context, email string) error
}

// SubscriptionHandler handles email and per-idea subscriptions
type SubscriptionHandler struct {
	emails    *services.SubscriptionService
	ideas     *services.IdeaSubscriptionService
	confirmer ConfirmationSender
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(emails *services.SubscriptionService, ideas *services.IdeaSubscriptionService, confirmer ConfirmationSender) *SubscriptionHandler {
	return &SubscriptionHandler{
		emails:    emails,
		ideas:     ideas,
		confirmer: confirmer,
	}
}

type subscribeEmailRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Topics    []string `json:"topics" binding:"omitempty,dive,oneof=devtools health education finance productivity other"`
	Frequency string   `json:"frequency" binding:"omitempty,oneof=daily weekly"`
}

// SubscribeEmail handles POST /api/subscribe-email
func (h *SubscriptionHandler) SubscribeEmail(c *gin.Context) {
	var req subscribeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	topics := make([]models.Topic, 0, len(req.Topics))
	for _, t := range req.Topics {
		topics = append(topics, models.Topic(t))
	}

	result, err := h.emails.Subscribe(c.Request.Context(), services.SubscribeRequest{
		Email:     req.Email,
		Topics:    topics,
		Frequency: models.Frequency(req.Frequency),
	})
	if errors.Is(err, services.ErrAlreadySubscribed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already subscribed"})
		return
	}
	if err != nil {
		log.Printf("[SUBSCRIBE] Failed to subscribe %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	if result.Reactivated {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Subscription reactivated! Check your email for confirmation.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Successfully subscribed! Check your email for confirmation.",
		"subscriptionId": result.Subscription.ID,
	})
}

type unsubscribeRequest struct {
	Token string `json:"token" form:"token"`
}

// Unsubscribe handles GET and POST /api/unsubscribe
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidInput(c, err)
			return
		}
	} else {
		req.Token = c.Query("token")
	}

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsubscribe token is required"})
		return
	}

	result, err := h.emails.Unsubscribe(c.Request.Context(), req.Token)
	if errors.Is(err, services.ErrInvalidToken) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid unsubscribe token"})
		return
	}
	if err != nil {
		log.Printf("Error unsubscribing: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	message := "Successfully unsubscribed"
	if result.AlreadyUnsubscribed {
		message = "Email was already unsubscribed"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"email":   result.Email,
	})
}

type ideaSubscriptionRequest struct {
	IdeaID string `json:"ideaId" form:"ideaId"`
}

// parseIdeaID reads ideaId from the JSON body, or the query string for GET
func parseIdeaID(c *gin.Context) (uuid.UUID, bool) {
	var req ideaSubscriptionRequest
	if c.Request.Method == http.MethodGet {
		req.IdeaID = c.Query("ideaId")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Idea ID is required"})
		return uuid.Nil, false
	}

	if req.IdeaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Idea ID is required"})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(req.IdeaID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// SubscribeIdea handles POST /api/subscribe
func (h *SubscriptionHandler) SubscribeIdea(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}

	sub, err := h.ideas.Subscribe(c.Request.Context(), user.ID, ideaID)
	if errors.Is(err, services.ErrIdeaNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	if err != nil {
		log.Printf("Error subscribing to idea: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe to idea"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"subscription": sub,
	})
}

// UnsubscribeIdea handles DELETE /api/subscribe
func (h *SubscriptionHandler) UnsubscribeIdea(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}

	if err := h.ideas.Unsubscribe(c.Request.Context(), user.ID, ideaID); err != nil {
		log.Printf("Error unsubscribing from idea: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe from idea"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListIdeaSubscriptions handles GET /api/subscribe
func (h *SubscriptionHandler) ListIdeaSubscriptions(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	subs, err := h.ideas.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Error fetching subscriptions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"subscriptions": subs,
	})
}

type resendConfirmationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendConfirmation handles POST /api/resend-confirmation
func (h *SubscriptionHandler) ResendConfirmation(c *gin.Context) {
	var req resendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid email address",
			"details": validationDetails(err),
		})
		return
	}

	if err := h.confirmer.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		log.Printf("Error resending confirmation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend confirmation email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Confirmation email sent successfully",
	})
}
