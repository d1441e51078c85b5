package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lottohouse/domain/interfaces"
	"lottohouse/domain/services"
)

const defaultChatListLimit = 100

// ChatHandler serves the informational support chat
type ChatHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewChatHandler creates a new chat handler
func NewChatHandler(uowFactory interfaces.UnitOfWorkFactory) *ChatHandler {
	return &ChatHandler{uowFactory: uowFactory}
}

// PostMessage appends a chat message. user_id may be omitted for
// anonymous visitor messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		UserID  *int64 `json:"user_id"`
		Content string `json:"content" binding:"required"`
		IsAdmin bool   `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "retryable": false})
		return
	}

	ctx := c.Request.Context()
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondWithError(c, err)
		return
	}
	defer uow.Rollback()

	chatService := services.NewChatService(uow.ChatMessageRepository(), uow.UserRepository())
	msg, err := chatService.PostMessage(ctx, req.UserID, req.Content, req.IsAdmin)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         msg.ID,
		"created_at": msg.CreatedAt,
	})
}

// ListMessages returns the most recent chat messages, oldest first
func (h *ChatHandler) ListMessages(c *gin.Context) {
	limit := defaultChatListLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx := c.Request.Context()
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondWithError(c, err)
		return
	}
	defer uow.Rollback()

	chatService := services.NewChatService(uow.ChatMessageRepository(), uow.UserRepository())
	msgs, err := chatService.ListMessages(ctx, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": toChatMessageResponses(msgs)})
}
