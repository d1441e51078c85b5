package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/services"
)

const defaultTicketListLimit = 50

// TicketHandler serves the ticket purchase and listing endpoints
type TicketHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
	rules      entities.GameRules
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(uowFactory interfaces.UnitOfWorkFactory, rules entities.GameRules) *TicketHandler {
	return &TicketHandler{uowFactory: uowFactory, rules: rules}
}

// PurchaseTicket buys one ticket. The debit, the ledger entry and the
// ticket insert commit together or not at all.
func (h *TicketHandler) PurchaseTicket(c *gin.Context) {
	var req struct {
		UserID  int64   `json:"user_id" binding:"required"`
		DrawID  int64   `json:"draw_id" binding:"required"`
		Numbers []int64 `json:"numbers" binding:"required"`
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

	ticketService := services.NewTicketService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.UserRepository(),
		uow.TransactionRepository(),
		h.rules,
	)
	result, err := ticketService.PurchaseTicket(ctx, req.UserID, req.DrawID, req.Numbers)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ticket":      toTicketResponse(result.Ticket),
		"draw":        toDrawResponse(result.Draw, h.rules.LockWindow),
		"new_balance": result.NewBalance,
	})
}

// ListUserTickets returns a user's tickets, optionally scoped to one draw
// with the draw_id query parameter
func (h *TicketHandler) ListUserTickets(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id", "retryable": false})
		return
	}

	ctx := c.Request.Context()
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondWithError(c, err)
		return
	}
	defer uow.Rollback()

	if drawIDParam := c.Query("draw_id"); drawIDParam != "" {
		drawID, err := strconv.ParseInt(drawIDParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw_id", "retryable": false})
			return
		}

		ticketService := services.NewTicketService(
			uow.DrawRepository(),
			uow.TicketRepository(),
			uow.UserRepository(),
			uow.TransactionRepository(),
			h.rules,
		)
		tickets, err := ticketService.GetUserTickets(ctx, userID, drawID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tickets": toTicketResponses(tickets)})
		return
	}

	limit := defaultTicketListLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tickets, err := uow.TicketRepository().ListByUser(ctx, userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": toTicketResponses(tickets)})
}
