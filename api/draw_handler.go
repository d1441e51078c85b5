package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/services"
)

// DrawHandler serves the draw lifecycle endpoints
type DrawHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
	rules      entities.GameRules
}

// NewDrawHandler creates a new draw handler
func NewDrawHandler(uowFactory interfaces.UnitOfWorkFactory, rules entities.GameRules) *DrawHandler {
	return &DrawHandler{uowFactory: uowFactory, rules: rules}
}

// CreateDraw schedules a new draw. The jackpot is the distributable pool
// and may include an operator-carried rollover from the previous draw.
func (h *DrawHandler) CreateDraw(c *gin.Context) {
	var req struct {
		DrawNumber int64           `json:"draw_number"`
		DrawTime   time.Time       `json:"draw_time" binding:"required"`
		Jackpot    decimal.Decimal `json:"jackpot" binding:"required"`
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

	// Draw number is assigned sequentially when the operator omits it
	drawNumber := req.DrawNumber
	if drawNumber == 0 {
		next, err := uow.DrawRepository().NextDrawNumber(ctx)
		if err != nil {
			respondWithError(c, err)
			return
		}
		drawNumber = next
	}

	drawService := services.NewDrawService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.UserRepository(),
		uow.TransactionRepository(),
		h.rules,
	)
	draw, err := drawService.CreateDraw(ctx, drawNumber, req.DrawTime, req.Jackpot)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDrawResponse(draw, h.rules.LockWindow))
}

// CompleteDraw takes the operator-supplied winning numbers and settles
// all prizes for the draw in one transaction
func (h *DrawHandler) CompleteDraw(c *gin.Context) {
	drawID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw id", "retryable": false})
		return
	}

	var req struct {
		WinningNumbers []int64 `json:"winning_numbers" binding:"required"`
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

	drawService := services.NewDrawService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.UserRepository(),
		uow.TransactionRepository(),
		h.rules,
	)
	result, err := drawService.CompleteDraw(ctx, drawID, req.WinningNumbers)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	log.WithFields(log.Fields{
		"drawNumber":   result.Draw.DrawNumber,
		"totalTickets": result.TotalTickets,
		"totalPaid":    result.TotalPaid,
		"rolledOver":   result.RolledOver,
	}).Info("draw completed")

	c.JSON(http.StatusOK, toSettlementResponse(result, h.rules.LockWindow))
}

// GetCurrentDraw returns the open draw, 404 if none is scheduled
func (h *DrawHandler) GetCurrentDraw(c *gin.Context) {
	ctx := c.Request.Context()
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondWithError(c, err)
		return
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.UserRepository(),
		uow.TransactionRepository(),
		h.rules,
	)
	draw, err := drawService.GetCurrentDraw(ctx)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if draw == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no draw is currently open", "retryable": false})
		return
	}

	c.JSON(http.StatusOK, toDrawResponse(draw, h.rules.LockWindow))
}

// GetDraw returns one draw by ID
func (h *DrawHandler) GetDraw(c *gin.Context) {
	drawID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw id", "retryable": false})
		return
	}

	ctx := c.Request.Context()
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondWithError(c, err)
		return
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.UserRepository(),
		uow.TransactionRepository(),
		h.rules,
	)
	draw, err := drawService.GetDraw(ctx, drawID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDrawResponse(draw, h.rules.LockWindow))
}
