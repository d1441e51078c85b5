package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/services"
)

// RankHandler serves the participation-derived rank endpoint
type RankHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
	rules      entities.GameRules
}

// NewRankHandler creates a new rank handler
func NewRankHandler(uowFactory interfaces.UnitOfWorkFactory, rules entities.GameRules) *RankHandler {
	return &RankHandler{uowFactory: uowFactory, rules: rules}
}

// GetUserRank derives the user's rank from their lifetime ticket count
func (h *RankHandler) GetUserRank(c *gin.Context) {
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

	rankService := services.NewRankService(uow.UserRepository(), uow.TicketRepository(), h.rules)
	info, err := rankService.GetUserRank(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rank":         string(info.Rank),
		"label":        info.Label,
		"participated": info.Participated,
	})
}
