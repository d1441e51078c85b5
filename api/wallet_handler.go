package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/services"
)

const defaultTransactionListLimit = 50

// WalletHandler serves registration, deposits and the transaction ledger
type WalletHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
	rules      entities.GameRules
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(uowFactory interfaces.UnitOfWorkFactory, rules entities.GameRules) *WalletHandler {
	return &WalletHandler{uowFactory: uowFactory, rules: rules}
}

func (h *WalletHandler) newWalletService(uow interfaces.UnitOfWork) interfaces.WalletService {
	return services.NewWalletService(
		uow.UserRepository(),
		uow.TransactionRepository(),
		uow.ReferralRepository(),
		h.rules,
	)
}

// Register creates an account, optionally linked to a referrer's code
func (h *WalletHandler) Register(c *gin.Context) {
	var req struct {
		Username     string `json:"username" binding:"required"`
		ReferralCode string `json:"referral_code"`
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

	user, err := h.newWalletService(uow).RegisterUser(ctx, req.Username, req.ReferralCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// RecordDeposit credits a balance and applies the referral bonus rule
func (h *WalletHandler) RecordDeposit(c *gin.Context) {
	var req struct {
		UserID int64           `json:"user_id" binding:"required"`
		Amount decimal.Decimal `json:"amount" binding:"required"`
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

	result, err := h.newWalletService(uow).RecordDeposit(ctx, req.UserID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"new_balance":          result.NewBalance,
		"referral_bonus_paid":  result.ReferralBonusPaid,
		"milestone_bonus_paid": result.MilestoneBonusPaid,
	})
}

// AdminDeposit credits a user's balance on behalf of an operator
func (h *WalletHandler) AdminDeposit(c *gin.Context) {
	var req struct {
		AdminID int64           `json:"admin_id" binding:"required"`
		UserID  int64           `json:"user_id" binding:"required"`
		Amount  decimal.Decimal `json:"amount" binding:"required"`
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

	result, err := h.newWalletService(uow).AdminDeposit(ctx, req.AdminID, req.UserID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"new_balance": result.NewBalance})
}

// ListTransactions returns a user's ledger entries, most recent first
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id", "retryable": false})
		return
	}

	limit := defaultTransactionListLimit
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

	txns, err := h.newWalletService(uow).GetUserTransactions(ctx, userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": toTransactionResponses(txns)})
}

// GetBalance returns the stored balance alongside the ledger sum so
// operators can spot drift
func (h *WalletHandler) GetBalance(c *gin.Context) {
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

	ledgerSum, balance, err := h.newWalletService(uow).ReconcileBalance(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":    balance,
		"ledger_sum": ledgerSum,
		"reconciled": balance.Equal(ledgerSum),
	})
}
