package api

import (
	"time"

	"github.com/shopspring/decimal"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

type drawResponse struct {
	ID             int64           `json:"id"`
	DrawNumber     int64           `json:"draw_number"`
	DrawTime       time.Time       `json:"draw_time"`
	Status         string          `json:"status"`
	WinningNumbers []int64         `json:"winning_numbers,omitempty"`
	Jackpot        decimal.Decimal `json:"jackpot"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

func toDrawResponse(draw *entities.Draw, lockWindow time.Duration) drawResponse {
	return drawResponse{
		ID:             draw.ID,
		DrawNumber:     draw.DrawNumber,
		DrawTime:       draw.DrawTime,
		Status:         string(draw.StatusAt(time.Now().UTC(), lockWindow)),
		WinningNumbers: draw.WinningNumbers,
		Jackpot:        draw.Jackpot,
		CompletedAt:    draw.CompletedAt,
	}
}

type ticketResponse struct {
	ID            int64            `json:"id"`
	DrawID        int64            `json:"draw_id"`
	UserID        int64            `json:"user_id"`
	Numbers       []int64          `json:"numbers"`
	Cost          decimal.Decimal  `json:"cost"`
	MatchCount    *int             `json:"match_count,omitempty"`
	WinningAmount *decimal.Decimal `json:"winning_amount,omitempty"`
	PurchasedAt   time.Time        `json:"purchased_at"`
}

func toTicketResponse(ticket *entities.Ticket) ticketResponse {
	return ticketResponse{
		ID:            ticket.ID,
		DrawID:        ticket.DrawID,
		UserID:        ticket.UserID,
		Numbers:       ticket.Numbers,
		Cost:          ticket.Cost,
		MatchCount:    ticket.MatchCount,
		WinningAmount: ticket.WinningAmount,
		PurchasedAt:   ticket.PurchasedAt,
	}
}

func toTicketResponses(tickets []*entities.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}

type tierResponse struct {
	MatchCount  int             `json:"match_count"`
	Share       decimal.Decimal `json:"share"`
	Pool        decimal.Decimal `json:"pool"`
	WinnerCount int             `json:"winner_count"`
	PerTicket   decimal.Decimal `json:"per_ticket"`
}

type settlementResponse struct {
	Draw           drawResponse    `json:"draw"`
	WinningNumbers []int64         `json:"winning_numbers"`
	TotalTickets   int             `json:"total_tickets"`
	Tiers          []tierResponse  `json:"tiers"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	RolledOver     bool            `json:"rolled_over"`
	RolloverAmount decimal.Decimal `json:"rollover_amount"`
}

func toSettlementResponse(result *interfaces.SettlementResult, lockWindow time.Duration) settlementResponse {
	tiers := make([]tierResponse, 0, len(result.Tiers))
	for _, t := range result.Tiers {
		tiers = append(tiers, tierResponse{
			MatchCount:  t.MatchCount,
			Share:       t.Share,
			Pool:        t.Pool,
			WinnerCount: t.WinnerCount,
			PerTicket:   t.PerTicket,
		})
	}
	return settlementResponse{
		Draw:           toDrawResponse(result.Draw, lockWindow),
		WinningNumbers: result.WinningNumbers,
		TotalTickets:   result.TotalTickets,
		Tiers:          tiers,
		TotalPaid:      result.TotalPaid,
		RolledOver:     result.RolledOver,
		RolloverAmount: result.RolloverAmount,
	}
}

type userResponse struct {
	ID            int64           `json:"id"`
	Username      string          `json:"username"`
	Balance       decimal.Decimal `json:"balance"`
	TotalWinnings decimal.Decimal `json:"total_winnings"`
	ReferralCode  string          `json:"referral_code"`
	ReferralCount int             `json:"referral_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toUserResponse(user *entities.User) userResponse {
	return userResponse{
		ID:            user.ID,
		Username:      user.Username,
		Balance:       user.Balance,
		TotalWinnings: user.TotalWinnings,
		ReferralCode:  user.ReferralCode,
		ReferralCount: user.ReferralCount,
		CreatedAt:     user.CreatedAt,
	}
}

type transactionResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TicketID    *int64          `json:"ticket_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toTransactionResponses(txns []*entities.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, transactionResponse{
			ID:          txn.ID,
			UserID:      txn.UserID,
			TicketID:    txn.TicketID,
			Type:        string(txn.Type),
			Amount:      txn.Amount,
			Description: txn.Description,
			CreatedAt:   txn.CreatedAt,
		})
	}
	return out
}

type chatMessageResponse struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Content   string    `json:"content"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toChatMessageResponses(msgs []*entities.ChatMessage) []chatMessageResponse {
	out := make([]chatMessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, chatMessageResponse{
			ID:        msg.ID,
			UserID:    msg.UserID,
			Content:   msg.Content,
			IsAdmin:   msg.IsAdmin,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out
}
