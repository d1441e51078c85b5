package services

import (
	"context"
	"fmt"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

// rankService derives user ranks from lifetime ticket participation.
type rankService struct {
	userRepo   interfaces.UserRepository
	ticketRepo interfaces.TicketRepository
	rules      entities.GameRules
}

// NewRankService creates a new rank service
func NewRankService(userRepo interfaces.UserRepository, ticketRepo interfaces.TicketRepository, rules entities.GameRules) interfaces.RankService {
	return &rankService{
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
		rules:      rules,
	}
}

// GetUserRank derives the user's rank from their lifetime ticket count. The
// rank is never persisted; the ticket history is the source of truth.
func (s *rankService) GetUserRank(ctx context.Context, userID int64) (*interfaces.RankInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}

	count, err := s.ticketRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	rank := entities.RankForParticipation(count, s.rules.RankThresholds)
	return &interfaces.RankInfo{
		Rank:         rank,
		Label:        rank.DisplayLabel(false),
		Participated: count,
	}, nil
}
