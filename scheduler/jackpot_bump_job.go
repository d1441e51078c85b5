package scheduler

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"lottohouse/config"
	"lottohouse/domain/interfaces"
)

// JackpotBumpJob grows the open draw's jackpot by a random amount within
// the configured bounds on every tick.
type JackpotBumpJob struct {
	cfg        *config.Config
	uowFactory interfaces.UnitOfWorkFactory
}

// NewJackpotBumpJob creates the jackpot growth job
func NewJackpotBumpJob(cfg *config.Config, uowFactory interfaces.UnitOfWorkFactory) *JackpotBumpJob {
	return &JackpotBumpJob{cfg: cfg, uowFactory: uowFactory}
}

// Run is the cron Job interface method
func (j *JackpotBumpJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("jackpot bump: failed to begin transaction")
		return
	}
	defer uow.Rollback()

	draw, err := uow.DrawRepository().GetCurrentOpen(ctx)
	if err != nil {
		log.WithError(err).Error("jackpot bump: failed to get open draw")
		return
	}
	if draw == nil {
		return
	}

	increment := randomIncrement(j.cfg.JackpotIncrementMin, j.cfg.JackpotIncrementMax)
	newJackpot, err := uow.DrawRepository().IncrementJackpot(ctx, draw.ID, increment)
	if err != nil {
		log.WithError(err).Error("jackpot bump: failed to increment jackpot")
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("jackpot bump: failed to commit")
		return
	}

	log.WithFields(log.Fields{
		"drawNumber": draw.DrawNumber,
		"increment":  increment,
		"jackpot":    newJackpot,
	}).Info("jackpot increased")
}

// randomIncrement picks a uniform amount in [min, max], rounded to 2 dp
func randomIncrement(min, max decimal.Decimal) decimal.Decimal {
	span := max.Sub(min)
	if !span.IsPositive() {
		return min
	}
	offset := span.Mul(decimal.NewFromFloat(rand.Float64()))
	return min.Add(offset).Round(2)
}
