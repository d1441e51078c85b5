package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"lottohouse/config"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/services"
)

// EnsureOpenDrawJob keeps a purchasable draw on the calendar. When no
// active uncompleted draw exists it schedules the next one at the
// configured weekday and hour with the base jackpot. Rollover from a
// completed draw stays an explicit operator step through the API.
type EnsureOpenDrawJob struct {
	cfg        *config.Config
	uowFactory interfaces.UnitOfWorkFactory
}

// NewEnsureOpenDrawJob creates the draw maintenance job
func NewEnsureOpenDrawJob(cfg *config.Config, uowFactory interfaces.UnitOfWorkFactory) *EnsureOpenDrawJob {
	return &EnsureOpenDrawJob{cfg: cfg, uowFactory: uowFactory}
}

// Run is the cron Job interface method
func (j *EnsureOpenDrawJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("draw maintenance: failed to begin transaction")
		return
	}
	defer uow.Rollback()

	active, err := uow.DrawRepository().ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("draw maintenance: failed to list active draws")
		return
	}
	if len(active) > 0 {
		return
	}

	drawNumber, err := uow.DrawRepository().NextDrawNumber(ctx)
	if err != nil {
		log.WithError(err).Error("draw maintenance: failed to get next draw number")
		return
	}

	drawTime := NextDrawTime(time.Now().UTC(), j.cfg.DrawWeekday, j.cfg.DrawHourUTC)

	drawService := services.NewDrawService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.UserRepository(),
		uow.TransactionRepository(),
		j.cfg.Rules(),
	)
	draw, err := drawService.CreateDraw(ctx, drawNumber, drawTime, j.cfg.JackpotBase)
	if err != nil {
		log.WithError(err).Error("draw maintenance: failed to create draw")
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("draw maintenance: failed to commit")
		return
	}

	log.WithFields(log.Fields{
		"drawNumber": draw.DrawNumber,
		"drawTime":   draw.DrawTime,
		"jackpot":    draw.Jackpot,
	}).Info("scheduled next draw")
}

// NextDrawTime returns the next occurrence of the configured weekday and
// hour strictly after now.
func NextDrawTime(now time.Time, weekday time.Weekday, hourUTC int) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, daysAhead)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
