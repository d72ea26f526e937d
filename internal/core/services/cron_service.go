package services

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// CronService wires the periodic jobs: captcha sweeping and the overdue
// alarm scan.
type CronService struct {
	cron    *cron.Cron
	captcha *CaptchaService
	alarms  *AlarmService
}

// NewCronService creates the scheduler with its jobs registered
func NewCronService(captcha *CaptchaService, alarms *AlarmService) (*CronService, error) {
	s := &CronService{
		cron:    cron.New(),
		captcha: captcha,
		alarms:  alarms,
	}

	if _, err := s.cron.AddFunc("@every 1m", s.captcha.Sweep); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc("@every 10m", func() {
		if err := s.alarms.Scan(context.Background()); err != nil {
			log.Error().Err(err).Msg("alarm scan failed")
		}
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the scheduler in its own goroutine.
func (s *CronService) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop waits for running jobs and stops the scheduler.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}
