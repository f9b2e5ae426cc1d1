// Package cron schedules background cache warming.
package cron

import (
	"context"

	"github.com/mileusna/crontab"
	"github.com/xy2yp/Artify/internal/usecase"
	"github.com/xy2yp/Artify/pkg/logger"
)

type Service struct {
	prompts *usecase.PromptUseCase
	logger  logger.Logger
}

func NewService(prompts *usecase.PromptUseCase, l logger.Logger) *Service {
	return &Service{
		prompts: prompts,
		logger:  l,
	}
}

// Start registers the warm job on the given schedule. A malformed schedule
// is reported, the service then runs without periodic warming; the warm
// itself never panics the scheduler goroutine.
func (s *Service) Start(ctx context.Context, ctab *crontab.Crontab, schedule string) {
	err := ctab.AddJob(schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("cache warm panicked", "panic", r)
			}
		}()
		s.prompts.Warm(ctx)
	})
	if err != nil {
		s.logger.Error("failed to register cache warm job", "schedule", schedule, "error", err)
		return
	}

	s.logger.Info("cache warm job registered", "schedule", schedule)
}
