package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nvolkov/brewhub-backend/internal/app/service"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

// OrderScheduler sweeps abandoned pending orders on a fixed schedule.
type OrderScheduler struct {
	cron         *cron.Cron
	orderService service.OrderService
	maxAge       time.Duration
}

func NewOrderScheduler(orderService service.OrderService, maxAge time.Duration) *OrderScheduler {
	return &OrderScheduler{
		cron:         cron.New(),
		orderService: orderService,
		maxAge:       maxAge,
	}
}

func (s *OrderScheduler) Start() error {
	// Hourly sweep: cancel pending orders older than the configured age
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting stale order sweep", nil)

		count, err := s.orderService.CancelStalePending(s.maxAge)
		if err != nil {
			logger.Error("Stale order sweep failed", err)
			return
		}

		logger.Info("Stale order sweep finished", map[string]interface{}{
			"cancelled": count,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for stale order sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Order scheduler started (hourly sweep)", nil)
	return nil
}

func (s *OrderScheduler) Stop() {
	logger.Info("Stopping order scheduler...", nil)
	s.cron.Stop()
}
