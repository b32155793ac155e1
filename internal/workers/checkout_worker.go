package workers

import (
	"context"
	"time"

	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/services"
)

// CheckoutWorker периодически выселяет гостей с истекшей датой выезда
// и выключает их комнаты чата.
type CheckoutWorker struct {
	checkInService services.CheckInService
	interval       time.Duration
}

func NewCheckoutWorker(checkInService services.CheckInService, interval time.Duration) *CheckoutWorker {
	return &CheckoutWorker{
		checkInService: checkInService,
		interval:       interval,
	}
}

// Start запускает фоновый сканер просроченных чек-инов
func (w *CheckoutWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CheckoutWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Checkout worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Checkout worker stopped")
			return
		case <-ticker.C:
			processed, err := w.checkInService.ProcessOverdue(time.Now())
			if err != nil {
				logger.WorkerLog("checkout", "process_overdue", err)
				continue
			}
			if processed > 0 {
				logger.Info("Processed overdue check-ins", "count", processed)
			}
		}
	}
}
