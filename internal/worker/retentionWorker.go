package worker

import (
	"context"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/internal/service"

	"github.com/sirupsen/logrus"
)

// EventRetentionWorker periodically deletes events whose date passed more
// than maxAge ago. Explicit deletes stay the primary path; this only sweeps
// leftovers.
type EventRetentionWorker struct {
	eventService service.EventService
	interval     time.Duration
	maxAge       time.Duration
}

func NewEventRetentionWorker(eventService service.EventService, interval, maxAge time.Duration) *EventRetentionWorker {
	return &EventRetentionWorker{
		eventService: eventService,
		interval:     interval,
		maxAge:       maxAge,
	}
}

func (w *EventRetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Event retention worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Event retention worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *EventRetentionWorker) sweep(ctx context.Context) {
	pruned, err := w.eventService.PruneFinishedEvents(ctx, w.maxAge)
	if err != nil {
		logrus.Errorf("Failed to prune finished events: %v", err)
		return
	}

	if pruned > 0 {
		logrus.Infof("Pruned %d finished events", pruned)
	}
}
