package cleanup

import (
	"context"
	"log"
	"time"
)

type TableCleaner interface {
	CleanupIdleTables(ttl time.Duration) []string
}

// TableNotifier tells connected clients their table is gone
type TableNotifier interface {
	CloseTable(tableID string, reason string)
}

type AddressPruner interface {
	CleanupOldAddresses(ctx context.Context, daysToKeep int) (int64, error)
}

type Worker struct {
	Tables    TableCleaner
	Notifier  TableNotifier // Optional, can be nil
	Addresses AddressPruner // Optional, can be nil

	Interval   time.Duration
	TableTTL   time.Duration
	DaysToKeep int
}

func NewWorker(tables TableCleaner, notifier TableNotifier, addresses AddressPruner, interval, tableTTL time.Duration, daysToKeep int) *Worker {
	return &Worker{
		Tables:     tables,
		Notifier:   notifier,
		Addresses:  addresses,
		Interval:   interval,
		TableTTL:   tableTTL,
		DaysToKeep: daysToKeep,
	}
}

// Run cleans up once immediately and then every Interval until ctx is done
func (w *Worker) Run(ctx context.Context) {
	log.Println("[CLEANUP] Background worker started")
	w.runCleanup(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup(ctx)
		}
	}
}

func (w *Worker) runCleanup(ctx context.Context) {
	removed := w.Tables.CleanupIdleTables(w.TableTTL)
	if w.Notifier != nil {
		for _, tableID := range removed {
			w.Notifier.CloseTable(tableID, "table closed after inactivity")
		}
	}

	if w.Addresses == nil || w.DaysToKeep <= 0 {
		return
	}
	deletedCount, err := w.Addresses.CleanupOldAddresses(ctx, w.DaysToKeep)
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up saved addresses: %v", err)
	} else if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d old addresses from database", deletedCount)
	}
}
