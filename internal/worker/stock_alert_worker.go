package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/sse"
)

// LowStockLister returns products currently below their minimum stock.
type LowStockLister interface {
	BelowMinimum(ctx context.Context) ([]models.Product, error)
}

// StockAlertWorker periodically scans for products below their minimum
// stock and broadcasts alerts to connected SSE clients.
type StockAlertWorker struct {
	products LowStockLister
	notifier sse.StockNotifier
	interval time.Duration
}

// NewStockAlertWorker constructs a StockAlertWorker.
func NewStockAlertWorker(products LowStockLister, notifier sse.StockNotifier, interval time.Duration) *StockAlertWorker {
	return &StockAlertWorker{
		products: products,
		notifier: notifier,
		interval: interval,
	}
}

// Start begins the periodic scan loop until context is canceled.
func (w *StockAlertWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting stock alert worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Stock alert worker stopped")
			return
		}
	}
}

func (w *StockAlertWorker) run(ctx context.Context) {
	low, err := w.products.BelowMinimum(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to scan for low stock")
		return
	}
	if len(low) == 0 {
		return
	}
	log.Info().Int("count", len(low)).Msg("Products below minimum stock")

	for i := range low {
		select {
		case <-ctx.Done():
			return
		default:
			w.notifier.NotifyLowStock(&low[i])
		}
	}
}
