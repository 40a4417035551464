package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/msousapenha/clinica-crm/internal/inventory"
	jobmetrics "github.com/msousapenha/clinica-crm/internal/jobs"
)

// LowStockLister returns products at or below their minimum quantity.
type LowStockLister interface {
	LowStock(ctx context.Context) ([]inventory.Product, error)
}

// NewStockScanHandler builds the handler for the daily low stock sweep.
func NewStockScanHandler(lister LowStockLister, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeStockScan)
		products, err := lister.LowStock(ctx)
		if err != nil {
			return tracker.End(err)
		}
		for _, p := range products {
			logger.Warn("low stock",
				slog.Int64("produto_id", p.ID),
				slog.String("nome", p.Nome),
				slog.Float64("qtd", p.Qtd),
				slog.Float64("minimo", p.EstoqueMinimo))
		}
		metrics.SetLowStock(len(products))
		logger.Info("stock scan finished", slog.Int("em_falta", len(products)))
		return tracker.End(nil)
	}
}
