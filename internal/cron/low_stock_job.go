package cron

import (
	"context"
	"fmt"

	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type lowStockLister interface {
	ListLowStock(ctx context.Context) ([]catalog.LowStockItem, error)
}

// LowStockJobParams configure the low stock report.
type LowStockJobParams struct {
	Logger  *logger.Logger
	Catalog lowStockLister
}

type lowStockJob struct {
	logg    *logger.Logger
	catalog lowStockLister
}

// NewLowStockJob builds the job that surfaces products at or below their low
// stock threshold in the worker logs.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &lowStockJob{logg: params.Logger, catalog: params.Catalog}, nil
}

func (j *lowStockJob) Name() string { return "low-stock" }

func (j *lowStockJob) Run(ctx context.Context) error {
	items, err := j.catalog.ListLowStock(ctx)
	if err != nil {
		return fmt.Errorf("list low stock products: %w", err)
	}
	for _, item := range items {
		itemCtx := j.logg.WithFields(ctx, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"stock":      item.Stock,
			"threshold":  item.Threshold,
		})
		j.logg.Warn(itemCtx, "product stock at or below threshold")
	}
	logCtx := j.logg.WithField(ctx, "count", len(items))
	j.logg.Info(logCtx, "low stock sweep complete")
	return nil
}
