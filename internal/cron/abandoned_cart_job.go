package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

const defaultCartRetention = 30 * 24 * time.Hour

type abandonedCartDeleter interface {
	DeleteAbandoned(ctx context.Context, cutoff time.Time) (int64, error)
}

// AbandonedCartJobParams configure the cart retention sweep.
type AbandonedCartJobParams struct {
	Logger    *logger.Logger
	Carts     abandonedCartDeleter
	Retention time.Duration
}

type abandonedCartJob struct {
	logg      *logger.Logger
	carts     abandonedCartDeleter
	retention time.Duration
	now       func() time.Time
}

// NewAbandonedCartJob builds the job that clears carts untouched for the
// retention window.
func NewAbandonedCartJob(params AbandonedCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCartRetention
	}
	return &abandonedCartJob{
		logg:      params.Logger,
		carts:     params.Carts,
		retention: retention,
		now:       time.Now,
	}, nil
}

func (j *abandonedCartJob) Name() string { return "abandoned-cart" }

func (j *abandonedCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	count, err := j.carts.DeleteAbandoned(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete abandoned carts: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "count", count)
	j.logg.Info(logCtx, "abandoned cart sweep complete")
	return nil
}
