package cron

import (
	"context"
	"fmt"

	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type expiredCouponDeactivator interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// CouponExpiryJobParams configure the coupon sweep.
type CouponExpiryJobParams struct {
	Logger  *logger.Logger
	Coupons expiredCouponDeactivator
}

type couponExpiryJob struct {
	logg    *logger.Logger
	coupons expiredCouponDeactivator
}

// NewCouponExpiryJob builds the job that flips expired coupons inactive, so
// the storefront stops accepting them without waiting for a validation call.
func NewCouponExpiryJob(params CouponExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &couponExpiryJob{logg: params.Logger, coupons: params.Coupons}, nil
}

func (j *couponExpiryJob) Name() string { return "coupon-expiry" }

func (j *couponExpiryJob) Run(ctx context.Context) error {
	count, err := j.coupons.DeactivateExpired(ctx)
	if err != nil {
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "count", count)
	j.logg.Info(logCtx, "coupon expiry sweep complete")
	return nil
}
