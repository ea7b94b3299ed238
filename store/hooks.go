package store

import (
	"context"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/prometheus/client_golang/prometheus"

	"poolshop_server/lib"
)

var (
	ActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poolshop",
			Subsystem: "store",
			Name:      "action_duration_seconds",
			Help:      "Time spent applying store actions",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		},
		[]string{"action"},
	)

	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolshop",
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Dispatched store actions by outcome",
		},
		[]string{"action", "outcome"},
	)
)

// LoggingHook logs rejected actions and slow dispatches.
type LoggingHook struct {
	Logger        *gecho.Logger
	SlowThreshold time.Duration
}

func (h *LoggingHook) AfterDispatch(ctx context.Context, event *DispatchEvent) {
	if event.Err != nil {
		// Business rejections are expected; anything else deserves a warning
		if isRejection(event.Err) {
			h.Logger.Debug("Store action rejected",
				gecho.Field("action", event.Action.Name()),
				gecho.Field("error", event.Err))
		} else {
			h.Logger.Warn("Store action failed",
				gecho.Field("action", event.Action.Name()),
				gecho.Field("error", event.Err))
		}
	}

	if h.SlowThreshold > 0 && event.Duration > h.SlowThreshold {
		h.Logger.Warn("Slow store action detected",
			gecho.Field("action", event.Action.Name()),
			gecho.Field("duration", event.Duration))
	}
}

// MetricsHook feeds ActionDuration and ActionsTotal.
type MetricsHook struct{}

func (MetricsHook) AfterDispatch(ctx context.Context, event *DispatchEvent) {
	outcome := "ok"
	if event.Err != nil {
		outcome = "rejected"
	}
	ActionsTotal.WithLabelValues(event.Action.Name(), outcome).Inc()
	ActionDuration.WithLabelValues(event.Action.Name()).Observe(event.Duration.Seconds())
}

func isRejection(err error) bool {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range []error{
		lib.ErrNotFound, lib.ErrConflict, lib.ErrOrderLocked, lib.ErrInvoiceLocked,
		lib.ErrInvalidTransition, lib.ErrStatusUnchanged, lib.ErrInvalidStatus,
		lib.ErrSupplierInUse, lib.ErrUnknownSupplier, lib.ErrDuplicateSKU,
		lib.ErrInsufficientStock, lib.ErrProductInactive, lib.ErrCategoryCycle,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
