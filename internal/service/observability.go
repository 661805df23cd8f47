package service

import (
	"context"
	"sort"
	"time"

	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"go.uber.org/zap"
)

// UseCaseEvent captures lightweight execution telemetry for one entry-point
// call.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives entry-point execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type zapUseCaseObserver struct {
	logger *zap.Logger
}

// NewZapUseCaseObserver logs entry-point events through logger.
func NewZapUseCaseObserver(logger *zap.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &zapUseCaseObserver{logger: logger}
}

func (o *zapUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 4+len(event.Fields))
	fields = append(fields,
		zap.String("entry_point", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
	)
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, event.Fields[k]))
	}

	if event.Err == nil {
		o.logger.Info("entry_point", fields...)
		return
	}
	kind := domain.KindOf(event.Err)
	if kind == "" {
		kind = contract.KindInternal
	}
	fields = append(fields, zap.String("error_kind", string(kind)), zap.Error(event.Err))

	// Caller-correctable failures are expected traffic.
	switch kind {
	case domain.KindBackendCallFailed, contract.KindInternal:
		o.logger.Error("entry_point", fields...)
	default:
		o.logger.Warn("entry_point", fields...)
	}
}

func useCaseObserverOrNoop(observers ...UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
