package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/draft"
	"github.com/jamesfeng2009/forecastdesk/internal/idempotency"
	"go.uber.org/zap"
)

// Session is one caller's pipeline state. Every entry point holds mu for
// its whole run, so calls on one session are serialized while separate
// sessions proceed independently.
type Session struct {
	desk *Desk

	mu    sync.Mutex
	draft *draft.Accumulator
	cache idempotency.Store
	last  *domain.LastOrder
}

var _ app.Session = (*Session)(nil)

// detailError attaches envelope extras to an error.
type detailError struct {
	err   error
	extra map[string]any
}

func (e *detailError) Error() string { return e.err.Error() }
func (e *detailError) Unwrap() error { return e.err }

func withDetail(err error, extra map[string]any) error {
	return &detailError{err: err, extra: extra}
}

// run executes one entry point under the session lock and converts its
// outcome into an envelope. A panic is reported as an internal error.
func (s *Session) run(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (env contract.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var (
		data any
		err  error
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: internal error: %v", name, r)
			s.desk.logger.Error("entry point panicked", zap.String("entry_point", name), zap.Any("panic", r), zap.Stack("stack"))
			env = contract.FromError(err, nil)
		}
		event := UseCaseEvent{
			Name:      name,
			Duration:  time.Since(start),
			Success:   err == nil,
			Err:       err,
			StartedAt: start,
		}
		if err == nil {
			event.Fields = eventFields(data)
		}
		s.desk.observer.ObserveUseCase(ctx, event)
	}()

	data, err = fn(ctx)
	if err != nil {
		var de *detailError
		var extra map[string]any
		if errors.As(err, &de) {
			extra = de.extra
		}
		return contract.FromError(err, extra)
	}
	return contract.Success(data)
}

func eventFields(data any) map[string]any {
	sub, ok := data.(domain.Submission)
	if !ok {
		return nil
	}
	return map[string]any{
		"request_id":        sub.RequestID,
		"idempotent_replay": sub.IdempotentReplay,
		"order_id":          sub.OrderID,
	}
}

// LastOrder returns a copy of the last order snapshot, or nil.
func (s *Session) LastOrder() *domain.LastOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	l := *s.last
	return &l
}
