package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/jamesfeng2009/forecastdesk/internal/backend/sandbox"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI delegates to a sandbox unless a hook overrides the call, and
// counts creation attempts.
type fakeAPI struct {
	backend.LogisticsAPI

	creates  atomic.Int32
	createFn func(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResult, error)
	trackFn  func(ctx context.Context, waybill string) (*domain.TrackResult, error)
}

func (f *fakeAPI) CreateForecastOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResult, error) {
	f.creates.Add(1)
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return f.LogisticsAPI.CreateForecastOrder(ctx, req)
}

func (f *fakeAPI) Track(ctx context.Context, waybill string) (*domain.TrackResult, error) {
	if f.trackFn != nil {
		return f.trackFn(ctx, waybill)
	}
	return f.LogisticsAPI.Track(ctx, waybill)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type harness struct {
	desk     *Desk
	session  *Session
	api      *fakeAPI
	observer *recordingObserver
}

func newHarness(t *testing.T, mutate ...func(*sandbox.Config)) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	cfg := sandbox.DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	sb, err := sandbox.New(database, testutil.NewTestUoW(database), cfg, zap.NewNop())
	require.NoError(t, err)

	api := &fakeAPI{LogisticsAPI: sb}
	obs := &recordingObserver{}
	desk := NewDesk(api, sb.Authorization(), WithObserver(obs))
	return &harness{desk: desk, session: desk.NewSession(), api: api, observer: obs}
}

func requireSubmission(t *testing.T, env contract.Envelope) domain.Submission {
	t.Helper()
	require.True(t, env.OK(), "unexpected error: %+v", env.Error)
	sub, ok := env.Data.(domain.Submission)
	require.True(t, ok, "data is %T", env.Data)
	return sub
}

func requireData(t *testing.T, env contract.Envelope) map[string]any {
	t.Helper()
	require.True(t, env.OK(), "unexpected error: %+v", env.Error)
	m, ok := env.Data.(map[string]any)
	require.True(t, ok, "data is %T", env.Data)
	return m
}

func requireKind(t *testing.T, env contract.Envelope, kind domain.ErrorKind) *contract.ErrorDetail {
	t.Helper()
	require.False(t, env.OK(), "expected %s, got success: %+v", kind, env.Data)
	require.Equal(t, kind, env.ErrorKind(), "message: %s", env.Error.Message)
	return env.Error
}
