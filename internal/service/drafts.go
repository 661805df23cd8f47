package service

import (
	"context"

	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

const hintNoDraftUseLastOrder = "No active draft. Use query_last_order_status to query the most recent order."

// AccumulateDraft merges the fields found in text into the session draft.
// The draft snapshot is returned until it is ready; with AutoSubmit a ready
// draft is submitted and, on success, cleared.
func (s *Session) AccumulateDraft(ctx context.Context, text string, opts app.DraftOptions) contract.Envelope {
	return s.run(ctx, "accumulate_draft", func(ctx context.Context) (any, error) {
		if opts.Reset {
			s.draft.Reset()
		}
		snap, err := s.draft.Accumulate(text)
		if err != nil {
			return nil, err
		}
		if !snap.Ready || !opts.AutoSubmit {
			return snap, nil
		}
		return s.draft.Submit(ctx, s.submit)
	})
}

// SubmitDraft submits the session draft. A draft that is not ready comes
// back with the missing fields and the draft itself. Without a draft it
// points the caller at the last order when there is one.
func (s *Session) SubmitDraft(ctx context.Context) contract.Envelope {
	return s.run(ctx, "submit_draft", func(ctx context.Context) (any, error) {
		if s.draft.IsEmpty() {
			if s.last != nil {
				return map[string]any{"last_order": *s.last, "hint": hintNoDraftUseLastOrder}, nil
			}
			return nil, domain.NotFound("no active draft", "Call update_forecast_order_draft first")
		}
		if !s.draft.Ready() {
			_, err := s.draft.Submit(ctx, s.submit)
			return nil, withDetail(err, map[string]any{"draft": s.draft.Snapshot().Fields})
		}
		return s.draft.Submit(ctx, s.submit)
	})
}

// ResetDraft discards the session draft.
func (s *Session) ResetDraft(ctx context.Context) contract.Envelope {
	return s.run(ctx, "reset_draft", func(context.Context) (any, error) {
		s.draft.Reset()
		return s.draft.Snapshot(), nil
	})
}

// DraftStatus returns the current draft snapshot.
func (s *Session) DraftStatus(ctx context.Context) contract.Envelope {
	return s.run(ctx, "draft_status", func(context.Context) (any, error) {
		return s.draft.Snapshot(), nil
	})
}
