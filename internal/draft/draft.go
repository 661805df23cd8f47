// Package draft accumulates order fields supplied across several messages.
package draft

import (
	"context"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/extract"
)

// State is the lifecycle position of a draft.
type State string

const (
	StateEmpty        State = "empty"
	StateAccumulating State = "accumulating"
	StateReady        State = "ready"
)

// Snapshot is a read-only view of the draft with defaults applied.
type Snapshot struct {
	Fields  domain.OrderFields `json:"draft"`
	Missing []string           `json:"missing_fields"`
	Ready   bool               `json:"ready"`
	State   State              `json:"state"`
}

// SubmitFunc runs the full build, validate and submit pipeline for the
// draft's fields (defaults already applied).
type SubmitFunc func(ctx context.Context, fields domain.OrderFields) (domain.Submission, error)

// Accumulator holds one draft. It is not safe for concurrent use; callers
// serialize access per session.
type Accumulator struct {
	fields   domain.OrderFields
	defaults domain.Defaults
	extract  func(string) domain.OrderFields
}

// New creates an empty accumulator that readiness-checks against defaults.
func New(defaults domain.Defaults) *Accumulator {
	return &Accumulator{defaults: defaults, extract: extract.Extract}
}

// Accumulate extracts fields from text and merges every present value into
// the draft. Fields already in the draft are only replaced, never cleared.
func (a *Accumulator) Accumulate(text string) (Snapshot, error) {
	if strings.TrimSpace(text) == "" {
		return a.Snapshot(), domain.Malformed("text is required", nil)
	}
	a.fields.Merge(a.extract(text))
	return a.Snapshot(), nil
}

// Merge adds already-extracted fields to the draft.
func (a *Accumulator) Merge(f domain.OrderFields) Snapshot {
	a.fields.Merge(f)
	return a.Snapshot()
}

// Snapshot returns the current draft with defaults applied.
func (a *Accumulator) Snapshot() Snapshot {
	missing := a.Missing()
	s := Snapshot{
		Fields:  a.fields.WithDefaults(a.defaults),
		Missing: missing,
		Ready:   len(missing) == 0,
		State:   a.State(),
	}
	if s.Missing == nil {
		s.Missing = []string{}
	}
	return s
}

// State derives the lifecycle state from the held fields.
func (a *Accumulator) State() State {
	switch {
	case a.fields.IsEmpty():
		return StateEmpty
	case a.Ready():
		return StateReady
	default:
		return StateAccumulating
	}
}

// Ready reports whether every required field is present after defaults.
func (a *Accumulator) Ready() bool {
	return len(a.Missing()) == 0
}

// Missing lists absent required fields in fixed order.
func (a *Accumulator) Missing() []string {
	return a.fields.WithDefaults(a.defaults).MissingRequired()
}

// IsEmpty reports whether nothing has been accumulated.
func (a *Accumulator) IsEmpty() bool {
	return a.fields.IsEmpty()
}

// Fields returns a copy of the accumulated fields without defaults.
func (a *Accumulator) Fields() domain.OrderFields {
	return a.fields.Clone()
}

// Submit runs fn when the draft is ready. A draft that is not ready yields
// a MissingRequiredField error listing every missing field and is left as
// is. A successful submission clears the draft; a failed one keeps it.
func (a *Accumulator) Submit(ctx context.Context, fn SubmitFunc) (domain.Submission, error) {
	if a.IsEmpty() {
		return domain.Submission{}, domain.NotFound("no active draft", "accumulate order fields first")
	}
	if missing := a.Missing(); len(missing) > 0 {
		return domain.Submission{}, domain.MissingFields("draft is missing required fields", missing)
	}
	sub, err := fn(ctx, a.fields.WithDefaults(a.defaults))
	if err != nil {
		return domain.Submission{}, err
	}
	a.Reset()
	return sub, nil
}

// Reset discards every accumulated field.
func (a *Accumulator) Reset() {
	a.fields = domain.OrderFields{}
}
