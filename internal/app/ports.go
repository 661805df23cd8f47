// Package app declares the entry points the CLI and HTTP surfaces drive.
// Every call returns a contract.Envelope; failures never escape as errors.
package app

import (
	"context"

	"github.com/jamesfeng2009/forecastdesk/internal/contract"
)

// DraftOptions modifies AccumulateDraft. Reset clears the draft before the
// text is merged; AutoSubmit submits as soon as the draft is ready.
type DraftOptions struct {
	Reset      bool
	AutoSubmit bool
}

type OrderUseCase interface {
	SubmitFromText(ctx context.Context, text string) contract.Envelope
	// SubmitOrder accepts a map, a domain.OrderFields or a JSON string
	// (optionally JSON-encoded twice).
	SubmitOrder(ctx context.Context, order any) contract.Envelope
	SubmitOrderJSON(ctx context.Context, orderJSON string) contract.Envelope
	BuildPayload(ctx context.Context, order any) contract.Envelope
}

type DraftUseCase interface {
	AccumulateDraft(ctx context.Context, text string, opts DraftOptions) contract.Envelope
	SubmitDraft(ctx context.Context) contract.Envelope
	ResetDraft(ctx context.Context) contract.Envelope
	DraftStatus(ctx context.Context) contract.Envelope
}

type TrackingUseCase interface {
	LastOrderReference(ctx context.Context) contract.Envelope
	QueryStatus(ctx context.Context, number string) contract.Envelope
	QueryLastOrderStatus(ctx context.Context) contract.Envelope
	// GetWaybillNumbers accepts a string slice or a JSON list / object of
	// customer references.
	GetWaybillNumbers(ctx context.Context, input any) contract.Envelope
}

type ReferenceUseCase interface {
	ListOptions(ctx context.Context, dictionary string) contract.Envelope
}

// Session is one caller's view of the pipeline: its draft, idempotency
// cache and last order are private to it.
type Session interface {
	OrderUseCase
	DraftUseCase
	TrackingUseCase
	ReferenceUseCase
}

// SessionFactory opens a fresh session.
type SessionFactory func() Session
