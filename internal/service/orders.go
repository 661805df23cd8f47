package service

import (
	"context"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/canon"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/extract"
)

// excerptLen is how many characters of rejected text are echoed back.
const excerptLen = 500

// SubmitFromText extracts an order from free text and submits it. Every
// missing required field is reported at once, together with an excerpt of
// the text that was received.
func (s *Session) SubmitFromText(ctx context.Context, text string) contract.Envelope {
	return s.run(ctx, "submit_from_text", func(ctx context.Context) (any, error) {
		t := strings.TrimSpace(text)
		if t == "" {
			return nil, domain.Malformed("text is required", nil)
		}
		fields := extract.Extract(t)
		if missing := extract.RequiredMissing(fields); len(missing) > 0 {
			return nil, withDetail(
				domain.MissingFields("missing required fields from text", missing),
				map[string]any{"received_excerpt": excerpt(t)},
			)
		}
		return s.submit(ctx, fields)
	})
}

// SubmitOrder submits a structured order.
func (s *Session) SubmitOrder(ctx context.Context, order any) contract.Envelope {
	return s.run(ctx, "submit_order", func(ctx context.Context) (any, error) {
		return s.submitStructured(ctx, order)
	})
}

// SubmitOrderJSON submits an order given as a JSON string. An empty object
// is rejected with a hint, since it usually means the caller dropped the
// content.
func (s *Session) SubmitOrderJSON(ctx context.Context, orderJSON string) contract.Envelope {
	return s.run(ctx, "submit_order_json", func(ctx context.Context) (any, error) {
		switch canon.NormalizeText(orderJSON) {
		case "{}", "{ }":
			err := domain.Malformed("order_json is empty", nil)
			err.Hint = "Pass the full JSON object string (do not truncate or replace it with {})."
			return nil, err
		}
		return s.submitStructured(ctx, orderJSON)
	})
}

func (s *Session) submitStructured(ctx context.Context, order any) (any, error) {
	m, err := decodeOrder(order)
	if err != nil {
		return nil, err
	}
	if err := s.desk.checkRequired(m); err != nil {
		return nil, err
	}
	fields, err := fieldsFromMap(m)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, fields)
}

// BuildPayload resolves, builds and validates the payload for a structured
// order without submitting it.
func (s *Session) BuildPayload(ctx context.Context, order any) contract.Envelope {
	return s.run(ctx, "build_payload", func(ctx context.Context) (any, error) {
		m, err := decodeOrder(order)
		if err != nil {
			return nil, err
		}
		fields, err := fieldsFromMap(m)
		if err != nil {
			return nil, err
		}
		p, codes, err := s.desk.buildPayload(ctx, fields)
		if err != nil {
			return nil, err
		}
		return map[string]any{"payload": p, "codes": codes}, nil
	})
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen])
}
