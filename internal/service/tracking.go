package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

const (
	hintCreateOrderFirst = "Create an order first"
	hintTrackByWaybill   = "track expects waybillnumber; if you only have systemnumber, call get_last_order_reference or query_last_order_status"
	hintWaybillInput     = `Pass a list like ["T620200611-1001"] or JSON like {"customernumber":["T..."]}`
)

// LastOrderReference returns the identifiers of the most recent order.
func (s *Session) LastOrderReference(ctx context.Context) contract.Envelope {
	return s.run(ctx, "last_order_reference", func(context.Context) (any, error) {
		if s.last == nil {
			return nil, domain.NotFound("no last order", hintCreateOrderFirst)
		}
		return map[string]any{"last_order": *s.last}, nil
	})
}

// QueryStatus tracks a waybill. A leading "#" is ignored, and the last
// order's system number is accepted in place of its waybill.
func (s *Session) QueryStatus(ctx context.Context, number string) contract.Envelope {
	return s.run(ctx, "query_status", func(ctx context.Context) (any, error) {
		return s.track(ctx, number)
	})
}

// QueryLastOrderStatus tracks the most recent order.
func (s *Session) QueryLastOrderStatus(ctx context.Context) contract.Envelope {
	return s.run(ctx, "query_last_order_status", func(ctx context.Context) (any, error) {
		if s.last == nil {
			return nil, domain.NotFound("no last order", hintCreateOrderFirst)
		}
		if s.last.WaybillNumber == "" {
			return nil, withDetail(
				domain.NotFound("last order has no waybillnumber", "Call get_waybillnumbers with the order's customernumber"),
				map[string]any{"last_order": *s.last},
			)
		}
		return s.track(ctx, s.last.WaybillNumber)
	})
}

func (s *Session) track(ctx context.Context, input string) (any, error) {
	number := strings.TrimPrefix(strings.TrimSpace(input), "#")
	if number == "" {
		return nil, domain.MissingField("order_no", "order number is required")
	}
	if strings.HasPrefix(number, "SYS") && s.last != nil &&
		s.last.SystemNumber == number && s.last.WaybillNumber != "" {
		number = s.last.WaybillNumber
	}

	res, err := s.desk.api.Track(ctx, number)
	if err != nil {
		return nil, domain.BackendFailed("failed to query order status", err)
	}
	if res.Invalid || res.ErrorMessage != "" {
		nf := domain.NotFound("invalid order number", hintTrackByWaybill)
		return nil, withDetail(nf, map[string]any{"input": input, "raw": res})
	}
	return map[string]any{"waybillnumber": number, "raw": res}, nil
}

// GetWaybillNumbers resolves customer references to waybills. A waybill
// assigned to the last order after creation is recorded on it.
func (s *Session) GetWaybillNumbers(ctx context.Context, input any) contract.Envelope {
	return s.run(ctx, "get_waybill_numbers", func(ctx context.Context) (any, error) {
		nums, err := parseCustomerNumbers(input)
		if err != nil {
			return nil, err
		}
		if len(nums) == 0 {
			mf := domain.MissingField("customernumber", "customernumber is required")
			mf.Hint = hintWaybillInput
			return nil, mf
		}
		recs, err := s.desk.api.WaybillNumbers(ctx, nums)
		if err != nil {
			return nil, domain.BackendFailed("failed to get waybillnumbers", err)
		}
		for _, r := range recs {
			if s.last != nil && s.last.WaybillNumber == "" && r.WaybillNumber != "" &&
				r.CustomerNumber == s.last.CustomerNumber {
				s.last.WaybillNumber = r.WaybillNumber
			}
		}
		return map[string]any{"waybills": recs}, nil
	})
}

func parseCustomerNumbers(input any) ([]string, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case []string:
		return nonBlank(v), nil
	case []any:
		return stringify(v), nil
	case map[string]any:
		list, _ := v["customernumber"].([]any)
		return stringify(list), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			mf := domain.Malformed("customernumber must be a JSON list or object", err)
			mf.Hint = hintWaybillInput
			return nil, mf
		}
		if _, isString := parsed.(string); isString {
			return nil, nil
		}
		return parseCustomerNumbers(parsed)
	default:
		return nil, nil
	}
}

func stringify(vals []any) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v == nil {
			continue
		}
		if s := fmt.Sprint(v); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonBlank(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// ListOptions returns one reference dictionary.
func (s *Session) ListOptions(ctx context.Context, dictionary string) contract.Envelope {
	return s.run(ctx, "list_options", func(ctx context.Context) (any, error) {
		dict, err := backend.ParseDictionary(strings.TrimSpace(dictionary))
		if err != nil {
			names := make([]string, len(backend.Dictionaries))
			for i, d := range backend.Dictionaries {
				names[i] = string(d)
			}
			return nil, &domain.Error{
				Kind:       domain.KindInvalidSelection,
				Message:    fmt.Sprintf("unknown dictionary: %s", dictionary),
				Field:      "dictionary",
				Candidates: names,
			}
		}
		opts, err := s.desk.options(ctx, dict)
		if err != nil {
			return nil, err
		}
		return map[string]any{"dictionary": dict, "options": opts}, nil
	})
}
