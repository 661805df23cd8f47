package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/jamesfeng2009/forecastdesk/internal/backend/sandbox"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- LastOrderReference ---

func TestLastOrderReference(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	detail := requireKind(t, h.session.LastOrderReference(ctx), domain.KindNotFound)
	assert.Equal(t, "Create an order first", detail.Hint)

	sub := requireSubmission(t, h.session.SubmitFromText(ctx, testutil.FullOrderText))
	data := requireData(t, h.session.LastOrderReference(ctx))
	last := data["last_order"].(domain.LastOrder)
	assert.Equal(t, "T1", last.CustomerNumber)
	assert.Equal(t, sub.OrderID, last.SystemNumber)
	assert.Equal(t, sub.TrackingID, last.WaybillNumber)
}

func TestLastOrder_ReplayDoesNotOverwrite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := requireSubmission(t, h.session.SubmitFromText(ctx, testutil.FullOrderText))
	requireSubmission(t, h.session.SubmitFromText(ctx, testutil.OrderText("T2")))
	requireSubmission(t, h.session.SubmitFromText(ctx, testutil.FullOrderText))

	last := h.session.LastOrder()
	assert.Equal(t, "T2", last.CustomerNumber)
	assert.NotEqual(t, first.OrderID, last.SystemNumber)
}

// --- QueryStatus ---

func TestQueryStatus_Fixture(t *testing.T) {
	h := newHarness(t)
	for _, n := range []string{"12345", "#12345"} {
		data := requireData(t, h.session.QueryStatus(context.Background(), n))
		assert.Equal(t, "12345", data["waybillnumber"])
		raw := data["raw"].(*domain.TrackResult)
		assert.Len(t, raw.Events, 3)
	}
}

func TestQueryStatus_SystemNumberOfLastOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := requireSubmission(t, h.session.SubmitFromText(ctx, testutil.FullOrderText))

	data := requireData(t, h.session.QueryStatus(ctx, sub.OrderID))
	assert.Equal(t, sub.TrackingID, data["waybillnumber"])
	raw := data["raw"].(*domain.TrackResult)
	assert.Equal(t, sub.OrderID, raw.SystemNumber)
}

func TestQueryStatus_InvalidNumber(t *testing.T) {
	h := newHarness(t)
	detail := requireKind(t, h.session.QueryStatus(context.Background(), "SYS-unknown"), domain.KindNotFound)
	assert.Equal(t, "invalid order number", detail.Message)
	assert.Contains(t, detail.Hint, "waybillnumber")
	assert.Equal(t, "SYS-unknown", detail.Extra["input"])
	require.IsType(t, &domain.TrackResult{}, detail.Extra["raw"])
}

func TestQueryStatus_Blank(t *testing.T) {
	h := newHarness(t)
	for _, n := range []string{"", " # "} {
		detail := requireKind(t, h.session.QueryStatus(context.Background(), n), domain.KindMissingRequiredField)
		assert.Equal(t, "order_no", detail.Field)
	}
}

func TestQueryStatus_BackendError(t *testing.T) {
	h := newHarness(t)
	h.api.trackFn = func(context.Context, string) (*domain.TrackResult, error) {
		return nil, assert.AnError
	}
	detail := requireKind(t, h.session.QueryStatus(context.Background(), "12345"), domain.KindBackendCallFailed)
	assert.Equal(t, assert.AnError.Error(), detail.Reason)
}

// --- QueryLastOrderStatus / GetWaybillNumbers ---

func TestQueryLastOrderStatus_NoOrder(t *testing.T) {
	h := newHarness(t)
	requireKind(t, h.session.QueryLastOrderStatus(context.Background()), domain.KindNotFound)
}

func TestQueryLastOrderStatus_Tracks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := requireSubmission(t, h.session.SubmitFromText(ctx, testutil.FullOrderText))

	data := requireData(t, h.session.QueryLastOrderStatus(ctx))
	assert.Equal(t, sub.TrackingID, data["waybillnumber"])
}

func TestDeferredWaybill_Lifecycle(t *testing.T) {
	h := newHarness(t, func(c *sandbox.Config) { c.DeferWaybill = true })
	ctx := context.Background()

	sub := requireSubmission(t, h.session.SubmitFromText(ctx, testutil.FullOrderText))
	assert.True(t, sub.WaybillPending)
	assert.Empty(t, sub.TrackingID)

	detail := requireKind(t, h.session.QueryLastOrderStatus(ctx), domain.KindNotFound)
	assert.Equal(t, "last order has no waybillnumber", detail.Message)
	assert.Contains(t, detail.Hint, "get_waybillnumbers")
	require.IsType(t, domain.LastOrder{}, detail.Extra["last_order"])

	data := requireData(t, h.session.GetWaybillNumbers(ctx, []string{"T1"}))
	recs := data["waybills"].([]domain.WaybillRecord)
	require.Len(t, recs, 1)
	require.NotEmpty(t, recs[0].WaybillNumber)
	assert.Equal(t, recs[0].WaybillNumber, h.session.LastOrder().WaybillNumber)

	status := requireData(t, h.session.QueryLastOrderStatus(ctx))
	assert.Equal(t, recs[0].WaybillNumber, status["waybillnumber"])
}

func TestGetWaybillNumbers_InputShapes(t *testing.T) {
	obj, err := json.Marshal(map[string]any{"customernumber": []string{"T1"}})
	require.NoError(t, err)

	cases := []struct {
		name  string
		input any
	}{
		{"string slice", []string{"T1", " "}},
		{"any slice", []any{"T1", nil}},
		{"object", map[string]any{"customernumber": []any{"T1"}}},
		{"json list", `["T1"]`},
		{"json object", string(obj)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			requireSubmission(t, h.session.SubmitFromText(context.Background(), testutil.FullOrderText))

			data := requireData(t, h.session.GetWaybillNumbers(context.Background(), tc.input))
			recs := data["waybills"].([]domain.WaybillRecord)
			require.Len(t, recs, 1)
			assert.Equal(t, "T1", recs[0].CustomerNumber)
			assert.NotEmpty(t, recs[0].WaybillNumber)
		})
	}
}

func TestGetWaybillNumbers_EmptyInput(t *testing.T) {
	h := newHarness(t)
	for _, in := range []any{nil, "", []string{}, `"T1"`, map[string]any{}} {
		detail := requireKind(t, h.session.GetWaybillNumbers(context.Background(), in), domain.KindMissingRequiredField)
		assert.Equal(t, "customernumber is required", detail.Message)
		assert.NotEmpty(t, detail.Hint)
	}
}

func TestGetWaybillNumbers_InvalidJSON(t *testing.T) {
	h := newHarness(t)
	detail := requireKind(t, h.session.GetWaybillNumbers(context.Background(), "[T1"), domain.KindMalformedInput)
	assert.NotEmpty(t, detail.Hint)
}

// --- ListOptions ---

func TestListOptions(t *testing.T) {
	h := newHarness(t)
	data := requireData(t, h.session.ListOptions(context.Background(), "currency"))
	assert.Equal(t, backend.DictCurrency, data["dictionary"])
	opts := data["options"].([]domain.ReferenceOption)
	assert.Len(t, opts, 3)
}

func TestListOptions_Unknown(t *testing.T) {
	h := newHarness(t)
	detail := requireKind(t, h.session.ListOptions(context.Background(), "colours"), domain.KindInvalidSelection)
	assert.Len(t, detail.Candidates, len(backend.Dictionaries))
	assert.Contains(t, detail.Candidates, "insurance")
}
