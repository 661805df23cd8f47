package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/draft"
)

// FormatEnvelope renders an entry-point result for a terminal.
func FormatEnvelope(env contract.Envelope) string {
	if !env.OK() {
		return FormatError(env.Error)
	}
	switch v := env.Data.(type) {
	case domain.Submission:
		return FormatSubmission(v)
	case draft.Snapshot:
		return FormatDraft(v)
	case map[string]any:
		return formatMap(v)
	default:
		return RenderBox("Result", indentJSON(v))
	}
}

// FormatSubmission renders the identifiers of a created or replayed order.
func FormatSubmission(sub domain.Submission) string {
	title := "Order Created"
	if sub.IdempotentReplay {
		title = "Order Replayed"
	}
	waybill := sub.TrackingID
	if sub.WaybillPending {
		waybill = StyleYellow.Render("pending")
	}
	pairs := []KV{
		{"request", sub.RequestID},
		{"order", sub.OrderID},
		{"waybill", waybill},
		{"children", strings.Join(sub.ChildTrackingIDs, ", ")},
	}
	if p := sub.RequestPayload; p != nil && len(p.Datas) > 0 && p.Datas[0].Order != nil {
		o := p.Datas[0].Order
		pairs = append(pairs,
			KV{"customer", o.CustomerNumber1},
			KV{"channel", o.ChannelID},
			KV{"consignee", fmt.Sprintf("%s, %s %s %s", o.ConsigneeName, o.ConsigneeCity, o.ConsigneeProvince, o.CountryCode)},
		)
		if o.IsInsurance == "1" {
			pairs = append(pairs, KV{"insurance", o.InsuranceValue + " " + o.InsuranceCurrency})
		}
	}
	if sub.IdempotentReplay {
		pairs = append(pairs, KV{"note", Dim("served from cache, backend not called")})
	}
	return RenderBox(title, RenderKV(pairs))
}

// FormatDraft renders the accumulated fields and what is still missing.
func FormatDraft(s draft.Snapshot) string {
	fields := s.Fields.Map()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(fields[k])})
	}

	var b strings.Builder
	b.WriteString(RenderKV([]KV{{"state", string(s.State)}}))
	if len(rows) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"FIELD", "VALUE"}, rows))
	}
	if len(s.Missing) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render("missing: " + strings.Join(s.Missing, ", ")))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(StyleGreen.Render("ready to submit"))
		b.WriteString("\n")
	}
	return RenderBox("Draft", b.String())
}

// FormatError renders an error envelope.
func FormatError(d *contract.ErrorDetail) string {
	if d == nil {
		return RenderBox("Error", "unknown error")
	}
	pairs := []KV{
		{"kind", KindStyle(d.Kind).Render(string(d.Kind))},
		{"message", d.Message},
		{"field", d.Field},
		{"missing", strings.Join(d.MissingFields, ", ")},
		{"candidates", strings.Join(d.Candidates, ", ")},
		{"violations", strings.Join(d.ValidationErrors, "; ")},
		{"reason", d.Reason},
		{"hint", d.Hint},
	}
	if ex, ok := d.Extra["received_excerpt"].(string); ok {
		pairs = append(pairs, KV{"received", Dim(ex)})
	}
	return RenderBox("Error", RenderKV(pairs))
}

func formatMap(m map[string]any) string {
	switch {
	case m["waybills"] != nil:
		recs, _ := m["waybills"].([]domain.WaybillRecord)
		return formatWaybills(recs)
	case m["options"] != nil:
		opts, _ := m["options"].([]domain.ReferenceOption)
		return formatOptions(fmt.Sprint(m["dictionary"]), opts)
	case m["raw"] != nil:
		res, _ := m["raw"].(*domain.TrackResult)
		return formatTrack(res)
	case m["last_order"] != nil:
		last, _ := m["last_order"].(domain.LastOrder)
		hint, _ := m["hint"].(string)
		return formatLastOrder(last, hint)
	default:
		return RenderBox("Result", indentJSON(m))
	}
}

func formatTrack(res *domain.TrackResult) string {
	if res == nil {
		return RenderBox("Tracking", Dim("no result"))
	}
	var b strings.Builder
	b.WriteString(RenderKV([]KV{
		{"waybill", res.WaybillNumber},
		{"order", res.SystemNumber},
		{"status", strings.TrimSpace(res.OrderStatusName + " " + Dim(res.OrderStatus))},
		{"country", res.CountryCode},
	}))
	if len(res.Events) > 0 {
		rows := make([][]string, 0, len(res.Events))
		for _, e := range res.Events {
			rows = append(rows, []string{e.TrackDate, e.Location, e.Info})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"TIME", "LOCATION", "EVENT"}, rows))
	}
	return RenderBox("Tracking", b.String())
}

func formatWaybills(recs []domain.WaybillRecord) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		waybill := r.WaybillNumber
		if waybill == "" {
			waybill = StyleYellow.Render(r.Message)
		}
		rows = append(rows, []string{r.CustomerNumber, r.SystemNumber, waybill})
	}
	return RenderBox("Waybills", RenderTable([]string{"CUSTOMER", "ORDER", "WAYBILL"}, rows))
}

func formatOptions(dict string, opts []domain.ReferenceOption) string {
	rows := make([][]string, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, []string{o.Code, o.Label(), Dim(o.Note)})
	}
	return RenderBox(dict, RenderTable([]string{"CODE", "NAME", "NOTE"}, rows))
}

func formatLastOrder(last domain.LastOrder, hint string) string {
	out := RenderKV([]KV{
		{"customer", last.CustomerNumber},
		{"order", last.SystemNumber},
		{"waybill", last.WaybillNumber},
		{"request", last.RequestID},
	})
	if hint != "" {
		out += "\n" + Dim(hint) + "\n"
	}
	return RenderBox("Last Order", out)
}

func indentJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}
