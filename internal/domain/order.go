package domain

import "time"

// CreateOrderRequest is what the backend receives to create a forecast order.
type CreateOrderRequest struct {
	Payload         *OrderPayload
	OriginCity      string
	DestinationCity string
}

// ChildShipment is a sub-record of a created order.
type ChildShipment struct {
	CustomerNumber string `json:"customernumber"`
	SystemNumber   string `json:"systemnumber"`
	TrackNumber    string `json:"tracknumber"`
}

// CreatedOrder is the per-order part of a creation result.
type CreatedOrder struct {
	Code           int             `json:"code"`
	Message        string          `json:"msg"`
	CustomerNumber string          `json:"customernumber"`
	SystemNumber   string          `json:"systemnumber"`
	WaybillNumber  string          `json:"waybillnumber"`
	IsRemote       bool            `json:"isRemote"`
	Childs         []ChildShipment `json:"childs"`
	OriginCity     string          `json:"origin_city,omitempty"`
	Destination    string          `json:"destination_city,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateOrderResult is the backend's answer to a creation request.
// Code 0 means the call succeeded.
type CreateOrderResult struct {
	Code    int            `json:"code"`
	Message string         `json:"msg"`
	Data    []CreatedOrder `json:"data"`
}

// First returns the first created order, or nil.
func (r *CreateOrderResult) First() *CreatedOrder {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	return &r.Data[0]
}

// Succeeded reports whether both the call and the first order succeeded.
func (r *CreateOrderResult) Succeeded() bool {
	first := r.First()
	return r != nil && r.Code == 0 && first != nil && first.Code == 0
}

// WaybillRecord resolves a customer reference to its carrier waybill.
type WaybillRecord struct {
	CustomerNumber string `json:"customernumber"`
	SystemNumber   string `json:"systemnumber,omitempty"`
	WaybillNumber  string `json:"waybillnumber,omitempty"`
	Message        string `json:"msg,omitempty"`
}

// TrackEvent is one itinerary step.
type TrackEvent struct {
	Location     string `json:"location"`
	TrackDate    string `json:"trackdate"`
	Info         string `json:"info"`
	ResponseCode string `json:"responsecode"`
}

// TrackResult is the tracking answer for a waybill. Invalid is set when the
// backend does not know the number.
type TrackResult struct {
	SearchNumber    string       `json:"searchNumber"`
	SystemNumber    string       `json:"systemnumber,omitempty"`
	WaybillNumber   string       `json:"waybillnumber"`
	TrackNumber     string       `json:"tracknumber,omitempty"`
	CountryCode     string       `json:"countrycode,omitempty"`
	OrderStatus     string       `json:"orderstatus,omitempty"`
	OrderStatusName string       `json:"orderstatusName,omitempty"`
	Events          []TrackEvent `json:"trackItems,omitempty"`
	Invalid         bool         `json:"invalid,omitempty"`
	ErrorMessage    string       `json:"errormsg,omitempty"`
}

// Submission is the outcome of a successful order submission, as cached by
// the idempotency layer.
type Submission struct {
	RequestID        string             `json:"request_id"`
	IdempotentReplay bool               `json:"idempotent_replay"`
	OrderID          string             `json:"order_id,omitempty"`
	TrackingID       string             `json:"tracking_id"`
	ChildTrackingIDs []string           `json:"child_tracking_ids,omitempty"`
	WaybillPending   bool               `json:"waybill_pending"`
	RequestPayload   *OrderPayload      `json:"request_payload"`
	Result           *CreateOrderResult `json:"result"`
}

// LastOrder is the snapshot of the most recently created order.
type LastOrder struct {
	CustomerNumber string `json:"customernumber,omitempty"`
	SystemNumber   string `json:"systemnumber,omitempty"`
	WaybillNumber  string `json:"waybillnumber,omitempty"`
	Code           int    `json:"code"`
	Message        string `json:"msg,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

// Clone returns a deep copy of s.
func (s Submission) Clone() Submission {
	out := s
	out.ChildTrackingIDs = append([]string(nil), s.ChildTrackingIDs...)
	out.RequestPayload = s.RequestPayload.Clone()
	out.Result = s.Result.Clone()
	return out
}

// Clone returns a deep copy of r.
func (r *CreateOrderResult) Clone() *CreateOrderResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Data = make([]CreatedOrder, len(r.Data))
	for i, d := range r.Data {
		d.Childs = append([]ChildShipment(nil), d.Childs...)
		out.Data[i] = d
	}
	return &out
}
