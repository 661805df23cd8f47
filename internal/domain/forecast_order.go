package domain

import "time"

// ForecastOrder is an order as recorded by the sandbox booking service.
// WaybillNumber is empty until the carrier assigns one.
type ForecastOrder struct {
	SystemNumber    string
	CustomerNumber  string
	WaybillNumber   string
	ChannelID       string
	CountryCode     string
	OriginCity      string
	DestinationCity string
	Payload         *OrderPayload
	Children        []ChildShipment
	CreatedAt       time.Time
}

// WaybillPending reports whether the carrier has not assigned a waybill yet.
func (o *ForecastOrder) WaybillPending() bool {
	return o.WaybillNumber == ""
}
