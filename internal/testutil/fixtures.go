package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

var customerCounter atomic.Int64

// Order texts shared across packages.
const (
	// FullOrderText describes a complete order without insurance.
	FullOrderText = "从深圳到洛杉矶；customernumber1=T1；consignee_countrycode=US；收件人=John；收件地址=1 Main St；城市=LA；邮编=90001；省州=CA"
	// RewordedOrderText carries the same fields as FullOrderText in a
	// different order and with different labels.
	RewordedOrderText = "收件人：John\n从 深圳 到 洛杉矶\ncountry=us\nconsigneeaddress1=1 Main St\nconsigneecity=LA\nZIP=90001\nconsigneeprovince=CA\n客户参考号：T1"
	// RouteOnlyText carries just the origin and destination.
	RouteOnlyText = "从深圳到洛杉矶"
	// ConsigneeText carries every required field except the route.
	ConsigneeText = "customernumber1=T1；consignee_countrycode=US；收件人=John；收件地址=1 Main St；城市=LA；邮编=90001；省州=CA"
	// InsuredOrderText is FullOrderText with insurance enabled.
	InsuredOrderText = FullOrderText + "；投保=是；保额=200；险种=货物运输险；币别=美元"
)

// OrderText builds a complete order text for a unique customer reference.
func OrderText(customer string) string {
	return strings.Replace(FullOrderText, "customernumber1=T1", "customernumber1="+customer, 1)
}

// UniqueCustomer returns a fresh customer reference.
func UniqueCustomer() string {
	return fmt.Sprintf("T-%04d", customerCounter.Add(1))
}

// OrderFieldsOption customizes NewTestOrderFields.
type OrderFieldsOption func(*domain.OrderFields)

func WithCustomer(c string) OrderFieldsOption {
	return func(f *domain.OrderFields) { f.CustomerNumber1 = domain.Ptr(c) }
}

func WithInsurance(value float64, typeName, currency string) OrderFieldsOption {
	return func(f *domain.OrderFields) {
		f.InsuranceEnabled = domain.Ptr(true)
		f.InsuranceValue = domain.Ptr(value)
		f.InsuranceTypeName = domain.Ptr(typeName)
		f.InsuranceCurrencyCode = domain.Ptr(currency)
	}
}

func WithoutField(key string) OrderFieldsOption {
	return func(f *domain.OrderFields) {
		switch key {
		case domain.FieldOriginCity:
			f.OriginCity = nil
		case domain.FieldDestinationCity:
			f.DestinationCity = nil
		case domain.FieldCustomerNumber1:
			f.CustomerNumber1 = nil
		case domain.FieldConsigneeCountryCode:
			f.ConsigneeCountryCode = nil
		case domain.FieldConsigneeName:
			f.ConsigneeName = nil
		case domain.FieldConsigneeAddress1:
			f.ConsigneeAddress1 = nil
		case domain.FieldConsigneeCity:
			f.ConsigneeCity = nil
		case domain.FieldConsigneeZipCode:
			f.ConsigneeZipCode = nil
		case domain.FieldConsigneeProvince:
			f.ConsigneeProvince = nil
		}
	}
}

// NewTestOrderFields returns the fields of FullOrderText.
func NewTestOrderFields(opts ...OrderFieldsOption) domain.OrderFields {
	f := domain.OrderFields{
		OriginCity:           domain.Ptr("深圳"),
		DestinationCity:      domain.Ptr("洛杉矶"),
		CustomerNumber1:      domain.Ptr("T1"),
		ConsigneeCountryCode: domain.Ptr("US"),
		ConsigneeName:        domain.Ptr("John"),
		ConsigneeAddress1:    domain.Ptr("1 Main St"),
		ConsigneeCity:        domain.Ptr("LA"),
		ConsigneeZipCode:     domain.Ptr("90001"),
		ConsigneeProvince:    domain.Ptr("CA"),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// ForecastOrderOption customizes NewTestForecastOrder.
type ForecastOrderOption func(*domain.ForecastOrder)

func WithWaybill(w string) ForecastOrderOption {
	return func(o *domain.ForecastOrder) { o.WaybillNumber = w }
}

func WithChildren(n int) ForecastOrderOption {
	return func(o *domain.ForecastOrder) {
		o.Children = nil
		for i := 1; i <= n; i++ {
			o.Children = append(o.Children, domain.ChildShipment{
				CustomerNumber: fmt.Sprintf("%s-%d", o.CustomerNumber, i),
				SystemNumber:   fmt.Sprintf("%s-%d", o.SystemNumber, i),
				TrackNumber:    fmt.Sprintf("1Z%s%d", o.SystemNumber, i),
			})
		}
	}
}

// NewTestForecastOrder returns a stored-order fixture with one child.
func NewTestForecastOrder(customer string, opts ...ForecastOrderOption) *domain.ForecastOrder {
	o := &domain.ForecastOrder{
		SystemNumber:    "SYS" + customer,
		CustomerNumber:  customer,
		WaybillNumber:   "EV" + customer + "CN",
		ChannelID:       "HK_TNT",
		CountryCode:     "US",
		OriginCity:      "深圳",
		DestinationCity: "洛杉矶",
		Payload:         &domain.OrderPayload{Authorization: &domain.Authorization{Code: "KJHB", Token: "mock-token"}},
		CreatedAt:       time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC),
	}
	WithChildren(1)(o)
	for _, opt := range opts {
		opt(o)
	}
	return o
}
