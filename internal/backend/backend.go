// Package backend defines the port to the logistics booking service.
package backend

import (
	"context"
	"fmt"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

// Dictionary names one reference list exposed by the backend.
type Dictionary string

const (
	DictInsurance    Dictionary = "insurance"
	DictCurrency     Dictionary = "currency"
	DictDeclareType  Dictionary = "declare_type"
	DictProductType  Dictionary = "product_type"
	DictCustomsType  Dictionary = "customs_type"
	DictTermsOfSale  Dictionary = "terms_of_sale"
	DictExportReason Dictionary = "export_reason"
)

// Dictionaries lists every known dictionary in display order.
var Dictionaries = []Dictionary{
	DictInsurance, DictCurrency, DictDeclareType, DictProductType,
	DictCustomsType, DictTermsOfSale, DictExportReason,
}

// ParseDictionary maps a user-supplied name to a Dictionary.
func ParseDictionary(s string) (Dictionary, error) {
	for _, d := range Dictionaries {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dictionary %q", s)
}

// LogisticsAPI is what the order pipeline needs from the booking service.
// Implementations report transport failures as errors; business failures
// are carried in result codes.
type LogisticsAPI interface {
	Options(ctx context.Context, dict Dictionary) ([]domain.ReferenceOption, error)
	CreateForecastOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResult, error)
	WaybillNumbers(ctx context.Context, customerNumbers []string) ([]domain.WaybillRecord, error)
	Track(ctx context.Context, waybill string) (*domain.TrackResult, error)
}
