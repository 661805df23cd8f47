// Package payload assembles and structurally checks createForecast request
// bodies.
package payload

import (
	"fmt"
	"strconv"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// Placeholder line item sent with every order. Real line items are not
// collected from users.
const (
	placeholderSKU      = "MOCK-SKU-001"
	placeholderCNName   = "物品"
	placeholderENName   = "item"
	placeholderQuantity = "1"
	placeholderUnit     = "PCS"
	placeholderPrice    = "1.00"
	placeholderWeight   = "0.1"
	placeholderOrigin   = "CN"
)

type requiredCheck struct {
	field   string
	message string
	value   func(f domain.OrderFields) *string
}

// buildChecks is the fixed order in which Build reports the first missing
// field.
var buildChecks = []requiredCheck{
	{domain.FieldCustomerNumber1, "customernumber1 is required", func(f domain.OrderFields) *string { return f.CustomerNumber1 }},
	{domain.FieldChannelID, "channelid is required", func(f domain.OrderFields) *string { return f.ChannelID }},
	{domain.FieldConsigneeCountryCode, "countrycode is required", func(f domain.OrderFields) *string { return f.ConsigneeCountryCode }},
	{domain.FieldConsigneeName, "consigneename is required", func(f domain.OrderFields) *string { return f.ConsigneeName }},
	{domain.FieldConsigneeAddress1, "consigneeaddress1 is required", func(f domain.OrderFields) *string { return f.ConsigneeAddress1 }},
	{domain.FieldConsigneeCity, "consigneecity is required", func(f domain.OrderFields) *string { return f.ConsigneeCity }},
	{domain.FieldConsigneeZipCode, "consigneezipcode is required", func(f domain.OrderFields) *string { return f.ConsigneeZipCode }},
	{domain.FieldConsigneeProvince, "consigneeprovince is required", func(f domain.OrderFields) *string { return f.ConsigneeProvince }},
}

// Build assembles the request body for one order. Omitted channel, weight
// and quantity take their defaults; an explicitly empty channel is still
// reported as missing. Insurance fields are attached only when insurance
// is enabled, in which case an insurance value is required.
func Build(fields domain.OrderFields, codes domain.ResolvedCodes, auth domain.Authorization, defaults domain.Defaults) (*domain.OrderPayload, error) {
	f := fields.WithDefaults(defaults)

	for _, c := range buildChecks {
		if domain.StrValue(c.value(f)) == "" {
			return nil, domain.MissingField(c.field, c.message)
		}
	}

	declareID, err := pkID(codes.DeclareType, "declaretypepkid")
	if err != nil {
		return nil, err
	}
	productID, err := pkID(codes.ProductType, "producttypepkid")
	if err != nil {
		return nil, err
	}

	weight := formatNumber(*f.ForecastWeight)
	number := *f.Number
	customer := *f.CustomerNumber1

	order := &domain.OrderRecord{
		ChannelID:         *f.ChannelID,
		CustomerNumber1:   customer,
		CustomerNumber2:   "",
		Number:            number,
		IsBattery:         "0",
		IsInsurance:       "0",
		ForecastWeight:    weight,
		PackageTypeCode:   defaults.PackageTypeCode,
		GoodsTypeCode:     defaults.GoodsTypeCode,
		CountryCode:       *f.ConsigneeCountryCode,
		ConsigneeName:     *f.ConsigneeName,
		ConsigneeCorpName: *f.ConsigneeName,
		ConsigneeAddress1: *f.ConsigneeAddress1,
		ConsigneeCity:     *f.ConsigneeCity,
		ConsigneeZipCode:  *f.ConsigneeZipCode,
		ConsigneeProvince: *f.ConsigneeProvince,
		DeclareTypePkID:   declareID,
		ProductTypePkID:   productID,
	}

	if f.InsuranceOn() {
		if f.InsuranceValue == nil {
			return nil, domain.MissingField(domain.FieldInsuranceValue, "insurance_value is required when insurance is enabled")
		}
		insuranceID, err := pkID(codes.InsuranceType, "insurancetypepkid")
		if err != nil {
			return nil, err
		}
		if codes.Currency == "" {
			return nil, domain.MissingField(domain.FieldInsuranceCurrencyCode, "insurance currency is required when insurance is enabled")
		}
		order.IsInsurance = "1"
		order.InsuranceValue = formatNumber(*f.InsuranceValue)
		order.InsuranceTypePkID = insuranceID
		order.InsuranceCurrency = codes.Currency
	}

	return &domain.OrderPayload{
		Authorization: &domain.Authorization{Code: auth.Code, Token: auth.Token},
		Datas: []domain.OrderGroup{{
			Order: order,
			Volumes: []domain.Volume{{
				CustomerChildNumber: customer + "-CH1",
				PreNum:              strconv.Itoa(number),
				PreWidth:            "1",
				PreLength:           "1",
				PreHeight:           "1",
				PreRWeight:          weight,
			}},
			Items: []domain.Item{{
				SKUCode:         placeholderSKU,
				CNName:          placeholderCNName,
				ENName:          placeholderENName,
				Quantity:        placeholderQuantity,
				QuantityUnit:    placeholderUnit,
				Price:           placeholderPrice,
				DeclareCurrency: defaults.DeclareCurrency,
				Weight:          placeholderWeight,
				Origin:          placeholderOrigin,
			}},
		}},
	}, nil
}

func pkID(code, label string) (int, error) {
	id, err := strconv.Atoi(code)
	if err != nil {
		return 0, &domain.Error{
			Kind:    domain.KindInvalidSelection,
			Message: fmt.Sprintf("invalid %s code: %q", label, code),
			Field:   label,
			Err:     err,
		}
	}
	return id, nil
}

// formatNumber renders whole numbers with one decimal place ("1.0") and
// other values in their shortest exact form ("2.5").
func formatNumber(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsInteger() {
		return d.StringFixed(1)
	}
	return d.String()
}
