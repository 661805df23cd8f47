package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jamesfeng2009/forecastdesk/internal/canon"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/extract"
)

// requiredOrder mirrors domain.RequiredOrderFields for the validator; field
// order determines the order missing keys are reported in.
type requiredOrder struct {
	OriginCity           string `json:"origin_city" validate:"required"`
	DestinationCity      string `json:"destination_city" validate:"required"`
	CustomerNumber1      string `json:"customernumber1" validate:"required"`
	ConsigneeCountryCode string `json:"consignee_countrycode" validate:"required"`
	ConsigneeName        string `json:"consigneename" validate:"required"`
	ConsigneeAddress1    string `json:"consigneeaddress1" validate:"required"`
	ConsigneeCity        string `json:"consigneecity" validate:"required"`
	ConsigneeZipCode     string `json:"consigneezipcode" validate:"required"`
	ConsigneeProvince    string `json:"consigneeprovince" validate:"required"`
}

// maxJSONDecodes bounds how many layers of string encoding are unwrapped.
const maxJSONDecodes = 2

// decodeOrder turns a structured order into a key/value map. Strings are
// JSON-decoded, twice when the first pass yields another string.
func decodeOrder(order any) (map[string]any, error) {
	switch v := order.(type) {
	case domain.OrderFields:
		return v.Map(), nil
	case *domain.OrderFields:
		if v == nil {
			return nil, domain.Malformed("order must be an object or JSON string", nil)
		}
		return v.Map(), nil
	case map[string]any:
		return v, nil
	case string:
		var decoded any = v
		for i := 0; i < maxJSONDecodes; i++ {
			s, ok := decoded.(string)
			if !ok {
				break
			}
			var next any
			if err := json.Unmarshal([]byte(s), &next); err != nil {
				return nil, domain.Malformed("order must be valid JSON", err)
			}
			decoded = next
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return nil, domain.Malformed("order must be an object or JSON string", nil)
		}
		return m, nil
	default:
		return nil, domain.Malformed("order must be an object or JSON string", nil)
	}
}

// checkRequired lists every required key that is absent or empty.
func (d *Desk) checkRequired(m map[string]any) error {
	str := func(key string) string {
		s, _ := asString(m[key])
		return s
	}
	in := requiredOrder{
		OriginCity:           str(domain.FieldOriginCity),
		DestinationCity:      str(domain.FieldDestinationCity),
		CustomerNumber1:      str(domain.FieldCustomerNumber1),
		ConsigneeCountryCode: str(domain.FieldConsigneeCountryCode),
		ConsigneeName:        str(domain.FieldConsigneeName),
		ConsigneeAddress1:    str(domain.FieldConsigneeAddress1),
		ConsigneeCity:        str(domain.FieldConsigneeCity),
		ConsigneeZipCode:     str(domain.FieldConsigneeZipCode),
		ConsigneeProvince:    str(domain.FieldConsigneeProvince),
	}
	err := d.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("checking required fields: %w", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return domain.MissingFields("missing required fields", missing)
}

// fieldsFromMap coerces a decoded order into OrderFields. Unknown keys are
// rejected; numbers may be given as JSON numbers or numeric strings and the
// insurance flag goes through canon.ToBool.
func fieldsFromMap(m map[string]any) (domain.OrderFields, error) {
	known := make(map[string]bool)
	for _, k := range extract.Fields() {
		known[k] = true
	}
	var unknown []string
	for k := range m {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return domain.OrderFields{}, withDetail(
			domain.Malformed("order has unknown fields: "+strings.Join(unknown, ", "), nil),
			map[string]any{"unknown_fields": unknown},
		)
	}

	var f domain.OrderFields
	strs := map[string]**string{
		domain.FieldOriginCity:            &f.OriginCity,
		domain.FieldDestinationCity:       &f.DestinationCity,
		domain.FieldCustomerNumber1:       &f.CustomerNumber1,
		domain.FieldConsigneeCountryCode:  &f.ConsigneeCountryCode,
		domain.FieldConsigneeName:         &f.ConsigneeName,
		domain.FieldConsigneeAddress1:     &f.ConsigneeAddress1,
		domain.FieldConsigneeCity:         &f.ConsigneeCity,
		domain.FieldConsigneeZipCode:      &f.ConsigneeZipCode,
		domain.FieldConsigneeProvince:     &f.ConsigneeProvince,
		domain.FieldChannelID:             &f.ChannelID,
		domain.FieldInsuranceTypeName:     &f.InsuranceTypeName,
		domain.FieldInsuranceCurrencyCode: &f.InsuranceCurrencyCode,
		domain.FieldProductTypeName:       &f.ProductTypeName,
		domain.FieldDeclareTypeName:       &f.DeclareTypeName,
	}
	for key, dst := range strs {
		if s, ok := asString(m[key]); ok {
			*dst = domain.Ptr(s)
		}
	}

	if v, ok := m[domain.FieldInsuranceEnabled]; ok {
		f.InsuranceEnabled = domain.Ptr(canon.ToBool(v))
	}
	for key, dst := range map[string]**float64{
		domain.FieldForecastWeight: &f.ForecastWeight,
		domain.FieldInsuranceValue: &f.InsuranceValue,
	} {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		n, err := asFloat(v)
		if err != nil {
			return domain.OrderFields{}, domain.Malformed(key+" must be a number", err)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return domain.OrderFields{}, domain.Malformed(key+" must be a finite number", nil)
		}
		*dst = domain.Ptr(n)
	}
	if v, ok := m[domain.FieldNumber]; ok && v != nil {
		n, err := asInt(v)
		if err != nil {
			return domain.OrderFields{}, domain.Malformed(domain.FieldNumber+" must be an integer", err)
		}
		f.Number = domain.Ptr(n)
	}
	return f, nil
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	case json.Number:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// asInt truncates fractional JSON numbers; numeric strings must be whole.
func asInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("invalid number %v", x)
		}
		return int(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), nil
		}
		fl, err := x.Float64()
		return int(fl), err
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
