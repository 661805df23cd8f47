package domain

// Field keys of the order vocabulary. The string values are the keys used in
// envelopes, structured input and the fingerprint.
const (
	FieldOriginCity            = "origin_city"
	FieldDestinationCity       = "destination_city"
	FieldCustomerNumber1       = "customernumber1"
	FieldConsigneeCountryCode  = "consignee_countrycode"
	FieldConsigneeName         = "consigneename"
	FieldConsigneeAddress1     = "consigneeaddress1"
	FieldConsigneeCity         = "consigneecity"
	FieldConsigneeZipCode      = "consigneezipcode"
	FieldConsigneeProvince     = "consigneeprovince"
	FieldChannelID             = "channelid"
	FieldForecastWeight        = "forecastweight"
	FieldNumber                = "number"
	FieldInsuranceEnabled      = "insurance_enabled"
	FieldInsuranceValue        = "insurance_value"
	FieldInsuranceTypeName     = "insurance_type_name"
	FieldInsuranceCurrencyCode = "insurance_currency_code"
	FieldProductTypeName       = "product_type_name"
	FieldDeclareTypeName       = "declare_type_name"
)

// RequiredOrderFields lists the keys an order cannot be submitted without,
// in the order they are reported.
var RequiredOrderFields = []string{
	FieldOriginCity,
	FieldDestinationCity,
	FieldCustomerNumber1,
	FieldConsigneeCountryCode,
	FieldConsigneeName,
	FieldConsigneeAddress1,
	FieldConsigneeCity,
	FieldConsigneeZipCode,
	FieldConsigneeProvince,
}

// OrderFields is the sparse set of order fields recognized in user input.
// A nil pointer means the field was not supplied, which is distinct from an
// empty value.
type OrderFields struct {
	OriginCity            *string  `json:"origin_city,omitempty"`
	DestinationCity       *string  `json:"destination_city,omitempty"`
	CustomerNumber1       *string  `json:"customernumber1,omitempty"`
	ConsigneeCountryCode  *string  `json:"consignee_countrycode,omitempty"`
	ConsigneeName         *string  `json:"consigneename,omitempty"`
	ConsigneeAddress1     *string  `json:"consigneeaddress1,omitempty"`
	ConsigneeCity         *string  `json:"consigneecity,omitempty"`
	ConsigneeZipCode      *string  `json:"consigneezipcode,omitempty"`
	ConsigneeProvince     *string  `json:"consigneeprovince,omitempty"`
	ChannelID             *string  `json:"channelid,omitempty"`
	ForecastWeight        *float64 `json:"forecastweight,omitempty"`
	Number                *int     `json:"number,omitempty"`
	InsuranceEnabled      *bool    `json:"insurance_enabled,omitempty"`
	InsuranceValue        *float64 `json:"insurance_value,omitempty"`
	InsuranceTypeName     *string  `json:"insurance_type_name,omitempty"`
	InsuranceCurrencyCode *string  `json:"insurance_currency_code,omitempty"`
	ProductTypeName       *string  `json:"product_type_name,omitempty"`
	DeclareTypeName       *string  `json:"declare_type_name,omitempty"`
}

// Merge copies every non-nil field of other into f. Present fields of f are
// only replaced by present fields of other, never cleared.
func (f *OrderFields) Merge(other OrderFields) {
	mergeStr(&f.OriginCity, other.OriginCity)
	mergeStr(&f.DestinationCity, other.DestinationCity)
	mergeStr(&f.CustomerNumber1, other.CustomerNumber1)
	mergeStr(&f.ConsigneeCountryCode, other.ConsigneeCountryCode)
	mergeStr(&f.ConsigneeName, other.ConsigneeName)
	mergeStr(&f.ConsigneeAddress1, other.ConsigneeAddress1)
	mergeStr(&f.ConsigneeCity, other.ConsigneeCity)
	mergeStr(&f.ConsigneeZipCode, other.ConsigneeZipCode)
	mergeStr(&f.ConsigneeProvince, other.ConsigneeProvince)
	mergeStr(&f.ChannelID, other.ChannelID)
	mergeStr(&f.InsuranceTypeName, other.InsuranceTypeName)
	mergeStr(&f.InsuranceCurrencyCode, other.InsuranceCurrencyCode)
	mergeStr(&f.ProductTypeName, other.ProductTypeName)
	mergeStr(&f.DeclareTypeName, other.DeclareTypeName)
	if other.ForecastWeight != nil {
		v := *other.ForecastWeight
		f.ForecastWeight = &v
	}
	if other.Number != nil {
		v := *other.Number
		f.Number = &v
	}
	if other.InsuranceEnabled != nil {
		v := *other.InsuranceEnabled
		f.InsuranceEnabled = &v
	}
	if other.InsuranceValue != nil {
		v := *other.InsuranceValue
		f.InsuranceValue = &v
	}
}

// Clone returns a deep copy of f.
func (f OrderFields) Clone() OrderFields {
	var out OrderFields
	out.Merge(f)
	return out
}

// IsEmpty reports whether no field is present.
func (f OrderFields) IsEmpty() bool {
	return len(f.Map()) == 0
}

// Map returns the present fields keyed by their vocabulary name.
func (f OrderFields) Map() map[string]any {
	m := make(map[string]any)
	putStr(m, FieldOriginCity, f.OriginCity)
	putStr(m, FieldDestinationCity, f.DestinationCity)
	putStr(m, FieldCustomerNumber1, f.CustomerNumber1)
	putStr(m, FieldConsigneeCountryCode, f.ConsigneeCountryCode)
	putStr(m, FieldConsigneeName, f.ConsigneeName)
	putStr(m, FieldConsigneeAddress1, f.ConsigneeAddress1)
	putStr(m, FieldConsigneeCity, f.ConsigneeCity)
	putStr(m, FieldConsigneeZipCode, f.ConsigneeZipCode)
	putStr(m, FieldConsigneeProvince, f.ConsigneeProvince)
	putStr(m, FieldChannelID, f.ChannelID)
	putStr(m, FieldInsuranceTypeName, f.InsuranceTypeName)
	putStr(m, FieldInsuranceCurrencyCode, f.InsuranceCurrencyCode)
	putStr(m, FieldProductTypeName, f.ProductTypeName)
	putStr(m, FieldDeclareTypeName, f.DeclareTypeName)
	if f.ForecastWeight != nil {
		m[FieldForecastWeight] = *f.ForecastWeight
	}
	if f.Number != nil {
		m[FieldNumber] = *f.Number
	}
	if f.InsuranceEnabled != nil {
		m[FieldInsuranceEnabled] = *f.InsuranceEnabled
	}
	if f.InsuranceValue != nil {
		m[FieldInsuranceValue] = *f.InsuranceValue
	}
	return m
}

// MissingRequired returns every required key that is absent or empty,
// in RequiredOrderFields order.
func (f OrderFields) MissingRequired() []string {
	present := map[string]*string{
		FieldOriginCity:           f.OriginCity,
		FieldDestinationCity:      f.DestinationCity,
		FieldCustomerNumber1:      f.CustomerNumber1,
		FieldConsigneeCountryCode: f.ConsigneeCountryCode,
		FieldConsigneeName:        f.ConsigneeName,
		FieldConsigneeAddress1:    f.ConsigneeAddress1,
		FieldConsigneeCity:        f.ConsigneeCity,
		FieldConsigneeZipCode:     f.ConsigneeZipCode,
		FieldConsigneeProvince:    f.ConsigneeProvince,
	}
	var missing []string
	for _, key := range RequiredOrderFields {
		if StrValue(present[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Defaults holds the fallback values applied to omitted optional fields.
type Defaults struct {
	ChannelID       string  `mapstructure:"channel_id"`
	ForecastWeight  float64 `mapstructure:"forecast_weight"`
	Number          int     `mapstructure:"number"`
	PackageTypeCode string  `mapstructure:"package_type_code"`
	GoodsTypeCode   string  `mapstructure:"goods_type_code"`
	DeclareCurrency string  `mapstructure:"declare_currency"`
}

// DefaultOrderDefaults returns the documented defaults.
func DefaultOrderDefaults() Defaults {
	return Defaults{
		ChannelID:       "HK_TNT",
		ForecastWeight:  1.0,
		Number:          1,
		PackageTypeCode: "O",
		GoodsTypeCode:   "WPX",
		DeclareCurrency: "USD",
	}
}

// WithDefaults returns a copy of f with channel, weight and quantity filled
// in where absent. Present values, including explicit empty strings, are kept.
func (f OrderFields) WithDefaults(d Defaults) OrderFields {
	out := f.Clone()
	if out.ChannelID == nil {
		out.ChannelID = Ptr(d.ChannelID)
	}
	if out.ForecastWeight == nil {
		out.ForecastWeight = Ptr(d.ForecastWeight)
	}
	if out.Number == nil {
		out.Number = Ptr(d.Number)
	}
	return out
}

// InsuranceOn reports whether the insurance flag is present and true.
func (f OrderFields) InsuranceOn() bool {
	return f.InsuranceEnabled != nil && *f.InsuranceEnabled
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// StrValue dereferences s, returning "" for nil.
func StrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mergeStr(dst **string, src *string) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

func putStr(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

// CanonicalOrder is the complete field set an order is fingerprinted on.
// Every vocabulary key is present; absent optional values are nil.
type CanonicalOrder map[string]any

// Canonical applies defaults and returns the fingerprint field set. The
// insurance flag is always a bool so that an omitted flag and an explicit
// false describe the same order.
func (f OrderFields) Canonical(d Defaults) CanonicalOrder {
	withDefaults := f.WithDefaults(d)
	c := CanonicalOrder{
		FieldOriginCity:            nil,
		FieldDestinationCity:       nil,
		FieldCustomerNumber1:       nil,
		FieldConsigneeCountryCode:  nil,
		FieldConsigneeName:         nil,
		FieldConsigneeAddress1:     nil,
		FieldConsigneeCity:         nil,
		FieldConsigneeZipCode:      nil,
		FieldConsigneeProvince:     nil,
		FieldChannelID:             nil,
		FieldForecastWeight:        nil,
		FieldNumber:                nil,
		FieldInsuranceValue:        nil,
		FieldInsuranceTypeName:     nil,
		FieldInsuranceCurrencyCode: nil,
		FieldProductTypeName:       nil,
		FieldDeclareTypeName:       nil,
	}
	for k, v := range withDefaults.Map() {
		c[k] = v
	}
	c[FieldInsuranceEnabled] = withDefaults.InsuranceOn()
	return c
}
