// Package extract recognizes order fields in free-form bilingual text.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/canon"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

// Value shapes. Token values stop at whitespace, free-text values only at
// list punctuation or a newline so that names and addresses keep their
// inner spaces.
const (
	sep       = `\s*[:：=]\s*`
	token     = `([^\s，,；;\n]+)`
	freeText  = `([^\n，,；;]+)`
	floatNum  = `([0-9]+(?:\.[0-9]+)?)`
	integer   = `([0-9]+)`
	isoCode   = `([A-Za-z]{3})`
	countryCC = `([A-Za-z]{2,3})`
)

var routePattern = regexp.MustCompile(`从\s*` + token + `\s*到\s*` + token)

// rule binds one vocabulary field to its label patterns in priority order.
type rule struct {
	field    string
	patterns []*regexp.Regexp
	assign   func(f *domain.OrderFields, raw string)
}

func labeled(label, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)` + label + sep + value)
}

func setStr(dst func(f *domain.OrderFields) **string) func(*domain.OrderFields, string) {
	return func(f *domain.OrderFields, raw string) {
		*dst(f) = domain.Ptr(raw)
	}
}

func setFloat(dst func(f *domain.OrderFields) **float64) func(*domain.OrderFields, string) {
	return func(f *domain.OrderFields, raw string) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}
		*dst(f) = &v
	}
}

var rules = []rule{
	{
		field: domain.FieldCustomerNumber1,
		patterns: []*regexp.Regexp{
			labeled(`customernumber1`, token),
			regexp.MustCompile(`(?im)客户参考号\s*[:：]\s*` + token),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.CustomerNumber1 }),
	},
	{
		field: domain.FieldConsigneeCountryCode,
		patterns: []*regexp.Regexp{
			labeled(`收件国家`, countryCC),
			labeled(`consignee_countrycode`, countryCC),
			labeled(`country`, countryCC),
		},
		assign: func(f *domain.OrderFields, raw string) {
			f.ConsigneeCountryCode = domain.Ptr(strings.ToUpper(raw))
		},
	},
	{
		field: domain.FieldConsigneeName,
		patterns: []*regexp.Regexp{
			labeled(`收件人`, freeText),
			labeled(`consigneename`, freeText),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.ConsigneeName }),
	},
	{
		field: domain.FieldConsigneeAddress1,
		patterns: []*regexp.Regexp{
			labeled(`收件地址`, freeText),
			labeled(`地址`, freeText),
			labeled(`consigneeaddress1`, freeText),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.ConsigneeAddress1 }),
	},
	{
		field: domain.FieldConsigneeCity,
		patterns: []*regexp.Regexp{
			labeled(`城市`, freeText),
			labeled(`consigneecity`, freeText),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.ConsigneeCity }),
	},
	{
		field: domain.FieldConsigneeZipCode,
		patterns: []*regexp.Regexp{
			labeled(`邮编`, token),
			labeled(`ZIP`, token),
			labeled(`consigneezipcode`, token),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.ConsigneeZipCode }),
	},
	{
		field: domain.FieldConsigneeProvince,
		patterns: []*regexp.Regexp{
			labeled(`省州`, token),
			labeled(`州`, token),
			labeled(`consigneeprovince`, token),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.ConsigneeProvince }),
	},
	{
		field:    domain.FieldChannelID,
		patterns: []*regexp.Regexp{labeled(`channelid`, token)},
		assign:   setStr(func(f *domain.OrderFields) **string { return &f.ChannelID }),
	},
	{
		field: domain.FieldForecastWeight,
		patterns: []*regexp.Regexp{
			labeled(`forecastweight`, floatNum),
			labeled(`预报重量`, floatNum),
		},
		assign: setFloat(func(f *domain.OrderFields) **float64 { return &f.ForecastWeight }),
	},
	{
		field: domain.FieldNumber,
		patterns: []*regexp.Regexp{
			labeled(`number`, integer),
			labeled(`件数`, integer),
		},
		assign: func(f *domain.OrderFields, raw string) {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return
			}
			f.Number = &n
		},
	},
	{
		field:    domain.FieldInsuranceEnabled,
		patterns: []*regexp.Regexp{labeled(`投保`, token)},
		assign: func(f *domain.OrderFields, raw string) {
			f.InsuranceEnabled = domain.Ptr(canon.ToBool(raw))
		},
	},
	{
		field: domain.FieldInsuranceValue,
		patterns: []*regexp.Regexp{
			labeled(`保额`, floatNum),
			labeled(`insurance_value`, floatNum),
		},
		assign: setFloat(func(f *domain.OrderFields) **float64 { return &f.InsuranceValue }),
	},
	{
		field: domain.FieldInsuranceTypeName,
		patterns: []*regexp.Regexp{
			labeled(`险种`, freeText),
			labeled(`insurance_type_name`, freeText),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.InsuranceTypeName }),
	},
	{
		// ISO codes win over the free-text form, which also accepts Chinese
		// currency names.
		field: domain.FieldInsuranceCurrencyCode,
		patterns: []*regexp.Regexp{
			labeled(`币别`, isoCode),
			labeled(`insurance_currency_code`, isoCode),
			labeled(`币别`, freeText),
		},
		assign: func(f *domain.OrderFields, raw string) {
			if code, ok := canon.NormalizeCurrency(raw); ok {
				f.InsuranceCurrencyCode = &code
			}
		},
	},
	{
		field: domain.FieldProductTypeName,
		patterns: []*regexp.Regexp{
			labeled(`物品类别`, freeText),
			labeled(`product_type_name`, freeText),
		},
		assign: setStr(func(f *domain.OrderFields) **string { return &f.ProductTypeName }),
	},
	{
		field: domain.FieldDeclareTypeName,
		patterns: []*regexp.Regexp{
			labeled(`报关类型`, freeText),
			labeled(`declare_type_name`, freeText),
		},
		assign: func(f *domain.OrderFields, raw string) {
			f.DeclareTypeName = domain.Ptr(canon.MapDeclarePhrase(raw))
		},
	},
}

// Extract scans text for every known field. For each field the first
// matching label pattern wins. Unrecognized or malformed values are left
// absent; Extract never fails.
func Extract(text string) domain.OrderFields {
	t := strings.TrimSpace(text)
	var out domain.OrderFields

	if m := routePattern.FindStringSubmatch(t); m != nil {
		out.OriginCity = domain.Ptr(strings.TrimSpace(m[1]))
		out.DestinationCity = domain.Ptr(strings.TrimSpace(m[2]))
	}

	for _, r := range rules {
		raw, ok := find(t, r.patterns)
		if !ok {
			continue
		}
		r.assign(&out, raw)
	}
	return out
}

func find(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}

// Fields lists the vocabulary keys the extractor recognizes, in scan order.
func Fields() []string {
	keys := []string{domain.FieldOriginCity, domain.FieldDestinationCity}
	for _, r := range rules {
		keys = append(keys, r.field)
	}
	return keys
}

// RequiredMissing returns every absent required key in fixed order.
func RequiredMissing(f domain.OrderFields) []string {
	return f.MissingRequired()
}

// ApplyDefaults fills channel, weight and quantity where absent.
func ApplyDefaults(f domain.OrderFields, d domain.Defaults) domain.OrderFields {
	return f.WithDefaults(d)
}
