package payload

import (
	"testing"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = domain.Authorization{Code: "KJHB", Token: "mock-token"}

var testCodes = domain.ResolvedCodes{DeclareType: "1", ProductType: "1"}

func completeFields() domain.OrderFields {
	return domain.OrderFields{
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
}

// --- Build ---

func TestBuild_Defaults(t *testing.T) {
	p, err := Build(completeFields(), testCodes, testAuth, domain.DefaultOrderDefaults())
	require.NoError(t, err)
	require.Len(t, p.Datas, 1)

	order := p.Datas[0].Order
	assert.Equal(t, "HK_TNT", order.ChannelID)
	assert.Equal(t, "1.0", order.ForecastWeight)
	assert.Equal(t, 1, order.Number)
	assert.Equal(t, "O", order.PackageTypeCode)
	assert.Equal(t, "WPX", order.GoodsTypeCode)
	assert.Equal(t, "0", order.IsInsurance)
	assert.Equal(t, "0", order.IsBattery)
	assert.Equal(t, "John", order.ConsigneeCorpName)
	assert.Equal(t, 1, order.DeclareTypePkID)
	assert.Equal(t, 1, order.ProductTypePkID)
	assert.Empty(t, order.InsuranceValue)
	assert.Zero(t, order.InsuranceTypePkID)
	assert.Empty(t, order.InsuranceCurrency)

	require.Len(t, p.Datas[0].Volumes, 1)
	vol := p.Datas[0].Volumes[0]
	assert.Equal(t, "T1-CH1", vol.CustomerChildNumber)
	assert.Equal(t, "1", vol.PreNum)
	assert.Equal(t, "1.0", vol.PreRWeight)

	require.Len(t, p.Datas[0].Items, 1)
	item := p.Datas[0].Items[0]
	assert.Equal(t, "MOCK-SKU-001", item.SKUCode)
	assert.Equal(t, "USD", item.DeclareCurrency)
	assert.Equal(t, "1.00", item.Price)

	assert.Empty(t, Validate(p))
}

func TestBuild_ExplicitValues(t *testing.T) {
	f := completeFields()
	f.ChannelID = domain.Ptr("US_FEDEX")
	f.ForecastWeight = domain.Ptr(2.5)
	f.Number = domain.Ptr(3)

	p, err := Build(f, testCodes, testAuth, domain.DefaultOrderDefaults())
	require.NoError(t, err)
	order := p.Datas[0].Order
	assert.Equal(t, "US_FEDEX", order.ChannelID)
	assert.Equal(t, "2.5", order.ForecastWeight)
	assert.Equal(t, 3, order.Number)
	assert.Equal(t, "3", p.Datas[0].Volumes[0].PreNum)
}

func TestBuild_FirstMissingFieldInCheckOrder(t *testing.T) {
	tests := []struct {
		name  string
		clear func(f *domain.OrderFields)
		want  string
	}{
		{"customer reference", func(f *domain.OrderFields) { f.CustomerNumber1 = nil; f.ConsigneeName = nil }, "customernumber1"},
		{"empty channel", func(f *domain.OrderFields) { f.ChannelID = domain.Ptr(""); f.ConsigneeCity = nil }, "channelid"},
		{"country", func(f *domain.OrderFields) { f.ConsigneeCountryCode = domain.Ptr("") }, "consignee_countrycode"},
		{"city before zip", func(f *domain.OrderFields) { f.ConsigneeZipCode = nil; f.ConsigneeCity = nil }, "consigneecity"},
		{"province", func(f *domain.OrderFields) { f.ConsigneeProvince = nil }, "consigneeprovince"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := completeFields()
			tt.clear(&f)
			_, err := Build(f, testCodes, testAuth, domain.DefaultOrderDefaults())
			require.Error(t, err)

			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, domain.KindMissingRequiredField, de.Kind)
			assert.Equal(t, tt.want, de.Field)
			assert.Equal(t, []string{tt.want}, de.MissingFields)
		})
	}
}

func TestBuild_InsuranceRequiresValue(t *testing.T) {
	f := completeFields()
	f.InsuranceEnabled = domain.Ptr(true)

	_, err := Build(f, domain.ResolvedCodes{DeclareType: "1", ProductType: "1", InsuranceType: "1", Currency: "USD"}, testAuth, domain.DefaultOrderDefaults())
	require.Error(t, err)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindMissingRequiredField, de.Kind)
	assert.Equal(t, "insurance_value", de.Field)
}

func TestBuild_InsuranceEnabled(t *testing.T) {
	f := completeFields()
	f.InsuranceEnabled = domain.Ptr(true)
	f.InsuranceValue = domain.Ptr(200.0)

	p, err := Build(f, domain.ResolvedCodes{DeclareType: "2", ProductType: "1", InsuranceType: "2", Currency: "USD"}, testAuth, domain.DefaultOrderDefaults())
	require.NoError(t, err)
	order := p.Datas[0].Order
	assert.Equal(t, "1", order.IsInsurance)
	assert.Equal(t, "200.0", order.InsuranceValue)
	assert.Equal(t, 2, order.InsuranceTypePkID)
	assert.Equal(t, "USD", order.InsuranceCurrency)
	assert.Equal(t, 2, order.DeclareTypePkID)
}

func TestBuild_InsuranceDisabledIgnoresInsuranceFields(t *testing.T) {
	f := completeFields()
	f.InsuranceEnabled = domain.Ptr(false)
	f.InsuranceTypeName = domain.Ptr("意外险")

	p, err := Build(f, testCodes, testAuth, domain.DefaultOrderDefaults())
	require.NoError(t, err)
	assert.Equal(t, "0", p.Datas[0].Order.IsInsurance)
	assert.Empty(t, p.Datas[0].Order.InsuranceValue)
}

func TestBuild_NonNumericCode(t *testing.T) {
	_, err := Build(completeFields(), domain.ResolvedCodes{DeclareType: "x", ProductType: "1"}, testAuth, domain.DefaultOrderDefaults())
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidSelection, domain.KindOf(err))
}

// --- Validate ---

func TestValidate_AccumulatesViolations(t *testing.T) {
	p := &domain.OrderPayload{
		Authorization: &domain.Authorization{},
		Datas: []domain.OrderGroup{{
			Order: &domain.OrderRecord{ChannelID: "HK_TNT", Number: 1, ForecastWeight: "1.0"},
		}},
	}
	got := Validate(p)
	msgs := make([]string, len(got))
	for i, e := range got {
		msgs[i] = e.Error()
	}
	assert.Equal(t, []string{
		"authorization.code is required",
		"authorization.token is required",
		"datas[0].order.customernumber1 is required",
		"datas[0].order.countrycode is required",
		"datas[0].order.consigneename is required",
		"datas[0].order.consigneeaddress1 is required",
		"datas[0].order.consigneecity is required",
		"datas[0].order.consigneezipcode is required",
		"datas[0].order.consigneeprovince is required",
		"datas[0].volumes must be a non-empty array",
		"datas[0].items must be a non-empty array",
	}, msgs)
}

func TestValidate_StructuralShortCircuits(t *testing.T) {
	got := Validate(&domain.OrderPayload{})
	require.Len(t, got, 2)
	assert.EqualError(t, got[0], "authorization must be an object")
	assert.EqualError(t, got[1], "datas must be a non-empty array")

	got = Validate(&domain.OrderPayload{Authorization: &testAuth, Datas: []domain.OrderGroup{{}}})
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "datas[0].order must be an object")

	assert.Len(t, Validate(nil), 1)
}

func TestValidate_ZeroQuantityIsMissing(t *testing.T) {
	p, err := Build(completeFields(), testCodes, testAuth, domain.DefaultOrderDefaults())
	require.NoError(t, err)
	p.Datas[0].Order.Number = 0
	got := Validate(p)
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "datas[0].order.number is required")
}

func TestValidationError(t *testing.T) {
	assert.NoError(t, ValidationError(nil))

	err := ValidationError(Validate(&domain.OrderPayload{}))
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindValidationFailed, de.Kind)
	assert.Len(t, de.Violations, 2)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.0", formatNumber(1))
	assert.Equal(t, "100.0", formatNumber(100))
	assert.Equal(t, "2.5", formatNumber(2.5))
	assert.Equal(t, "0.1", formatNumber(0.1))
}
