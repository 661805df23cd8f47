package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Merge ---

func TestMerge_NeverClearsPresentFields(t *testing.T) {
	f := OrderFields{OriginCity: Ptr("深圳"), Number: Ptr(2)}
	f.Merge(OrderFields{DestinationCity: Ptr("洛杉矶")})

	assert.Equal(t, "深圳", *f.OriginCity)
	assert.Equal(t, "洛杉矶", *f.DestinationCity)
	assert.Equal(t, 2, *f.Number)
}

func TestMerge_LaterValueWins(t *testing.T) {
	f := OrderFields{ConsigneeCity: Ptr("LA"), InsuranceEnabled: Ptr(true)}
	f.Merge(OrderFields{ConsigneeCity: Ptr("SF"), InsuranceEnabled: Ptr(false)})

	assert.Equal(t, "SF", *f.ConsigneeCity)
	assert.False(t, *f.InsuranceEnabled)
}

func TestMerge_CopiesValues(t *testing.T) {
	src := OrderFields{ConsigneeName: Ptr("John"), ForecastWeight: Ptr(2.5)}
	var f OrderFields
	f.Merge(src)
	*src.ConsigneeName = "Jane"
	*src.ForecastWeight = 9

	assert.Equal(t, "John", *f.ConsigneeName)
	assert.Equal(t, 2.5, *f.ForecastWeight)
}

// --- Map / IsEmpty ---

func TestMap_OnlyPresentKeys(t *testing.T) {
	f := OrderFields{CustomerNumber1: Ptr("T1"), Number: Ptr(3), InsuranceEnabled: Ptr(false)}
	assert.Equal(t, map[string]any{
		FieldCustomerNumber1:  "T1",
		FieldNumber:           3,
		FieldInsuranceEnabled: false,
	}, f.Map())
	assert.False(t, f.IsEmpty())
	assert.True(t, OrderFields{}.IsEmpty())
}

func TestOrderFields_JSONOmitsAbsent(t *testing.T) {
	raw, err := json.Marshal(OrderFields{ConsigneeZipCode: Ptr("90001")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"consigneezipcode":"90001"}`, string(raw))
}

// --- MissingRequired ---

func TestMissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		fields OrderFields
		want   []string
	}{
		{"empty", OrderFields{}, RequiredOrderFields},
		{"route only", OrderFields{OriginCity: Ptr("深圳"), DestinationCity: Ptr("洛杉矶")}, RequiredOrderFields[2:]},
		{"blank counts as missing", OrderFields{
			OriginCity: Ptr("深圳"), DestinationCity: Ptr("洛杉矶"), CustomerNumber1: Ptr("T1"),
			ConsigneeCountryCode: Ptr("US"), ConsigneeName: Ptr(""), ConsigneeAddress1: Ptr("1 Main St"),
			ConsigneeCity: Ptr("LA"), ConsigneeZipCode: Ptr("90001"), ConsigneeProvince: Ptr("CA"),
		}, []string{FieldConsigneeName}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fields.MissingRequired())
		})
	}
}

// --- WithDefaults / Canonical ---

func TestWithDefaults_KeepsExplicitEmptyChannel(t *testing.T) {
	d := DefaultOrderDefaults()
	got := OrderFields{ChannelID: Ptr("")}.WithDefaults(d)
	assert.Equal(t, "", *got.ChannelID)
	assert.Equal(t, 1.0, *got.ForecastWeight)
	assert.Equal(t, 1, *got.Number)

	got = OrderFields{}.WithDefaults(d)
	assert.Equal(t, "HK_TNT", *got.ChannelID)
}

func TestCanonical_AllKeysPresent(t *testing.T) {
	c := OrderFields{CustomerNumber1: Ptr("T1")}.Canonical(DefaultOrderDefaults())

	assert.Len(t, c, 18)
	assert.Equal(t, "T1", c[FieldCustomerNumber1])
	assert.Equal(t, "HK_TNT", c[FieldChannelID])
	assert.Equal(t, 1.0, c[FieldForecastWeight])
	assert.Equal(t, false, c[FieldInsuranceEnabled])
	v, ok := c[FieldConsigneeName]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestCanonical_DefaultsAndExplicitValuesAgree(t *testing.T) {
	d := DefaultOrderDefaults()
	implicit := OrderFields{CustomerNumber1: Ptr("T1")}.Canonical(d)
	explicit := OrderFields{
		CustomerNumber1:  Ptr("T1"),
		ChannelID:        Ptr("HK_TNT"),
		ForecastWeight:   Ptr(1.0),
		Number:           Ptr(1),
		InsuranceEnabled: Ptr(false),
	}.Canonical(d)
	assert.Equal(t, implicit, explicit)
}
