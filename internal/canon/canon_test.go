package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Hello   World ", "hello world"},
		{"ＵＳＤ", "usd"},
		{"货物\t运输\n险", "货物 运输 险"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"chinese dollar", "美元", "USD", true},
		{"iso lower", "usd", "USD", true},
		{"iso mixed", " Cny ", "CNY", true},
		{"rmb", "RMB", "CNY", true},
		{"typo rmb", "人名币", "CNY", true},
		{"hk dollar", "港元", "HKG", true},
		{"unknown passes through", "eur", "EUR", true},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeCurrency(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBool(t *testing.T) {
	truthy := []any{true, 1, 2.5, int64(-1), "1", "TRUE", " yes ", "y", "on", "Enable", "enabled", "是"}
	for _, v := range truthy {
		assert.True(t, ToBool(v), "%v should be true", v)
	}
	falsy := []any{nil, false, 0, 0.0, "", "0", "no", "否", "off", []string{"yes"}}
	for _, v := range falsy {
		assert.False(t, ToBool(v), "%v should be false", v)
	}
}

func TestMapDeclarePhrase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"不需要报关", DeclareNone},
		{"我们不需要报关的", DeclareNone},
		{"不需报关", DeclareNone},
		{"无需报关", DeclareNone},
		{"免报关", DeclareNone},
		{"需要报关", DeclarePaid},
		{"要报关", DeclarePaid},
		{"报关", DeclarePaid},
		{" 贸易报关 ", "贸易报关"},
		{"买单报关", "买单报关"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapDeclarePhrase(tt.in))
		})
	}
}
