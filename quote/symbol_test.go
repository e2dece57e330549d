package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVendorCode(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"0700.HK", "hk00700"},
		{"9988.hk", "hk09988"},
		{"600519.SS", "sh600519"},
		{"000651.SZ", "sz000651"},
		{"200596.SZ", "sz200596"},
		{"AAPL", "usaapl"},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, VendorCode(tt.symbol))
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"0700.HK", CurrencyHKD},
		{"600519.SS", CurrencyCNY},
		{"900905.SS", CurrencyUSD},
		{"200596.SZ", CurrencyHKD},
		{"000651.SZ", CurrencyCNY},
		{"000001.SZ", CurrencyCNY},
		{"AAPL", CurrencyUSD},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.symbol))
		})
	}
}

func TestCurrencySign(t *testing.T) {
	assert.Equal(t, "HK$", CurrencySign(CurrencyHKD))
	assert.Equal(t, "¥", CurrencySign(CurrencyCNY))
	assert.Equal(t, "$", CurrencySign(CurrencyUSD))
}
