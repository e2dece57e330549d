package quote

import "strings"

const (
	CurrencyHKD = "HKD"
	CurrencyCNY = "CNY"
	CurrencyUSD = "USD"
)

// splitSymbol returns the numeric part and the upper-cased market suffix, suffix is empty for US tickers.
func splitSymbol(symbol string) (code, suffix string) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, sfx := range []string{".HK", ".SS", ".SZ"} {
		if strings.HasSuffix(s, sfx) {
			return strings.TrimSuffix(s, sfx), sfx
		}
	}
	return s, ""
}

// VendorCode maps a home-notation symbol to the quote source's code,
// eg. "0700.HK" -> "hk00700", "600519.SS" -> "sh600519", "AAPL" -> "usaapl".
func VendorCode(symbol string) string {
	code, suffix := splitSymbol(symbol)
	switch suffix {
	case ".HK":
		return "hk" + padCode(strings.ToLower(code), 5)
	case ".SS":
		return "sh" + strings.ToLower(code)
	case ".SZ":
		return "sz" + strings.ToLower(code)
	}
	return "us" + strings.ToLower(code)
}

func padCode(code string, width int) string {
	if len(code) >= width {
		return code
	}
	return strings.Repeat("0", width-len(code)) + code
}

// Currency derives the trading currency from the symbol alone.
// Shenzhen B-shares (200xxx) trade in HKD and Shanghai B-shares (900xxx) in USD.
func Currency(symbol string) string {
	code, suffix := splitSymbol(symbol)
	switch suffix {
	case ".HK":
		return CurrencyHKD
	case ".SZ":
		if strings.HasPrefix(code, "200") {
			return CurrencyHKD
		}
		return CurrencyCNY
	case ".SS":
		if strings.HasPrefix(code, "900") {
			return CurrencyUSD
		}
		return CurrencyCNY
	}
	return CurrencyUSD
}

// CurrencySign is the prefix used when displaying a price.
func CurrencySign(currency string) string {
	switch currency {
	case CurrencyHKD:
		return "HK$"
	case CurrencyCNY:
		return "¥"
	}
	return "$"
}
