package quote

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyrabbit/folio/config"
)

// statement builds a vendor statement with n fields, price and change at their real positions.
func statement(code, price, change string, n int) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = fmt.Sprintf("f%d", i)
	}
	if n > fieldPrice {
		fields[fieldPrice] = price
	}
	if n > fieldChangePct {
		fields[fieldChangePct] = change
	}
	return fmt.Sprintf("v_%s=%q;", code, strings.Join(fields, "~"))
}

func TestParseReply(t *testing.T) {
	holdings := []config.Holding{{Symbol: "0700.HK"}, {Symbol: "600519.SS"}}

	t.Run("known holding", func(t *testing.T) {
		reply := statement("hk00700", "123.45", "2.34", 40) + "\n" + `v_garbage="bad";`
		got := ParseReply(reply, holdings)
		require.Len(t, got, 1)
		sp := got["0700.HK"]
		assert.Equal(t, "0700.HK", sp.Symbol)
		assert.InDelta(t, 123.45, sp.Price, 1e-9)
		assert.InDelta(t, 2.34, sp.ChangePercent, 1e-9)
		assert.Equal(t, CurrencyHKD, sp.Currency)
	})

	t.Run("idempotent", func(t *testing.T) {
		reply := statement("hk00700", "380.2", "-1.05", 50) + statement("sh600519", "1700.00", "0.50", 50)
		assert.Equal(t, ParseReply(reply, holdings), ParseReply(reply, holdings))
	})

	t.Run("short statement skipped", func(t *testing.T) {
		got := ParseReply(statement("hk00700", "1", "1", fieldChangePct), holdings)
		assert.Empty(t, got)
	})

	t.Run("exactly enough fields", func(t *testing.T) {
		got := ParseReply(statement("hk00700", "1.5", "-0.25", fieldChangePct+1), holdings)
		require.Contains(t, got, "0700.HK")
		assert.InDelta(t, -0.25, got["0700.HK"].ChangePercent, 1e-9)
	})

	t.Run("unknown code skipped", func(t *testing.T) {
		got := ParseReply(statement("usaapl", "190", "1", 40), holdings)
		assert.Empty(t, got)
	})

	t.Run("vendor code case ignored", func(t *testing.T) {
		got := ParseReply(statement("usAAPL", "190.5", "-0.8", 40), []config.Holding{{Symbol: "AAPL"}})
		require.Contains(t, got, "AAPL")
		assert.InDelta(t, 190.5, got["AAPL"].Price, 1e-9)
		assert.Equal(t, CurrencyUSD, got["AAPL"].Currency)
	})

	t.Run("unparsable price", func(t *testing.T) {
		got := ParseReply(statement("sh600519", "N/A", "0.1", 40), holdings)
		require.Contains(t, got, "600519.SS")
		assert.True(t, math.IsNaN(got["600519.SS"].Price))
		assert.Equal(t, CurrencyCNY, got["600519.SS"].Currency)
	})

	t.Run("empty reply", func(t *testing.T) {
		assert.Empty(t, ParseReply("", holdings))
		assert.Empty(t, ParseReply(" ;\n; ", holdings))
	})
}
