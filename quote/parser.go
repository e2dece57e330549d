package quote

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/folio/config"
)

// Positions in the tilde-delimited field list, as observed from the vendor
const (
	fieldPrice     = 3
	fieldChangePct = 32
)

var statementPattern = regexp.MustCompile(`v_(.*?)="(.*?)"`)

// Snapshot is the latest known quote of one holding.
type Snapshot struct {
	Symbol        string
	Price         float64 // NaN when the vendor sent something unparsable
	ChangePercent float64
	Currency      string
}

// ParseReply decodes a reply like `v_hk00700="1~Tencent~00700~380.20~...";` into snapshots keyed by
// home-notation symbol. Statements that do not match, are too short or belong to no holding are skipped.
func ParseReply(reply string, holdings []config.Holding) map[string]Snapshot {
	byCode := make(map[string]config.Holding, len(holdings))
	for _, h := range holdings {
		byCode[VendorCode(h.Symbol)] = h
	}

	snapshots := make(map[string]Snapshot, len(holdings))
	for _, statement := range strings.Split(reply, ";") {
		if strings.TrimSpace(statement) == "" {
			continue
		}
		match := statementPattern.FindStringSubmatch(statement)
		if match == nil {
			logrus.Debugf("Skipping unrecognized statement %.40q", statement)
			continue
		}
		fields := strings.Split(match[2], "~")
		if len(fields) <= fieldChangePct {
			logrus.Debugf("Skipping %s, only %d fields", match[1], len(fields))
			continue
		}
		// US tickers come back upper-cased, eg. v_usAAPL
		holding, ok := byCode[strings.ToLower(match[1])]
		if !ok {
			logrus.Debugf("Skipping %s, not a holding", match[1])
			continue
		}
		snapshots[holding.Symbol] = Snapshot{
			Symbol:        holding.Symbol,
			Price:         parseDecimal(fields[fieldPrice]),
			ChangePercent: parseDecimal(fields[fieldChangePct]),
			Currency:      Currency(holding.Symbol),
		}
	}
	return snapshots
}

func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
