package writer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/polyrabbit/folio/config"
	"github.com/polyrabbit/folio/quote"
)

const placeholder = "---"

var (
	faint   = color.New(color.Faint).SprintFunc()
	printer = message.NewPrinter(language.English)
)

// Notice is what the footer line reports below the table.
type Notice struct {
	quote.Status
	Acknowledged bool // a manual refresh just succeeded
}

// TableWriter redraws the holdings table in place.
type TableWriter struct {
	*uilive.Writer
	columns []string
}

// NewTableWriter draws on stdout.
func NewTableWriter(columns []string) *TableWriter {
	return NewTableWriterTo(colorable.NewColorableStdout(), columns) // For Windows
}

func NewTableWriterTo(out io.Writer, columns []string) *TableWriter {
	tw := &TableWriter{Writer: uilive.New(), columns: columns}
	tw.Writer.Out = out
	return tw
}

func newTable(out io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	table.SetHeader(formattedHeaders)
	table.SetRowLine(true)
	table.SetCenterSeparator(faint("-"))
	table.SetColumnSeparator(faint("|"))
	table.SetRowSeparator(faint("-"))
	return table
}

// Render draws one row per holding in configured order, holdings without a usable quote show placeholders.
func (tw *TableWriter) Render(holdings []config.Holding, snapshots map[string]quote.Snapshot, notice Notice) error {
	table := newTable(tw.Writer, tw.columns)
	for _, h := range holdings {
		sp, found := snapshots[h.Symbol]
		quoted := found && sp.Price > 0 // NaN compares false
		var columns []string
		for _, hdr := range tw.columns {
			switch strings.ToLower(hdr) {
			case strings.ToLower(config.ColumnAsset):
				name := h.Name
				if name == "" {
					name = h.Symbol
				}
				columns = append(columns, name)
			case strings.ToLower(config.ColumnSymbol):
				columns = append(columns, faint(h.Symbol))
			case strings.ToLower(config.ColumnWeight):
				columns = append(columns, strconv.FormatFloat(h.Weight*100, 'f', 0, 64)+"%")
			case strings.ToLower(config.ColumnPrice):
				if quoted {
					columns = append(columns, FormatPrice(sp.Price, sp.Currency))
				} else {
					columns = append(columns, faint(placeholder))
				}
			case strings.ToLower(config.ColumnChangePct):
				if quoted {
					columns = append(columns, highlightChange(sp.ChangePercent))
				} else {
					columns = append(columns, faint(placeholder))
				}
			case strings.ToLower(config.ColumnCurrency):
				columns = append(columns, quote.Currency(h.Symbol))
			default:
				return fmt.Errorf("unknown column: %s", hdr)
			}
		}
		table.Append(columns)
	}

	table.Render()
	fmt.Fprintln(tw.Writer, footer(notice))
	return tw.Flush()
}

// FormatPrice prefixes the currency sign and groups thousands, eg. "¥1,700.00".
func FormatPrice(price float64, currency string) string {
	return quote.CurrencySign(currency) + printer.Sprintf("%.2f", price)
}

func highlightChange(changePct float64) string {
	if math.IsNaN(changePct) {
		return faint(placeholder)
	}
	changeText := strconv.FormatFloat(changePct, 'f', 2, 64) + "%"
	if changePct >= 0 {
		return color.GreenString("+" + changeText)
	}
	return color.RedString(changeText)
}

func footer(n Notice) string {
	var parts []string
	if n.Err != nil {
		parts = append(parts, color.RedString("quotes unavailable"))
	}
	if !n.UpdatedAt.IsZero() {
		parts = append(parts, faint("as of "+n.UpdatedAt.Local().Format(time.TimeOnly)))
	}
	if n.Acknowledged {
		parts = append(parts, color.GreenString("Updated"))
	}
	if len(parts) == 0 {
		return faint("waiting for quotes")
	}
	return strings.Join(parts, " ")
}
