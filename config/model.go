package config

import "strings"

const (
	ColumnAsset     = "Asset"
	ColumnSymbol    = "Symbol"
	ColumnWeight    = "Weight"
	ColumnPrice     = "Price"
	ColumnChangePct = "%Change"
	ColumnCurrency  = "Currency"
)

func supportedColumns() []string {
	return []string{ColumnAsset, ColumnSymbol, ColumnWeight, ColumnPrice, ColumnChangePct, ColumnCurrency}
}

// Holding is one configured portfolio position, symbol in home notation (eg. "0700.HK").
type Holding struct {
	Symbol string  `mapstructure:"symbol" validate:"required"`
	Name   string  `mapstructure:"name"`
	Weight float64 `mapstructure:"weight" validate:"gte=0,lte=1"`
}

// Relay is an intermediary endpoint used to reach the quote source.
type Relay struct {
	Label string `mapstructure:"label" validate:"required"`
	URL   string `mapstructure:"url" validate:"required,url"`
	Style string `mapstructure:"style" validate:"required,oneof=query path json"`
	// Param names the query parameter carrying the upstream URL, "url" if empty
	Param string `mapstructure:"param"`
	// Path is the JSON path of the upstream body for json-style relays, "contents" if empty
	Path string `mapstructure:"path"`
}

type Content struct {
	Dir     string   `mapstructure:"dir"`
	BaseURL string   `mapstructure:"base_url"`
	Posts   []string `mapstructure:"posts"`
	Domain  string   `mapstructure:"domain"`
}

type Config struct {
	Timeout        int       `mapstructure:"timeout" validate:"gte=0"`
	Proxy          string    `mapstructure:"proxy"`
	Refresh        int       `mapstructure:"refresh" validate:"gte=0"`
	Columns        []string  `mapstructure:"show"`
	Debug          bool      `mapstructure:"debug"`
	Upstream       string    `mapstructure:"upstream" validate:"required,url"`
	Holdings       []Holding `mapstructure:"holdings" validate:"required,min=1,dive"`
	Relays         []Relay   `mapstructure:"relays" validate:"dive"`
	Serve          string    `mapstructure:"serve"`
	Metrics        string    `mapstructure:"metrics"`
	AllowedTargets []string  `mapstructure:"allowed_targets"`
	Content        Content   `mapstructure:"content"`

	// One-shot content commands, only settable from the command line
	ListRelays bool   `mapstructure:"list-relays"`
	ListPosts  bool   `mapstructure:"list-posts"`
	Search     string `mapstructure:"search"`
	Tag        string `mapstructure:"tag"`
	Post       string `mapstructure:"post"`
	Sitemap    string `mapstructure:"sitemap"`
}

// ContentMode reports whether any of the content commands was requested.
func (c *Config) ContentMode() bool {
	return c.ListPosts || c.Search != "" || c.Tag != "" || c.Post != "" || c.Sitemap != ""
}

// DefaultHoldings is the portfolio shown when the config file lists none.
func DefaultHoldings() []Holding {
	return []Holding{
		{Symbol: "0700.HK", Name: "Tencent", Weight: 0.20},
		{Symbol: "600519.SS", Name: "Kweichow Moutai", Weight: 0.15},
		{Symbol: "200596.SZ", Name: "Gujing Distillery B", Weight: 0.15},
		{Symbol: "900905.SS", Name: "Lao Feng Xiang B", Weight: 0.10},
		{Symbol: "000651.SZ", Name: "Gree Electric", Weight: 0.12},
		{Symbol: "000001.SZ", Name: "Ping An Bank", Weight: 0.01},
	}
}

// DefaultRelays is ordered by observed reliability, first one wins.
func DefaultRelays() []Relay {
	return []Relay{
		{Label: "Cloudflare Worker", URL: "https://stock-proxy.keanchen1203.workers.dev/", Style: "query"},
		{Label: "AllOrigins", URL: "https://api.allorigins.win/raw", Style: "query"},
		{Label: "ThingProxy", URL: "https://thingproxy.freeboard.io/fetch/", Style: "path"},
		{Label: "CORS.SH", URL: "https://cors.sh/", Style: "path"},
	}
}

func (c *Config) applyDefaults() {
	if len(c.Holdings) == 0 {
		c.Holdings = DefaultHoldings()
	}
	if len(c.Relays) == 0 {
		c.Relays = DefaultRelays()
	}
	// Styles are matched case-insensitively
	for i := range c.Relays {
		c.Relays[i].Style = strings.ToLower(strings.TrimSpace(c.Relays[i].Style))
	}
	if len(c.AllowedTargets) == 0 {
		c.AllowedTargets = []string{strings.TrimRight(c.Upstream, "/") + "/"}
	}
	if len(c.Columns) == 0 {
		c.Columns = supportedColumns()
	}
}
