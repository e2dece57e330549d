package quote

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/folio/config"
)

// Relay wraps the upstream request so it can be reached around cross-origin restrictions.
type Relay interface {
	GetName() string
	// BuildURL returns the relay URL carrying the upstream target.
	BuildURL(target string) string
	// Decode extracts the upstream body from the relay's response body.
	Decode(body []byte) (string, error)
}

type RelayProvider func(cfg config.Relay) (Relay, error)

var providers = make(map[string]RelayProvider)

// Register makes a relay style available by name, it panics on duplicates.
func Register(style string, p RelayProvider) {
	style = strings.ToLower(style)
	if _, exist := providers[style]; exist {
		panic(fmt.Errorf("%q already exists in relay registry", style))
	}
	providers[style] = p
}

// ListStyles returns the registered relay styles, sorted.
func ListStyles() []string {
	styles := make([]string, 0, len(providers))
	for style := range providers {
		styles = append(styles, style)
	}
	sort.Strings(styles)
	return styles
}

// NewRelays builds relays in the configured order, unknown styles are skipped.
func NewRelays(cfgs []config.Relay) ([]Relay, error) {
	relays := make([]Relay, 0, len(cfgs))
	for _, cfg := range cfgs {
		p, ok := providers[strings.ToLower(cfg.Style)]
		if !ok {
			logrus.Warnf("Unknown relay style %s for %s, skipping", cfg.Style, cfg.Label)
			continue
		}
		r, err := p(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "relay %s", cfg.Label)
		}
		relays = append(relays, r)
	}
	if len(relays) == 0 {
		return nil, errors.New("no usable relay configured")
	}
	return relays, nil
}

type relayBase struct {
	name    string
	baseURL *url.URL
}

func newRelayBase(cfg config.Relay) (relayBase, error) {
	baseURL, err := url.Parse(cfg.URL)
	if err != nil {
		return relayBase{}, errors.Wrapf(err, "parse relay url %s", cfg.URL)
	}
	return relayBase{name: cfg.Label, baseURL: baseURL}, nil
}

func (r relayBase) GetName() string {
	return r.name
}

// The upstream body is passed through untouched by default
func (r relayBase) Decode(body []byte) (string, error) {
	return string(body), nil
}
