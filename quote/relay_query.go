package quote

import (
	"github.com/polyrabbit/folio/config"
)

// queryRelay carries the upstream URL escaped in a query parameter,
// eg. https://api.allorigins.win/raw?url=https%3A%2F%2Fqt.gtimg.cn%2Fq%3Dhk00700
type queryRelay struct {
	relayBase
	param string
}

func newQueryRelay(cfg config.Relay) (*queryRelay, error) {
	base, err := newRelayBase(cfg)
	if err != nil {
		return nil, err
	}
	param := cfg.Param
	if param == "" {
		param = "url"
	}
	return &queryRelay{relayBase: base, param: param}, nil
}

func (r *queryRelay) BuildURL(target string) string {
	u := *r.baseURL
	query := u.Query()
	query.Set(r.param, target)
	u.RawQuery = query.Encode()
	return u.String()
}

func init() {
	Register("query", func(cfg config.Relay) (Relay, error) {
		return newQueryRelay(cfg)
	})
}
