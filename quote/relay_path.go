package quote

import (
	"strings"

	"github.com/polyrabbit/folio/config"
)

// pathRelay appends the raw upstream URL to its own path,
// eg. https://thingproxy.freeboard.io/fetch/https://qt.gtimg.cn/q=hk00700
type pathRelay struct {
	relayBase
	prefix string
}

func init() {
	Register("path", func(cfg config.Relay) (Relay, error) {
		base, err := newRelayBase(cfg)
		if err != nil {
			return nil, err
		}
		prefix := base.baseURL.String()
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		return &pathRelay{relayBase: base, prefix: prefix}, nil
	})
}

func (r *pathRelay) BuildURL(target string) string {
	return r.prefix + target
}
