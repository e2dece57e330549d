package quote

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/polyrabbit/folio/config"
)

// jsonRelay wraps the upstream body in a JSON document, eg. AllOrigins /get answers
// {"contents": "...", "status": {"http_code": 200}}
type jsonRelay struct {
	queryRelay
	path string
}

func init() {
	Register("json", func(cfg config.Relay) (Relay, error) {
		q, err := newQueryRelay(cfg)
		if err != nil {
			return nil, err
		}
		path := cfg.Path
		if path == "" {
			path = "contents"
		}
		return &jsonRelay{queryRelay: *q, path: path}, nil
	})
}

func (r *jsonRelay) Decode(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.Errorf("%s - response is not JSON", r.GetName())
	}
	// AllOrigins reports the upstream status alongside the contents
	if code := gjson.GetBytes(body, "status.http_code"); code.Exists() && (code.Int() < 200 || code.Int() >= 300) {
		return "", errors.Errorf("%s - upstream answered HTTP %d", r.GetName(), code.Int())
	}
	contents := gjson.GetBytes(body, r.path)
	if !contents.Exists() {
		return "", errors.Errorf("%s - no %q in response", r.GetName(), r.path)
	}
	return contents.String(), nil
}
