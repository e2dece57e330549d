package relay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyrabbit/folio/config"
	myhttp "github.com/polyrabbit/folio/http"
)

type stubUpstream struct {
	resp    *myhttp.Response
	err     error
	gotURL  string
	headers map[string]string
}

func (s *stubUpstream) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*myhttp.Response, error) {
	s.gotURL = rawURL
	s.headers = headers
	return s.resp, s.err
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func relayPath(target string) string {
	return "/?url=" + url.QueryEscape(target)
}

func TestServerRejections(t *testing.T) {
	h := NewServer(&stubUpstream{}, []string{"https://qt.gtimg.cn/"}, time.Second).Handler()

	tests := []struct {
		name   string
		method string
		target string
		code   int
		body   string
	}{
		{"missing url", http.MethodGet, "/", http.StatusBadRequest, "Missing url parameter"},
		{"foreign domain", http.MethodGet, relayPath("https://evil.example.com/q=hk00700"), http.StatusForbidden, "Unauthorized domain"},
		{"lookalike domain", http.MethodGet, relayPath("https://qt.gtimg.cn.evil.com/"), http.StatusForbidden, "Unauthorized domain"},
		{"post", http.MethodPost, relayPath("https://qt.gtimg.cn/q=hk00700"), http.StatusMethodNotAllowed, "Method not allowed"},
		{"put elsewhere", http.MethodPut, "/anything", http.StatusMethodNotAllowed, "Method not allowed"},
		{"unknown path", http.MethodGet, "/anything", http.StatusNotFound, "Not found"},
		{"healthz", http.MethodGet, "/healthz", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, tt.method, tt.target)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestServerRelays(t *testing.T) {
	upstream := &stubUpstream{resp: &myhttp.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=GBK"}},
		Body:       []byte(`v_hk00700="1~Tencent~00700~380.20";`),
	}}
	h := NewServer(upstream, []string{"https://qt.gtimg.cn/"}, time.Second).Handler()

	rec := serve(t, h, http.MethodGet, relayPath("https://qt.gtimg.cn/q=hk00700"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `v_hk00700="1~Tencent~00700~380.20";`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "text/html; charset=GBK", rec.Header().Get("Content-Type"))

	assert.Equal(t, "https://qt.gtimg.cn/q=hk00700", upstream.gotURL)
	assert.Equal(t, "Mozilla/5.0", upstream.headers["User-Agent"])
	assert.Equal(t, "https://qt.gtimg.cn/", upstream.headers["Referer"])
}

func TestServerPassesUpstreamStatus(t *testing.T) {
	upstream := &stubUpstream{resp: &myhttp.Response{StatusCode: http.StatusBadGateway, Header: http.Header{}, Body: []byte("down")}}
	h := NewServer(upstream, []string{"https://qt.gtimg.cn/"}, time.Second).Handler()

	rec := serve(t, h, http.MethodGet, relayPath("https://qt.gtimg.cn/q=sh600519"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "down", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerTransportFailure(t *testing.T) {
	h := NewServer(&stubUpstream{err: errors.New("connection reset")}, []string{"https://qt.gtimg.cn/"}, time.Second).Handler()

	rec := serve(t, h, http.MethodGet, relayPath("https://qt.gtimg.cn/q=sh600519"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Proxy error: connection reset", rec.Body.String())
}

func TestServerEndToEnd(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path + " via " + r.Header.Get("Referer")))
	}))
	defer origin.Close()

	allowed := origin.URL + "/"
	relayed := httptest.NewServer(NewServer(myhttp.New(&config.Config{}), []string{allowed}, time.Second).Handler())
	defer relayed.Close()

	resp, err := http.Get(relayed.URL + relayPath(origin.URL+"/q=hk00700"))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/q=hk00700 via "+allowed, string(body))

	metrics, err := http.Get(relayed.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	body, err = io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "folio_relay_server_requests_total")
}
