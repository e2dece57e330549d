package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/folio/config"
)

const userAgent = "Mozilla/5.0 (compatible; folio; +https://github.com/polyrabbit/folio)"

type Client struct {
	StdClient *http.Client
}

// New builds a client without an overall timeout, callers bound each request with a context.
func New(cfg *config.Config) *Client {
	// Thread safe
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logrus.Warnf("Failed to parse proxy URL: %s, error: %v, using system proxy", cfg.Proxy, err)
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logrus.Debugf("Using proxy %s", cfg.Proxy)
		}
	}
	return &Client{&http.Client{Transport: transport}}
}

// Get fetches rawURL and returns the whole body, a non-2xx status is reported as *ResponseError.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	resp, err := c.Fetch(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}
	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp.Body, &ResponseError{
			Status:      resp.Status,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        resp.Body,
		}
	}
	return resp.Body, nil
}

// Response is a fully read upstream answer, whatever its status.
type Response struct {
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetch sends a GET and reads the whole body without judging the status code.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", rawURL)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Add("Cache-Control", "no-store")
	req.Header.Add("Cache-Control", "must-revalidate")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.StdClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.Status, StatusCode: resp.StatusCode, Header: resp.Header, Body: respBytes}, nil
}

type ResponseError struct {
	Status      string
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *ResponseError) Error() string {
	status := e.Status
	if status == "" {
		status = strconv.Itoa(e.StatusCode)
	}
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return "HTTP " + status + ", body " + string(body)
}

// IsTimeout reports whether err came from a deadline, either the context's or the network's.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
