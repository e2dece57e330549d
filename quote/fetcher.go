package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	myhttp "github.com/polyrabbit/folio/http"
)

const DefaultRelayTimeout = 8 * time.Second

//go:generate mockgen -source=fetcher.go -destination=mock_getter_test.go -package=quote

// Getter is the part of *http.Client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

// ExhaustedError is returned when every relay failed, Last is the most recent failure.
type ExhaustedError struct {
	Relays int
	Last   error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("quotes unavailable, all %d relays failed, last error: %v", e.Relays, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Cause lets errors.Cause from pkg/errors reach the last relay error.
func (e *ExhaustedError) Cause() error { return e.Last }

// Fetcher tries relays strictly in order, the first 2xx answer wins.
type Fetcher struct {
	relays  []Relay
	client  Getter
	timeout time.Duration
}

func NewFetcher(relays []Relay, client Getter, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultRelayTimeout
	}
	return &Fetcher{relays: relays, client: client, timeout: timeout}
}

func (f *Fetcher) Relays() []Relay {
	return f.relays
}

// Fetch returns the upstream body from the first relay that answers.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	var lastErr error
	for _, relay := range f.relays {
		start := time.Now()
		body, err := f.try(ctx, relay, target)
		if err == nil {
			relayAttempts.WithLabelValues(relay.GetName(), outcomeSuccess).Inc()
			logrus.Debugf("%s - answered in %s", relay.GetName(), time.Since(start))
			return body, nil
		}
		lastErr = err

		outcome := outcomeError
		logEntry := logrus.WithError(err)
		if myhttp.IsTimeout(err) {
			outcome = outcomeTimeout
			logEntry = logEntry.WithField("elapsed", time.Since(start).String())
		} else if respErr := (*myhttp.ResponseError)(nil); errors.As(err, &respErr) {
			outcome = outcomeStatus
		}
		relayAttempts.WithLabelValues(relay.GetName(), outcome).Inc()
		logEntry.Warnf("Relay %s failed, trying the next one", relay.GetName())

		// Whole cycle cancelled, no point in going on
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no relay configured")
	}
	return "", &ExhaustedError{Relays: len(f.relays), Last: lastErr}
}

func (f *Fetcher) try(ctx context.Context, relay Relay, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	respBytes, err := f.client.Get(ctx, relay.BuildURL(target), map[string]string{"Accept": "text/plain, */*"})
	if err != nil {
		return "", errors.Wrap(err, relay.GetName())
	}
	return relay.Decode(respBytes)
}
