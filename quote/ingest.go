package quote

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Ingestor runs one fetch cycle: build the combined query, fetch through relays, parse, publish.
type Ingestor struct {
	store    *Store
	fetcher  *Fetcher
	upstream string
	now      func() time.Time
}

func NewIngestor(store *Store, fetcher *Fetcher, upstream string) *Ingestor {
	return &Ingestor{store: store, fetcher: fetcher, upstream: upstream, now: time.Now}
}

// Target is the combined upstream URL for every holding, eg. https://qt.gtimg.cn/q=hk00700,sh600519
func (in *Ingestor) Target() string {
	holdings := in.store.Holdings()
	codes := make([]string, 0, len(holdings))
	for _, h := range holdings {
		codes = append(codes, VendorCode(h.Symbol))
	}
	return strings.TrimRight(in.upstream, "/") + "/q=" + strings.Join(codes, ",")
}

// RunCycle replaces the store's snapshots on success, on failure it only flags the store.
func (in *Ingestor) RunCycle(ctx context.Context) error {
	reply, err := in.fetcher.Fetch(ctx, in.Target())
	if err != nil {
		logrus.WithError(err).Warn("Quotes unavailable, keeping previous snapshots")
		in.store.MarkUnavailable(err)
		return err
	}
	snapshots := ParseReply(reply, in.store.Holdings())
	logrus.Debugf("Parsed %d of %d holdings", len(snapshots), len(in.store.Holdings()))
	in.store.Replace(snapshots, in.now())
	return nil
}
