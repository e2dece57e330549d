package content

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentReads = 8

// DefaultPostIDs are the posts published with the site.
var DefaultPostIDs = []string{"react-18-guide", "tailwind-tips", "welcome-post", "knownothing"}

// Library loads posts from a source, ids is the ordered list of published posts.
type Library struct {
	source Source
	ids    []string
}

// NewLibrary uses ids when given, otherwise whatever the source can list, falling back to DefaultPostIDs.
func NewLibrary(source Source, ids []string) *Library {
	return &Library{source: source, ids: ids}
}

// IDs resolves the published post ids.
func (l *Library) IDs(ctx context.Context) []string {
	if len(l.ids) > 0 {
		return append([]string(nil), l.ids...)
	}
	if lister, ok := l.source.(Lister); ok {
		ids, err := lister.List(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Failed to list posts, using the built-in list")
		} else if len(ids) > 0 {
			return ids
		}
	}
	return append([]string(nil), DefaultPostIDs...)
}

// Post loads one post, any failure yields the NotFound placeholder.
func (l *Library) Post(ctx context.Context, id string) Post {
	raw, err := l.source.Read(ctx, id)
	if err != nil {
		logrus.WithError(err).Warnf("Post %s unavailable", id)
		return NotFound()
	}
	return ParsePost(id, raw)
}

// All loads every published post concurrently, skips the ones that fail and sorts newest first.
func (l *Library) All(ctx context.Context) []Post {
	ids := l.IDs(ctx)
	loaded := make([]*Post, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			raw, err := l.source.Read(gctx, id)
			if err != nil {
				logrus.WithError(err).Warnf("Fetch failed for %s", id)
				return nil
			}
			post := ParsePost(id, raw)
			loaded[i] = &post
			return nil
		})
	}
	// Closures never fail, the group only bounds concurrency
	g.Wait()

	posts := make([]Post, 0, len(ids))
	for _, p := range loaded {
		if p != nil {
			posts = append(posts, *p)
		}
	}
	SortByDate(posts)
	return posts
}

// SortByDate orders posts newest first, posts with unparsable dates go last, ties keep their order.
func SortByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, erri := parseDate(posts[i].Date)
		tj, errj := parseDate(posts[j].Date)
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		}
		return ti.After(tj)
	})
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04", "2006/01/02"}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
