package content

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePosts = []Post{
	{ID: "react-18-guide", Title: "React 18 Guide", Description: "Concurrent rendering", Tags: []string{"react", "frontend"}, Content: "useTransition and Suspense"},
	{ID: "tailwind-tips", Title: "Tailwind Tips", Description: "Utility classes", Tags: []string{"css", "frontend"}, Content: "Prefer composition in React components"},
	{ID: "knownothing", Title: "Know Nothing", Description: "", Tags: []string{"life"}, Content: "Socrates"},
}

func ids(posts []Post) []string {
	out := []string{}
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	assert.Len(t, Search(samplePosts, "  "), 3)
	assert.Equal(t, []string{"react-18-guide", "tailwind-tips"}, ids(Search(samplePosts, "REACT")))
	assert.Equal(t, []string{"tailwind-tips"}, ids(Search(samplePosts, "utility")))
	assert.Equal(t, []string{"knownothing"}, ids(Search(samplePosts, "lif")))
	assert.Empty(t, Search(samplePosts, "golang"))
}

func TestMatchedInContentOnly(t *testing.T) {
	assert.False(t, MatchedInContentOnly(samplePosts[0], "react"))
	assert.True(t, MatchedInContentOnly(samplePosts[1], "react"))
	assert.False(t, MatchedInContentOnly(samplePosts[2], "react"))
}

func TestTags(t *testing.T) {
	assert.Equal(t, []TagCount{
		{Tag: "frontend", Count: 2},
		{Tag: "css", Count: 1},
		{Tag: "life", Count: 1},
		{Tag: "react", Count: 1},
	}, Tags(samplePosts))

	assert.Equal(t, []string{"react-18-guide", "tailwind-tips"}, ids(WithTag(samplePosts, "frontend")))
	assert.Empty(t, WithTag(samplePosts, "front"))
	assert.Len(t, WithTag(samplePosts, ""), 3)
}

func TestWriteSitemap(t *testing.T) {
	var buf bytes.Buffer
	lastMod := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WriteSitemap(&buf, "https://example.github.io/", []string{"welcome-post"}, lastMod))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://example.github.io/#/</loc>")
	assert.Contains(t, out, "<loc>https://example.github.io/#/article/welcome-post</loc>")
	assert.Equal(t, 5, strings.Count(out, "<lastmod>2024-06-01</lastmod>"))
	assert.Equal(t, 1, strings.Count(out, "<priority>1.0</priority>"))
	assert.Equal(t, 3, strings.Count(out, "<priority>0.8</priority>"))
	assert.Equal(t, 1, strings.Count(out, "<priority>0.6</priority>"))
}
