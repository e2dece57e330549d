package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePost(t *testing.T) {
	t.Run("front matter", func(t *testing.T) {
		raw := "---\r\ntitle: \"React 18: what changed\"\r\ndate: 2024-03-15\r\ndescription: 'Concurrent rendering'\r\ntags: [react, frontend , ]\r\nnot a pair\r\n---\r\n\n# Heading\n\nBody text.\n"
		p := ParsePost("react-18-guide", raw)
		assert.Equal(t, "react-18-guide", p.ID)
		assert.Equal(t, "React 18: what changed", p.Title)
		assert.Equal(t, "2024-03-15", p.Date)
		assert.Equal(t, "Concurrent rendering", p.Description)
		assert.Equal(t, []string{"react", "frontend"}, p.Tags)
		assert.Equal(t, "# Heading\n\nBody text.", p.Content)
		assert.Equal(t, "1 min", p.ReadingTime)
	})

	t.Run("defaults without header", func(t *testing.T) {
		p := ParsePost("welcome-post", "Just text")
		assert.Equal(t, "welcome-post", p.Title)
		assert.Equal(t, DefaultDate, p.Date)
		assert.Equal(t, "", p.Description)
		assert.Equal(t, []string{}, p.Tags)
		assert.Equal(t, "Just text", p.Content)
	})

	t.Run("empty values fall back", func(t *testing.T) {
		p := ParsePost("x", "---\ntitle:\ndate: ''\n---\nbody")
		assert.Equal(t, "x", p.Title)
		assert.Equal(t, DefaultDate, p.Date)
		assert.Equal(t, "body", p.Content)
	})

	t.Run("unterminated header is body", func(t *testing.T) {
		raw := "---\ntitle: x\nno closing fence"
		p := ParsePost("open", raw)
		assert.Equal(t, "open", p.Title)
		assert.Equal(t, raw, p.Content)
	})

	t.Run("single tag without brackets", func(t *testing.T) {
		p := ParsePost("t", "---\ntags: golang\n---\n")
		assert.Equal(t, []string{"golang"}, p.Tags)
		assert.Equal(t, "", p.Content)
	})
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, "1 min", ReadingTime(""))
	assert.Equal(t, "1 min", ReadingTime(strings.Repeat("a", 400)))
	assert.Equal(t, "2 min", ReadingTime(strings.Repeat("a", 401)))
	// Markdown markers do not count
	assert.Equal(t, "1 min", ReadingTime(strings.Repeat("a", 400)+strings.Repeat("#*`>", 50)))
	// Characters, not bytes
	assert.Equal(t, "1 min", ReadingTime(strings.Repeat("读", 400)))
}

func TestNotFound(t *testing.T) {
	p := NotFound()
	assert.Equal(t, "404", p.ID)
	assert.Equal(t, "0 min", p.ReadingTime)
	assert.True(t, strings.HasPrefix(p.Content, "# 404"))
}
