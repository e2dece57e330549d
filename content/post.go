package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultDate    = "2024-01-01"
	charsPerMinute = 400
)

// Post is a markdown article with its front-matter metadata.
type Post struct {
	ID          string
	Title       string
	Date        string
	Description string
	Tags        []string
	ReadingTime string
	Content     string
}

var (
	frontMatterPattern = regexp.MustCompile(`^---\s*\r?\n([\s\S]*?)\r?\n---\s*\r?\n?([\s\S]*)$`)
	lineBreakPattern   = regexp.MustCompile(`\r?\n`)
	markupReplacer     = strings.NewReplacer("#", "", "*", "", "`", "", ">", "")
)

// NotFound is served in place of any post that cannot be loaded.
func NotFound() Post {
	return Post{
		ID:          "404",
		Title:       "Not found",
		Tags:        []string{},
		ReadingTime: "0 min",
		Content:     "# 404\n\nThe requested page does not exist.",
	}
}

// ParsePost splits an optional front-matter header off raw, eg.
//
//	---
//	title: "Hello"
//	tags: [go, notes]
//	---
//	body
//
// Header lines are plain "key: value" pairs, only the first colon separates.
func ParsePost(id, raw string) Post {
	meta := map[string]string{}
	var tags []string
	body := raw

	if match := frontMatterPattern.FindStringSubmatch(raw); match != nil {
		body = match[2]
		for _, line := range lineBreakPattern.Split(match[1], -1) {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = stripQuotes(strings.TrimSpace(value))
			if key == "tags" {
				tags = splitTags(value)
				continue
			}
			meta[key] = value
		}
	}

	post := Post{
		ID:          id,
		Title:       meta["title"],
		Date:        meta["date"],
		Description: meta["description"],
		Tags:        tags,
		ReadingTime: ReadingTime(body),
		Content:     strings.TrimSpace(body),
	}
	if post.Title == "" {
		post.Title = id
	}
	if post.Date == "" {
		post.Date = DefaultDate
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post
}

// stripQuotes drops one leading and one trailing quote character, independently.
func stripQuotes(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`) {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) || strings.HasSuffix(s, `'`) {
		s = s[:len(s)-1]
	}
	return s
}

func splitTags(value string) []string {
	value = strings.NewReplacer("[", "", "]", "").Replace(value)
	tags := []string{}
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ReadingTime estimates minutes at 400 characters per minute, markdown markers not counted.
func ReadingTime(text string) string {
	chars := utf8.RuneCountInString(markupReplacer.Replace(text))
	minutes := (chars + charsPerMinute - 1) / charsPerMinute
	if minutes == 0 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}
