package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/polyrabbit/folio/content"
)

// RenderPosts lists posts as a table, with a non-empty query it marks hits found only in the body.
func RenderPosts(out io.Writer, posts []content.Post, query string) {
	if len(posts) == 0 {
		fmt.Fprintln(out, faint("No posts found"))
		return
	}
	headers := []string{"Date", "ID", "Title", "Tags", "Reading"}
	if query != "" {
		headers = append(headers, "Match")
	}
	table := newTable(out, headers)
	table.SetRowLine(false)
	for _, p := range posts {
		row := []string{p.Date, faint(p.ID), p.Title, strings.Join(p.Tags, ", "), p.ReadingTime}
		if query != "" {
			match := "title"
			if content.MatchedInContentOnly(p, query) {
				match = color.CyanString("in content")
			}
			row = append(row, match)
		}
		table.Append(row)
	}
	table.Render()
}

// RenderTags lists every tag with its post count.
func RenderTags(out io.Writer, tags []content.TagCount) {
	table := newTable(out, []string{"Tag", "Posts"})
	table.SetRowLine(false)
	for _, tc := range tags {
		table.Append([]string{"#" + tc.Tag, strconv.Itoa(tc.Count)})
	}
	table.Render()
}

// RenderPost prints a single post, metadata first.
func RenderPost(out io.Writer, p content.Post) {
	fmt.Fprintln(out, color.New(color.Bold).Sprint(p.Title))
	meta := []string{}
	if p.Date != "" {
		meta = append(meta, p.Date)
	}
	meta = append(meta, p.ReadingTime)
	if len(p.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(p.Tags, " #"))
	}
	fmt.Fprintln(out, faint(strings.Join(meta, " · ")))
	if p.Description != "" {
		fmt.Fprintln(out, color.New(color.Italic).Sprint(p.Description))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, p.Content)
}
