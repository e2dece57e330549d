package content

import (
	"sort"
	"strings"
)

// Search returns the posts whose title, description, body or any tag contains q, ignoring case.
// A blank query matches everything.
func Search(posts []Post, q string) []Post {
	if strings.TrimSpace(q) == "" {
		return posts
	}
	needle := strings.ToLower(q)
	var found []Post
	for _, p := range posts {
		if contains(p.Title, needle) || contains(p.Description, needle) || contains(p.Content, needle) || anyTagContains(p.Tags, needle) {
			found = append(found, p)
		}
	}
	return found
}

// MatchedInContentOnly reports a hit in the body that neither title nor description explains.
func MatchedInContentOnly(p Post, q string) bool {
	needle := strings.ToLower(q)
	return contains(p.Content, needle) && !contains(p.Title, needle) && !contains(p.Description, needle)
}

func contains(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

func anyTagContains(tags []string, lowerNeedle string) bool {
	for _, tag := range tags {
		if contains(tag, lowerNeedle) {
			return true
		}
	}
	return false
}

type TagCount struct {
	Tag   string
	Count int
}

// Tags counts posts per tag, most used first, then by name.
func Tags(posts []Post) []TagCount {
	counts := map[string]int{}
	for _, p := range posts {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	tags := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags
}

// WithTag keeps posts carrying exactly tag, an empty tag keeps all.
func WithTag(posts []Post, tag string) []Post {
	if tag == "" {
		return posts
	}
	var tagged []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag {
				tagged = append(tagged, p)
				break
			}
		}
	}
	return tagged
}
