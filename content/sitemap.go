package content

import (
	"encoding/xml"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod"`
	Priority string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// WriteSitemap writes the site's hash-routed pages, then one entry per post, all stamped with lastMod's date.
func WriteSitemap(w io.Writer, domain string, ids []string, lastMod time.Time) error {
	domain = strings.TrimRight(domain, "/")
	day := lastMod.Format("2006-01-02")
	set := urlSet{XMLNS: sitemapNS}
	add := func(route, priority string) {
		set.URLs = append(set.URLs, sitemapURL{Loc: domain + "/#/" + route, LastMod: day, Priority: priority})
	}
	add("", "1.0")
	add("tags", "0.8")
	add("portfolio", "0.8")
	add("about", "0.8")
	for _, id := range ids {
		add("article/"+id, "0.6")
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "write sitemap")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return errors.Wrap(err, "encode sitemap")
	}
	_, err := io.WriteString(w, "\n")
	return errors.Wrap(err, "write sitemap")
}
