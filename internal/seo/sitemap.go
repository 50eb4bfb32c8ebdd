package seo

import (
	"encoding/xml"
	"io"
	"time"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

// SitemapURL is one <url> entry with its hreflang alternates.
type SitemapURL struct {
	Loc        string
	LastMod    time.Time
	Alternates []Alternate
}

type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc     string    `xml:"loc"`
	LastMod string    `xml:"lastmod,omitempty"`
	Links   []xmlLink `xml:"xhtml:link"`
}

type xmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// WriteSitemap encodes urls as a sitemaps.org document.
func WriteSitemap(w io.Writer, urls []SitemapURL) error {
	set := xmlURLSet{XMLNS: sitemapNS, XHTML: xhtmlNS, URLs: make([]xmlURL, 0, len(urls))}
	for _, u := range urls {
		x := xmlURL{Loc: u.Loc}
		if !u.LastMod.IsZero() {
			x.LastMod = u.LastMod.UTC().Format("2006-01-02")
		}
		for _, a := range u.Alternates {
			x.Links = append(x.Links, xmlLink{Rel: "alternate", Hreflang: a.Lang, Href: a.URL})
		}
		set.URLs = append(set.URLs, x)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return err
	}
	return enc.Flush()
}
