package blogfront

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/dailyworld/blogfront/excerpt"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// WriteRSS encodes blogs as an RSS 2.0 feed for the site.
func WriteRSS(w io.Writer, cfg SiteConfig, blogs []BlogSummary) error {
	items := make([]rssItem, 0, len(blogs))
	for _, b := range blogs {
		if b.Slug == "" {
			continue
		}
		published := b.CreatedAt.Time
		if published.IsZero() {
			published = b.UpdatedAt.Time
		}
		pubDate := ""
		if !published.IsZero() {
			pubDate = published.Format(time.RFC1123Z)
		}
		link := CanonicalURL(cfg.URL, "blogs", b.Slug)
		description := firstNonEmpty(b.Excerpt, b.MetaDescription)
		if description == "" {
			description = excerpt.Summarize(b.Content, 300)
		}
		items = append(items, rssItem{
			Title:       firstNonEmpty(b.Title, b.Slug),
			Link:        link,
			Description: description,
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        BuildURL(cfg.URL),
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}
