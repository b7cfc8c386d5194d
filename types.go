package blogfront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CategorySummary is a blog category as served by the content API.
type CategorySummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description,omitempty"`
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	BlogCount       *int   `json:"blogCount,omitempty"`
}

// Author is the public part of a blog author's profile.
type Author struct {
	Name string `json:"name"`
}

// BlogSummary is a published blog post as served by the content API.
type BlogSummary struct {
	Slug            string           `json:"slug"`
	Title           string           `json:"title,omitempty"`
	Excerpt         string           `json:"excerpt,omitempty"`
	Content         string           `json:"content,omitempty"`
	FeaturedImage   string           `json:"featuredImage,omitempty"`
	MetaTitle       string           `json:"metaTitle,omitempty"`
	MetaDescription string           `json:"metaDescription,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Author          *Author          `json:"author,omitempty"`
	Category        *CategorySummary `json:"category,omitempty"`
	CreatedAt       Timestamp        `json:"createdAt"`
	UpdatedAt       Timestamp        `json:"updatedAt"`
}

// LastModified returns UpdatedAt, then CreatedAt, then fallback.
func (b BlogSummary) LastModified(fallback time.Time) time.Time {
	switch {
	case !b.UpdatedAt.IsZero():
		return b.UpdatedAt.Time
	case !b.CreatedAt.IsZero():
		return b.CreatedAt.Time
	default:
		return fallback
	}
}

// Timestamp decodes the time formats the content API emits: RFC 3339 with
// or without fractional seconds, SQL-style datetimes, bare dates, and Unix
// epochs in seconds or milliseconds. Anything else, including null and "",
// decodes to the zero time so one odd field never rejects a whole response.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s using the layouts accepted by Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*t = epochTimestamp(n)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, err := ParseTimestamp(s); err == nil {
		*t = parsed
	}
	return nil
}

// epochTimestamp reads n as Unix milliseconds when it is too large to be
// seconds, and as seconds otherwise.
func epochTimestamp(n json.Number) Timestamp {
	v, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return Timestamp{}
		}
		v = int64(f)
	}
	if v <= 0 {
		return Timestamp{}
	}
	if v > 1e12 {
		return Timestamp{Time: time.UnixMilli(v).UTC()}
	}
	return Timestamp{Time: time.Unix(v, 0).UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Robots holds the index/follow directives of a page.
type Robots struct {
	Index  bool
	Follow bool
}

// String renders the directives as a robots meta content value.
func (r Robots) String() string {
	index, follow := "noindex", "nofollow"
	if r.Index {
		index = "index"
	}
	if r.Follow {
		follow = "follow"
	}
	return index + ", " + follow
}

var (
	// PublicRobots is used for every crawlable page.
	PublicRobots = Robots{Index: true, Follow: true}
	// PrivateRobots is used for pages that only make sense when signed in.
	PrivateRobots = Robots{}
)

// OpenGraph carries the og:* properties of a page.
type OpenGraph struct {
	Type        string // "website" or "article"
	Title       string
	Description string
	URL         string
	Image       string
	SiteName    string
}

// TwitterCard carries the twitter:* properties of a page.
type TwitterCard struct {
	Card        string // "summary" or "summary_large_image"
	Title       string
	Description string
	Image       string
}

// PageMetadata is the per-page SEO record rendered into <head>.
// It is rebuilt for every request.
type PageMetadata struct {
	Title        string
	Description  string
	CanonicalURL string
	SocialImage  string // "" when the source has no image
	Robots       Robots
	Keywords     []string
	OpenGraph    OpenGraph
	Twitter      TwitterCard
	JSONLD       string
}

// ChangeFrequency is a sitemap <changefreq> value.
type ChangeFrequency string

const (
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
)

// RouteManifestEntry is one crawlable URL of the public site.
type RouteManifestEntry struct {
	URL             string
	LastModified    time.Time
	ChangeFrequency ChangeFrequency
	Priority        float64
}
