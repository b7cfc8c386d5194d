package blogfront

import (
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type staticRoute struct {
	path      string
	frequency ChangeFrequency
	priority  float64
}

// staticRoutes are emitted in every sitemap, whatever the API returns.
var staticRoutes = []staticRoute{
	{"/", ChangeDaily, 1.0},
	{"/blogs", ChangeDaily, 0.9},
	{"/about", ChangeMonthly, 0.5},
	{"/contact", ChangeMonthly, 0.5},
}

const (
	dynamicFrequency = ChangeWeekly
	dynamicPriority  = 0.8
)

// Manifest is the assembled route manifest plus the fetch failures that
// left dynamic routes out of it.
type Manifest struct {
	Entries  []RouteManifestEntry
	Failures []error
}

// Degraded reports whether any dynamic source failed.
func (m Manifest) Degraded() bool {
	return len(m.Failures) > 0
}

// SitemapAssembler merges the static routes with blog and category routes.
type SitemapAssembler struct {
	baseURL string
	paths   *PathEnumerator
	now     func() time.Time
	logger  Logger
}

// NewSitemapAssembler creates an assembler rooted at baseURL. now supplies
// the timestamp for routes without one; nil means time.Now.
func NewSitemapAssembler(baseURL string, paths *PathEnumerator, now func() time.Time, logger Logger) *SitemapAssembler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = discardLogger{}
	}
	return &SitemapAssembler{baseURL: baseURL, paths: paths, now: now, logger: logger}
}

// Build returns the manifest for the public site. Blogs and categories are
// fetched concurrently; a failure of either only drops its own routes.
// Blogs from pages fetched before a failure are kept.
func (s *SitemapAssembler) Build(ctx context.Context) Manifest {
	now := s.now()

	var (
		mu         sync.Mutex
		failures   []error
		blogs      []RouteManifestEntry
		categories []RouteManifestEntry
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}

	// No WithContext: one source failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		err := s.paths.eachPublishedBlog(ctx, func(b BlogSummary) {
			blogs = append(blogs, RouteManifestEntry{
				URL:             CanonicalURL(s.baseURL, "blogs", b.Slug),
				LastModified:    b.LastModified(now),
				ChangeFrequency: dynamicFrequency,
				Priority:        dynamicPriority,
			})
		})
		if err != nil {
			s.logger.Warnf("sitemap: blogs: %v", err)
			fail(err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.paths.eachCategory(ctx, func(c CategorySummary) {
			categories = append(categories, RouteManifestEntry{
				URL:             CanonicalURL(s.baseURL, "categories", c.Slug),
				LastModified:    now,
				ChangeFrequency: dynamicFrequency,
				Priority:        dynamicPriority,
			})
		})
		if err != nil {
			s.logger.Warnf("sitemap: categories: %v", err)
			fail(err)
		}
		return nil
	})
	_ = g.Wait()

	entries := make([]RouteManifestEntry, 0, len(staticRoutes)+len(blogs)+len(categories))
	for _, r := range staticRoutes {
		entries = append(entries, RouteManifestEntry{
			URL:             BuildURL(s.baseURL, r.path),
			LastModified:    now,
			ChangeFrequency: r.frequency,
			Priority:        r.priority,
		})
	}
	entries = append(entries, blogs...)
	entries = append(entries, categories...)

	return Manifest{Entries: dedupeEntries(entries), Failures: failures}
}

// dedupeEntries keeps the first entry for every URL.
func dedupeEntries(entries []RouteManifestEntry) []RouteManifestEntry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, dup := seen[e.URL]; dup {
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e)
	}
	return out
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// WriteXML encodes the manifest as a sitemaps.org urlset document.
func (m Manifest) WriteXML(w io.Writer) error {
	urls := make([]sitemapURL, 0, len(m.Entries))
	for _, e := range m.Entries {
		u := sitemapURL{
			Loc:        e.URL,
			ChangeFreq: string(e.ChangeFrequency),
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}
