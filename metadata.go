package blogfront

import (
	"context"
	"fmt"
	"strings"

	"github.com/dailyworld/blogfront/excerpt"
)

// descriptionLimit is the rune budget for derived meta descriptions.
const descriptionLimit = 160

// Synthesizer builds PageMetadata for every page of the site. The For*
// and *Fallback methods are pure; CategoryMetadata and BlogMetadata add a
// single gateway read and never fail to produce a usable record.
type Synthesizer struct {
	cfg     SiteConfig
	gateway ContentGateway
	logger  Logger
}

// NewSynthesizer creates a Synthesizer. A nil logger discards output.
func NewSynthesizer(cfg SiteConfig, gw ContentGateway, logger Logger) *Synthesizer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Synthesizer{cfg: cfg, gateway: gw, logger: logger}
}

// CategoryMetadata fetches the category and synthesizes its metadata. On
// any fetch failure it returns the generic category fallback together with
// the error, so callers can log degraded responses.
func (s *Synthesizer) CategoryMetadata(ctx context.Context, slug string) (PageMetadata, error) {
	cat, err := s.gateway.GetCategory(ctx, slug)
	if err != nil {
		s.logger.Warnf("category metadata %q: falling back: %v", slug, err)
		return s.CategoryFallback(slug), err
	}
	return s.ForCategory(slug, cat), nil
}

// BlogMetadata fetches the blog and synthesizes its metadata, falling back
// like CategoryMetadata.
func (s *Synthesizer) BlogMetadata(ctx context.Context, slug string) (PageMetadata, error) {
	blog, err := s.gateway.GetBlog(ctx, slug)
	if err != nil {
		s.logger.Warnf("blog metadata %q: falling back: %v", slug, err)
		return s.BlogFallback(slug), err
	}
	return s.ForBlog(slug, blog), nil
}

// ForCategory synthesizes metadata for a fetched category. slug is the
// requested route key and is used when the category carries none.
func (s *Synthesizer) ForCategory(slug string, cat CategorySummary) PageMetadata {
	site := s.cfg.Name
	name := strings.TrimSpace(cat.Name)

	title := firstNonEmpty(cat.MetaTitle)
	if title == "" && name != "" {
		title = fmt.Sprintf("%s Articles & Insights | %s", name, site)
	}
	if title == "" {
		title = categoryFallbackTitle(site)
	}

	description := firstNonEmpty(cat.MetaDescription, cat.Description)
	if description == "" && name != "" {
		description = fmt.Sprintf("Explore the latest %s articles and insights on %s.", name, site)
	}
	if description == "" {
		description = categoryFallbackDescription(site)
	}

	meta := PageMetadata{
		Title:        title,
		Description:  description,
		CanonicalURL: CanonicalURL(s.cfg.URL, "categories", firstNonEmpty(cat.Slug, slug)),
		SocialImage:  strings.TrimSpace(cat.ImageURL),
		Robots:       PublicRobots,
		Keywords:     categoryKeywords(name, site),
	}
	s.social(&meta, "website")
	meta.JSONLD = CollectionPageJsonLD(cat, meta, s.cfg)
	return meta
}

// CategoryFallback is the neutral metadata used when a category could not
// be fetched.
func (s *Synthesizer) CategoryFallback(slug string) PageMetadata {
	meta := PageMetadata{
		Title:        categoryFallbackTitle(s.cfg.Name),
		Description:  categoryFallbackDescription(s.cfg.Name),
		CanonicalURL: CanonicalURL(s.cfg.URL, "categories", slug),
		Robots:       PublicRobots,
		Keywords:     categoryKeywords("", s.cfg.Name),
	}
	s.social(&meta, "website")
	return meta
}

// ForBlog synthesizes metadata for a fetched blog.
func (s *Synthesizer) ForBlog(slug string, blog BlogSummary) PageMetadata {
	site := s.cfg.Name
	headline := strings.TrimSpace(blog.Title)

	title := firstNonEmpty(blog.MetaTitle)
	if title == "" && headline != "" {
		title = fmt.Sprintf("%s | %s", headline, site)
	}
	if title == "" {
		title = blogFallbackTitle(site)
	}

	description := firstNonEmpty(blog.MetaDescription, excerpt.Truncate(strings.TrimSpace(blog.Excerpt), descriptionLimit))
	if description == "" {
		description = excerpt.Summarize(blog.Content, descriptionLimit)
	}
	if description == "" && headline != "" {
		description = fmt.Sprintf("Read %s on %s.", headline, site)
	}
	if description == "" {
		description = blogFallbackDescription(site)
	}

	meta := PageMetadata{
		Title:        title,
		Description:  description,
		CanonicalURL: CanonicalURL(s.cfg.URL, "blogs", firstNonEmpty(blog.Slug, slug)),
		SocialImage:  strings.TrimSpace(blog.FeaturedImage),
		Robots:       PublicRobots,
		Keywords:     FilterEmpty(blog.Tags),
	}
	s.social(&meta, "article")
	meta.JSONLD = BlogPostingJsonLD(blog, meta, s.cfg)
	return meta
}

// BlogFallback is the neutral metadata used when a blog could not be
// fetched.
func (s *Synthesizer) BlogFallback(slug string) PageMetadata {
	meta := PageMetadata{
		Title:        blogFallbackTitle(s.cfg.Name),
		Description:  blogFallbackDescription(s.cfg.Name),
		CanonicalURL: CanonicalURL(s.cfg.URL, "blogs", slug),
		Robots:       PublicRobots,
	}
	s.social(&meta, "article")
	return meta
}

type staticPage struct {
	title       string // %s is the site name
	description string
}

var staticPages = map[string]staticPage{
	"/":           {"%s | Latest Articles & Insights", "Discover stories, news and insights from writers around the world on %s."},
	"/about":      {"About Us | %s", "Learn about %s, our writers and what we publish."},
	"/contact":    {"Contact Us | %s", "Get in touch with the %s team."},
	"/blogs":      {"All Articles | %s", "Browse the latest articles published on %s."},
	"/categories": {"Categories | %s", "Explore articles by topic on %s."},
	"/login":      {"Sign In | %s", "Sign in to your %s account to write and manage your blogs."},
	"/register":   {"Create an Account | %s", "Join %s and start publishing your own articles."},
}

var privatePages = map[string]string{
	"/create-blog": "Write a New Blog",
	"/edit-blog":   "Edit Blog",
	"/my-blogs":    "My Blogs",
	"/profile":     "Profile",
}

// Static returns metadata for a fixed public route such as "/about".
// Unknown routes get the home page copy with their own canonical URL.
func (s *Synthesizer) Static(route string) PageMetadata {
	page, ok := staticPages[route]
	if !ok {
		page = staticPages["/"]
	}
	description := fmt.Sprintf(page.description, s.cfg.Name)
	if route == "/" && s.cfg.Description != "" {
		description = s.cfg.Description
	}
	meta := PageMetadata{
		Title:        fmt.Sprintf(page.title, s.cfg.Name),
		Description:  description,
		CanonicalURL: BuildURL(s.cfg.URL, route),
		Robots:       PublicRobots,
	}
	s.social(&meta, "website")
	if route == "/" {
		meta.JSONLD = WebsiteJsonLD(s.cfg)
	}
	return meta
}

// Private returns metadata for a signed-in-only route. route is the
// request path; its first segment selects the page title. Private pages
// are never indexed or followed.
func (s *Synthesizer) Private(route string) PageMetadata {
	first := "/" + strings.SplitN(strings.Trim(route, "/"), "/", 2)[0]
	heading, ok := privatePages[first]
	if !ok {
		heading = "Account"
	}
	meta := PageMetadata{
		Title:        fmt.Sprintf("%s | %s", heading, s.cfg.Name),
		Description:  fmt.Sprintf("%s on %s.", heading, s.cfg.Name),
		CanonicalURL: BuildURL(s.cfg.URL, route),
		Robots:       PrivateRobots,
	}
	s.social(&meta, "website")
	return meta
}

// NotFound returns metadata for the 404 page.
func (s *Synthesizer) NotFound() PageMetadata {
	meta := PageMetadata{
		Title:       fmt.Sprintf("Page Not Found | %s", s.cfg.Name),
		Description: "The page you are looking for does not exist or has been moved.",
		Robots:      PrivateRobots,
	}
	s.social(&meta, "website")
	return meta
}

// social fills the Open Graph and Twitter blocks from the core fields.
func (s *Synthesizer) social(meta *PageMetadata, ogType string) {
	meta.OpenGraph = OpenGraph{
		Type:        ogType,
		Title:       meta.Title,
		Description: meta.Description,
		URL:         meta.CanonicalURL,
		Image:       meta.SocialImage,
		SiteName:    s.cfg.Name,
	}
	card := "summary"
	if meta.SocialImage != "" {
		card = "summary_large_image"
	}
	meta.Twitter = TwitterCard{
		Card:        card,
		Title:       meta.Title,
		Description: meta.Description,
		Image:       meta.SocialImage,
	}
}

func categoryFallbackTitle(site string) string {
	return "Category | " + site
}

func categoryFallbackDescription(site string) string {
	return "Browse articles by category on " + site + "."
}

func blogFallbackTitle(site string) string {
	return "Blog | " + site
}

func blogFallbackDescription(site string) string {
	return "Read the latest articles on " + site + "."
}

func categoryKeywords(name, site string) []string {
	if name == "" {
		return FilterEmpty([]string{"blog categories", "articles", site})
	}
	return FilterEmpty([]string{name, name + " articles", name + " blog", site})
}
