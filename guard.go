package blogfront

import (
	"context"
	"strings"
)

// Resolution is the outcome of a route existence check.
type Resolution int

const (
	// Resolved means the entity exists and the page may render.
	Resolved Resolution = iota
	// NotFound means the API reported no such entity.
	NotFound
	// UpstreamError means the API could not answer. Pages treat it like
	// NotFound; it is kept apart so it can be logged.
	UpstreamError
)

func (r Resolution) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	default:
		return "upstream_error"
	}
}

// Found reports whether the detail page may render.
func (r Resolution) Found() bool {
	return r == Resolved
}

// Guard confirms that a slug names a real entity before a detail page is
// rendered. Each check issues exactly one gateway read and never retries.
type Guard struct {
	gateway ContentGateway
	logger  Logger
}

// NewGuard creates a Guard. A nil logger discards output.
func NewGuard(gw ContentGateway, logger Logger) *Guard {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Guard{gateway: gw, logger: logger}
}

// Category resolves a category slug.
func (g *Guard) Category(ctx context.Context, slug string) (CategorySummary, Resolution) {
	if strings.TrimSpace(slug) == "" {
		return CategorySummary{}, NotFound
	}
	cat, err := g.gateway.GetCategory(ctx, slug)
	res := g.classify("category", slug, err)
	if res == Resolved && strings.TrimSpace(cat.Slug) == "" {
		// success with an empty record is no entity at all
		return CategorySummary{}, NotFound
	}
	return cat, res
}

// Blog resolves a blog slug.
func (g *Guard) Blog(ctx context.Context, slug string) (BlogSummary, Resolution) {
	if strings.TrimSpace(slug) == "" {
		return BlogSummary{}, NotFound
	}
	blog, err := g.gateway.GetBlog(ctx, slug)
	res := g.classify("blog", slug, err)
	if res == Resolved && strings.TrimSpace(blog.Slug) == "" {
		return BlogSummary{}, NotFound
	}
	return blog, res
}

func (g *Guard) classify(kind, slug string, err error) Resolution {
	switch {
	case err == nil:
		return Resolved
	case IsNotFound(err):
		g.logger.Debugf("guard: %s %q not found", kind, slug)
		return NotFound
	default:
		g.logger.Warnf("guard: %s %q unresolved: %v", kind, slug, err)
		return UpstreamError
	}
}
