package blogfront

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMaxCollectionSize bounds enumerated collections when no limit is set.
const DefaultMaxCollectionSize = 1000

// PathEnumerator lists the slugs of a collection so they can be
// pre-rendered or published in the sitemap.
type PathEnumerator struct {
	gateway  ContentGateway
	max      int
	pageSize int
	logger   Logger
}

// NewPathEnumerator creates an enumerator that never returns more than max
// slugs per collection and pages through blogs pageSize at a time.
func NewPathEnumerator(gw ContentGateway, max, pageSize int, logger Logger) *PathEnumerator {
	if logger == nil {
		logger = discardLogger{}
	}
	if max <= 0 {
		max = DefaultMaxCollectionSize
	}
	if pageSize <= 0 || pageSize > max {
		pageSize = max
	}
	return &PathEnumerator{gateway: gw, max: max, pageSize: pageSize, logger: logger}
}

// CategorySlugs returns the slug of every category as the API spelled it,
// deduplicated case-insensitively. On failure the set is
// empty and the error is returned for logging.
func (p *PathEnumerator) CategorySlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	err := p.eachCategory(ctx, func(c CategorySummary) {
		slugs = append(slugs, strings.TrimSpace(c.Slug))
	})
	if err != nil {
		p.logger.Warnf("enumerate categories: %v", err)
		return []string{}, err
	}
	return slugs, nil
}

// BlogSlugs returns the slug of every published blog. On failure of any
// page the set is empty and the error is returned.
func (p *PathEnumerator) BlogSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	err := p.eachPublishedBlog(ctx, func(b BlogSummary) {
		slugs = append(slugs, strings.TrimSpace(b.Slug))
	})
	if err != nil {
		p.logger.Warnf("enumerate blogs: %v", err)
		return []string{}, err
	}
	return slugs, nil
}

// eachCategory calls fn for every distinct category with a slug, up to max.
func (p *PathEnumerator) eachCategory(ctx context.Context, fn func(CategorySummary)) error {
	cats, err := p.gateway.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	seen := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		if len(seen) >= p.max {
			break
		}
		key := normalizeSlug(c.Slug)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fn(c)
	}
	return nil
}

// eachPublishedBlog pages through published blogs and calls fn for every
// distinct blog with a slug, up to max. Paging stops on a short page or
// on a page that adds nothing new, which also covers an API that ignores
// the page parameter. Blogs delivered before an error are kept by fn.
func (p *PathEnumerator) eachPublishedBlog(ctx context.Context, fn func(BlogSummary)) error {
	seen := make(map[string]struct{})
	for page := 1; len(seen) < p.max; page++ {
		blogs, err := p.gateway.ListPublishedBlogs(ctx, p.pageSize, page)
		if err != nil {
			return fmt.Errorf("list published blogs page %d: %w", page, err)
		}
		fresh := 0
		for _, b := range blogs {
			key := normalizeSlug(b.Slug)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			fresh++
			fn(b)
			if len(seen) >= p.max {
				return nil
			}
		}
		if len(blogs) < p.pageSize || fresh == 0 {
			return nil
		}
	}
	return nil
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
