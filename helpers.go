package blogfront

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments. The result never ends in
// a slash; the site root is the bare base URL.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = strings.TrimSuffix(path.Join("/", u.Path, path.Join(pathSegments...)), "/")
	return u.String()
}

// CanonicalURL returns {base}/{segment}/{slug} with the slug lower-cased.
func CanonicalURL(base, segment, slug string) string {
	return BuildURL(base, segment, strings.ToLower(strings.TrimSpace(slug)))
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstNonEmpty returns the first value that is not blank after trimming.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	return marshalJSONLD(data)
}

// CollectionPageJsonLD returns a JSON-LD string describing a category page.
func CollectionPageJsonLD(cat CategorySummary, meta PageMetadata, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "CollectionPage",
		"name":        meta.Title,
		"description": meta.Description,
		"url":         meta.CanonicalURL,
		"isPartOf": map[string]string{
			"@type": "WebSite",
			"name":  cfg.Name,
			"url":   BuildURL(cfg.URL),
		},
	}
	if cat.BlogCount != nil {
		data["numberOfItems"] = *cat.BlogCount
	}
	return marshalJSONLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(blog BlogSummary, meta PageMetadata, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    firstNonEmpty(blog.Title, meta.Title),
		"description": meta.Description,
		"url":         meta.CanonicalURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   meta.CanonicalURL,
		},
	}
	if !blog.CreatedAt.IsZero() {
		data["datePublished"] = blog.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if !blog.UpdatedAt.IsZero() {
		data["dateModified"] = blog.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if meta.SocialImage != "" {
		data["image"] = meta.SocialImage
	}
	if blog.Author != nil && blog.Author.Name != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  blog.Author.Name,
		}
	}
	publisher := firstNonEmpty(cfg.Author, cfg.Name)
	if publisher != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  publisher,
		}
	}
	if len(blog.Tags) > 0 {
		data["keywords"] = strings.Join(blog.Tags, ", ")
	}
	return marshalJSONLD(data)
}
