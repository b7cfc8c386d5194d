package blogfront

import (
	"net/url"
	"strings"
)

// disallowedPaths are kept out of every crawler's reach.
var disallowedPaths = []string{
	"/admin/",
	"/private/",
	"/profile/",
	"/my-blogs/",
	"/create-blog/",
	"/edit-blog/",
}

// RobotsTxt builds the robots.txt body for the site at baseURL.
func RobotsTxt(baseURL string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range disallowedPaths {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Sitemap: " + BuildURL(baseURL, "sitemap.xml") + "\n")
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		b.WriteString("Host: " + u.Host + "\n")
	}
	return b.String()
}
