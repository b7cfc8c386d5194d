// Package views holds the default templ components of the site. The
// components write HTML directly so the package needs no templ codegen step.
package views

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dailyworld/blogfront"
)

// Default returns the stock component set.
func Default() blogfront.ViewFuncs {
	return blogfront.ViewFuncs{
		Layout:         Layout,
		Home:           Home,
		About:          About,
		Contact:        Contact,
		BlogList:       BlogList,
		BlogDetail:     BlogDetail,
		CategoryList:   CategoryList,
		CategoryDetail: CategoryDetail,
		Login:          Login,
		Register:       Register,
		BlogEditor:     BlogEditor,
		MyBlogs:        MyBlogs,
		Profile:        Profile,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// component adapts a buffer-filling function to templ.Component. The page
// is built in memory so a failed child never leaves half a document behind.
func component(fill func(ctx context.Context, b *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		if err := fill(ctx, &b); err != nil {
			return err
		}
		_, err := w.Write(b.Bytes())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func metaName(b *bytes.Buffer, name, content string) {
	if content == "" {
		return
	}
	b.WriteString(`<meta name="` + name + `" content="` + esc(content) + `">`)
}

func metaProperty(b *bytes.Buffer, prop, content string) {
	if content == "" {
		return
	}
	b.WriteString(`<meta property="` + prop + `" content="` + esc(content) + `">`)
}

// Layout renders the document shell: every SEO tag from meta in <head>,
// then the site chrome around body.
func Layout(meta blogfront.PageMetadata, body templ.Component) templ.Component {
	return component(func(ctx context.Context, b *bytes.Buffer) error {
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString("<title>" + esc(meta.Title) + "</title>")
		metaName(b, "description", meta.Description)
		metaName(b, "robots", meta.Robots.String())
		metaName(b, "keywords", strings.Join(meta.Keywords, ", "))
		if meta.CanonicalURL != "" {
			b.WriteString(`<link rel="canonical" href="` + esc(meta.CanonicalURL) + `">`)
		}

		og := meta.OpenGraph
		metaProperty(b, "og:type", og.Type)
		metaProperty(b, "og:title", og.Title)
		metaProperty(b, "og:description", og.Description)
		metaProperty(b, "og:url", og.URL)
		metaProperty(b, "og:site_name", og.SiteName)
		// Card schemas expect the image tags even when there is no image.
		b.WriteString(`<meta property="og:image" content="` + esc(og.Image) + `">`)

		tw := meta.Twitter
		metaName(b, "twitter:card", tw.Card)
		metaName(b, "twitter:title", tw.Title)
		metaName(b, "twitter:description", tw.Description)
		b.WriteString(`<meta name="twitter:image" content="` + esc(tw.Image) + `">`)

		if meta.JSONLD != "" {
			// encoding/json escapes <, > and & so the block cannot close the script early.
			b.WriteString(`<script type="application/ld+json">` + meta.JSONLD + `</script>`)
		}
		b.WriteString(`<link rel="alternate" type="application/rss+xml" title="RSS" href="/feed.xml">`)
		b.WriteString(`<link rel="icon" type="image/svg+xml" href="/favicon.svg">`)
		b.WriteString(`<link rel="stylesheet" href="/public/styles.css">`)
		b.WriteString("</head><body>")

		siteName := og.SiteName
		b.WriteString(`<header class="site-header"><a class="brand" href="/">` + esc(siteName) + `</a><nav>`)
		b.WriteString(`<a href="/blogs">Blogs</a><a href="/categories">Categories</a><a href="/about">About</a><a href="/contact">Contact</a><a href="/my-blogs">My blogs</a>`)
		b.WriteString("</nav></header><main>")
		if body != nil {
			if err := body.Render(ctx, b); err != nil {
				return err
			}
		}
		b.WriteString(`</main><footer class="site-footer"><p>` + esc(siteName) + ` &middot; <a href="/feed.xml">RSS</a> &middot; <a href="/sitemap.xml">Sitemap</a></p></footer>`)
		b.WriteString("</body></html>")
		return nil
	})
}

// ServerError is rendered on its own, without the layout, so it works even
// when page metadata could not be built.
func ServerError() templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="robots" content="noindex, nofollow"><title>Something went wrong</title></head>`)
		b.WriteString(`<body><main><h1>Something went wrong</h1><p>Please try again in a moment.</p><p><a href="/">Back to the home page</a></p></main></body></html>`)
		return nil
	})
}
