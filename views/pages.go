package views

import (
	"bytes"
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dailyworld/blogfront"
	"github.com/dailyworld/blogfront/excerpt"
)

const dateLayout = "January 2, 2006"

func blogHref(slug string) string {
	return "/blogs/" + blogfront.PathEscape(slug)
}

func categoryHref(slug string) string {
	return "/categories/" + blogfront.PathEscape(slug)
}

// blogCard is the teaser used by the home page and the blog list.
func blogCard(b *bytes.Buffer, blog blogfront.BlogSummary) {
	b.WriteString(`<article class="blog-card">`)
	if blog.FeaturedImage != "" {
		b.WriteString(`<img src="` + esc(blog.FeaturedImage) + `" alt="" loading="lazy">`)
	}
	title := blog.Title
	if title == "" {
		title = blog.Slug
	}
	b.WriteString(`<h2><a href="` + esc(blogHref(blog.Slug)) + `">` + esc(title) + `</a></h2>`)
	if !blog.CreatedAt.IsZero() {
		b.WriteString(`<time datetime="` + blog.CreatedAt.Format("2006-01-02") + `">` + blog.CreatedAt.Format(dateLayout) + `</time>`)
	}
	summary := blog.Excerpt
	if summary == "" {
		summary = excerpt.Summarize(blog.Content, 200)
	}
	if summary != "" {
		b.WriteString("<p>" + esc(summary) + "</p>")
	}
	b.WriteString("</article>")
}

func blogCards(b *bytes.Buffer, blogs []blogfront.BlogSummary, empty string) {
	if len(blogs) == 0 {
		b.WriteString(`<p class="empty">` + esc(empty) + "</p>")
		return
	}
	b.WriteString(`<div class="blog-grid">`)
	for _, blog := range blogs {
		if blog.Slug == "" {
			continue
		}
		blogCard(b, blog)
	}
	b.WriteString("</div>")
}

// Home shows the newest posts.
func Home(latest []blogfront.BlogSummary) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<section class="hero"><h1>Stories from around the world</h1><p>Fresh writing every day.</p></section>`)
		b.WriteString("<section><h2>Latest articles</h2>")
		blogCards(b, latest, "No articles yet. Check back soon.")
		b.WriteString(`<p><a href="/blogs">All articles</a></p></section>`)
		return nil
	})
}

func About(cfg blogfront.SiteConfig) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString("<h1>About " + esc(cfg.Name) + "</h1>")
		if cfg.Description != "" {
			b.WriteString("<p>" + esc(cfg.Description) + "</p>")
		}
		b.WriteString("<p>Writers from every corner of the globe share news, ideas and stories here.</p>")
		return nil
	})
}

func Contact(cfg blogfront.SiteConfig) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString("<h1>Contact</h1><p>Questions or feedback for " + esc(cfg.Name) + "? We would love to hear from you.</p>")
		if cfg.Author != "" {
			b.WriteString("<p>Editor: " + esc(cfg.Author) + "</p>")
		}
		return nil
	})
}

// BlogList is one page of published posts with previous/next links.
func BlogList(blogs []blogfront.BlogSummary, page int, hasMore bool) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString("<h1>All articles</h1>")
		blogCards(b, blogs, "No articles to show.")
		if page > 1 || hasMore {
			b.WriteString(`<nav class="pagination">`)
			if page > 1 {
				prev := "/blogs"
				if page > 2 {
					prev += "?page=" + strconv.Itoa(page-1)
				}
				b.WriteString(`<a rel="prev" href="` + prev + `">Newer</a>`)
			}
			if hasMore {
				b.WriteString(`<a rel="next" href="/blogs?page=` + strconv.Itoa(page+1) + `">Older</a>`)
			}
			b.WriteString("</nav>")
		}
		return nil
	})
}

// BlogDetail renders a full post. The body is sanitized markdown.
func BlogDetail(blog blogfront.BlogSummary) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<article class="blog">`)
		b.WriteString("<h1>" + esc(blog.Title) + "</h1>")
		b.WriteString(`<p class="byline">`)
		if blog.Author != nil && blog.Author.Name != "" {
			b.WriteString("By " + esc(blog.Author.Name))
		}
		if !blog.CreatedAt.IsZero() {
			b.WriteString(` <time datetime="` + blog.CreatedAt.Format("2006-01-02") + `">` + blog.CreatedAt.Format(dateLayout) + `</time>`)
		}
		if blog.Category != nil && blog.Category.Slug != "" {
			b.WriteString(` in <a href="` + esc(categoryHref(blog.Category.Slug)) + `">` + esc(blog.Category.Name) + `</a>`)
		}
		b.WriteString("</p>")
		if blog.FeaturedImage != "" {
			b.WriteString(`<img class="featured" src="` + esc(blog.FeaturedImage) + `" alt="` + esc(blog.Title) + `">`)
		}
		b.WriteString(`<div class="prose">` + excerpt.HTML(blog.Content) + `</div>`)
		if len(blog.Tags) > 0 {
			b.WriteString(`<ul class="tags">`)
			for _, tag := range blog.Tags {
				b.WriteString("<li>" + esc(tag) + "</li>")
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</article>")
		return nil
	})
}

func CategoryList(categories []blogfront.CategorySummary) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString("<h1>Categories</h1>")
		if len(categories) == 0 {
			b.WriteString(`<p class="empty">No categories to show.</p>`)
			return nil
		}
		b.WriteString(`<ul class="categories">`)
		for _, cat := range categories {
			if cat.Slug == "" {
				continue
			}
			b.WriteString(`<li><a href="` + esc(categoryHref(cat.Slug)) + `">` + esc(cat.Name) + `</a>`)
			if cat.BlogCount != nil {
				b.WriteString(` <span class="count">` + strconv.Itoa(*cat.BlogCount) + `</span>`)
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		return nil
	})
}

func CategoryDetail(category blogfront.CategorySummary) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<section class="category">`)
		if category.ImageURL != "" {
			b.WriteString(`<img src="` + esc(category.ImageURL) + `" alt="">`)
		}
		b.WriteString("<h1>" + esc(category.Name) + "</h1>")
		if category.Description != "" {
			b.WriteString("<p>" + esc(category.Description) + "</p>")
		}
		if category.BlogCount != nil {
			b.WriteString(`<p class="count">` + strconv.Itoa(*category.BlogCount) + ` articles</p>`)
		}
		b.WriteString(`<p><a href="/blogs">Browse all articles</a></p></section>`)
		return nil
	})
}

func NotFound() templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<section class="not-found"><h1>Page not found</h1><p>The page you are looking for does not exist or has moved.</p><p><a href="/">Back to the home page</a></p></section>`)
		return nil
	})
}
