package blogfront

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	homeBlogCount = 6
	blogPageSize  = 12
)

func (a *App) handleHome(c echo.Context) error {
	latest, err := a.Gateway.ListPublishedBlogs(c.Request().Context(), homeBlogCount, 1)
	if err != nil {
		c.Logger().Warnf("home: latest blogs unavailable: %v", err)
		latest = nil
	}
	return a.renderPage(c, http.StatusOK, a.Metadata.Static("/"), a.Views.Home(latest))
}

func (a *App) handleAbout(c echo.Context) error {
	return a.renderPage(c, http.StatusOK, a.Metadata.Static("/about"), a.Views.About(a.Config))
}

func (a *App) handleContact(c echo.Context) error {
	return a.renderPage(c, http.StatusOK, a.Metadata.Static("/contact"), a.Views.Contact(a.Config))
}

func (a *App) handleBlogList(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	blogs, err := a.Gateway.ListPublishedBlogs(c.Request().Context(), blogPageSize, page)
	if err != nil {
		c.Logger().Warnf("blog list page %d unavailable: %v", page, err)
		blogs = nil
	}
	meta := a.Metadata.Static("/blogs")
	if page > 1 {
		meta.CanonicalURL += "?page=" + strconv.Itoa(page)
		meta.OpenGraph.URL = meta.CanonicalURL
	}
	return a.renderPage(c, http.StatusOK, meta, a.Views.BlogList(blogs, page, len(blogs) == blogPageSize))
}

func (a *App) handleBlogDetail(c echo.Context) error {
	slug := c.Param("slug")
	blog, res := a.Guard.Blog(c.Request().Context(), slug)
	if !res.Found() {
		return a.renderNotFound(c)
	}
	return a.renderPage(c, http.StatusOK, a.Metadata.ForBlog(slug, blog), a.Views.BlogDetail(blog))
}

func (a *App) handleCategoryList(c echo.Context) error {
	cats, err := a.Gateway.ListCategories(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("category list unavailable: %v", err)
		cats = nil
	}
	return a.renderPage(c, http.StatusOK, a.Metadata.Static("/categories"), a.Views.CategoryList(cats))
}

func (a *App) handleCategoryDetail(c echo.Context) error {
	slug := c.Param("slug")
	cat, res := a.Guard.Category(c.Request().Context(), slug)
	if !res.Found() {
		return a.renderNotFound(c)
	}
	return a.renderPage(c, http.StatusOK, a.Metadata.ForCategory(slug, cat), a.Views.CategoryDetail(cat))
}

func (a *App) handleSitemap(c echo.Context) error {
	manifest := a.Sitemap.Build(c.Request().Context())
	if manifest.Degraded() {
		c.Logger().Warnf("sitemap served without %d source(s): %v", len(manifest.Failures), errors.Join(manifest.Failures...))
	}
	var buf bytes.Buffer
	if err := manifest.WriteXML(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, RobotsTxt(a.Config.URL))
}

func (a *App) handleFeed(c echo.Context) error {
	blogs, err := a.Gateway.ListPublishedBlogs(c.Request().Context(), a.Config.FeedSize, 1)
	if err != nil {
		c.Logger().Warnf("feed: blogs unavailable: %v", err)
		blogs = nil
	}
	var buf bytes.Buffer
	if err := WriteRSS(&buf, a.Config, blogs); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
