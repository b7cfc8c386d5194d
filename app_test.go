package blogfront_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyworld/blogfront"
	"github.com/dailyworld/blogfront/views"
)

func newTestApp(t *testing.T, gw *blogfront.FakeGateway) *blogfront.App {
	t.Helper()
	cfg := blogfront.SiteConfig{
		Name:          "Daily World Blog",
		URL:           "https://dailyworld.example",
		SessionSecret: "0123456789abcdef0123456789abcdef",
	}
	app := blogfront.New(cfg, views.Default(),
		blogfront.WithGateway(gw),
		blogfront.WithLogger(blogfront.NewLogger("error")),
		blogfront.WithStaticDir(t.TempDir()),
	)
	require.NoError(t, app.Setup())
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

func sampleGateway() *blogfront.FakeGateway {
	created, _ := blogfront.ParseTimestamp("2024-01-01")
	return &blogfront.FakeGateway{
		Categories: []blogfront.CategorySummary{{ID: "c1", Name: "Tech", Slug: "tech", Description: "Gadgets and code."}},
		Blogs: []blogfront.BlogSummary{{
			Slug:      "hello",
			Title:     "Hello World",
			Content:   "# Hello\n\nFirst post.",
			CreatedAt: created,
			Author:    &blogfront.Author{Name: "Ann"},
		}},
		Account: blogfront.Account{Name: "Ann"},
	}
}

func serve(app *blogfront.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func get(app *blogfront.App, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return serve(app, req)
}

func postForm(app *blogfront.App, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return serve(app, req)
}

var csrfField = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// csrfFrom loads a form page and returns its CSRF token and cookies.
func csrfFrom(t *testing.T, app *blogfront.App, target string) (string, []*http.Cookie) {
	t.Helper()
	rec := get(app, target)
	require.Equal(t, http.StatusOK, rec.Code)
	m := csrfField.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "no csrf field in %s", target)
	return m[1], rec.Result().Cookies()
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t, sampleGateway())

	tests := []struct {
		path  string
		title string
	}{
		{"/", "<title>Daily World Blog | Latest Articles &amp; Insights</title>"},
		{"/about", "<title>About Us | Daily World Blog</title>"},
		{"/contact", "<title>Contact Us | Daily World Blog</title>"},
		{"/blogs", "<title>All Articles | Daily World Blog</title>"},
		{"/categories", "<title>Categories | Daily World Blog</title>"},
		{"/blogs/hello", "<title>Hello World | Daily World Blog</title>"},
		{"/categories/tech", "<title>Tech Articles &amp; Insights | Daily World Blog</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(app, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.title)
			assert.Contains(t, rec.Body.String(), `<meta name="robots" content="index, follow">`)
			assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestCategoryPageMetadata(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	body := get(app, "/categories/tech").Body.String()

	assert.Contains(t, body, `<link rel="canonical" href="https://dailyworld.example/categories/tech">`)
	assert.Contains(t, body, `<meta name="description" content="Gadgets and code.">`)
	assert.Contains(t, body, `<meta property="og:url" content="https://dailyworld.example/categories/tech">`)
	assert.Contains(t, body, `<meta name="twitter:card" content="summary">`)
	assert.Contains(t, body, `<meta name="keywords" content="Tech, Tech articles, Tech blog, Daily World Blog">`)
	assert.Contains(t, body, `<script type="application/ld+json">`)
}

func TestSocialImageTagsAlwaysPresent(t *testing.T) {
	gw := sampleGateway()
	gw.Blogs[0].FeaturedImage = "https://cdn.example/hello.png"
	app := newTestApp(t, gw)

	bare := get(app, "/categories/tech").Body.String()
	assert.Contains(t, bare, `<meta property="og:image" content="">`)
	assert.Contains(t, bare, `<meta name="twitter:image" content="">`)

	withImage := get(app, "/blogs/hello").Body.String()
	assert.Contains(t, withImage, `<meta property="og:image" content="https://cdn.example/hello.png">`)
	assert.Contains(t, withImage, `<meta name="twitter:image" content="https://cdn.example/hello.png">`)
}

func TestBlogPageRendersSanitizedContent(t *testing.T) {
	gw := sampleGateway()
	gw.Blogs[0].Content = "Safe text\n\n<script>alert(1)</script>"
	body := get(newTestApp(t, gw), "/blogs/hello").Body.String()

	assert.Contains(t, body, "Safe text")
	assert.NotContains(t, body, "alert(1)")
	assert.Contains(t, body, "By Ann")
}

func TestMissingEntitiesRenderNotFound(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	for _, path := range []string{"/categories/nope", "/blogs/nope", "/no-such-page"} {
		rec := get(app, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Page not found", path)
		assert.Contains(t, rec.Body.String(), `content="noindex, nofollow"`, path)
	}
}

func TestUpstreamErrorRendersNotFound(t *testing.T) {
	down := &blogfront.FetchError{Kind: blogfront.KindUnavailable, Path: "/", Status: 502}
	app := newTestApp(t, &blogfront.FakeGateway{CategoriesErr: down, BlogsErr: down})

	assert.Equal(t, http.StatusNotFound, get(app, "/categories/tech").Code)
	assert.Equal(t, http.StatusNotFound, get(app, "/blogs/hello").Code)

	// listing pages degrade to empty instead of failing
	assert.Equal(t, http.StatusOK, get(app, "/").Code)
	assert.Equal(t, http.StatusOK, get(app, "/blogs").Code)
	assert.Equal(t, http.StatusOK, get(app, "/categories").Code)
}

func TestTrailingSlashRedirects(t *testing.T) {
	rec := get(newTestApp(t, sampleGateway()), "/blogs/hello/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blogs/hello", rec.Header().Get("Location"))
}

func TestBlogListPaginationCanonical(t *testing.T) {
	body := get(newTestApp(t, sampleGateway()), "/blogs?page=2").Body.String()
	assert.Contains(t, body, `<link rel="canonical" href="https://dailyworld.example/blogs?page=2">`)
	assert.Contains(t, body, `rel="prev" href="/blogs"`)
}

func TestSitemapEndpoint(t *testing.T) {
	rec := get(newTestApp(t, sampleGateway()), "/sitemap.xml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/xml"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	for _, loc := range []string{
		"https://dailyworld.example",
		"https://dailyworld.example/blogs",
		"https://dailyworld.example/about",
		"https://dailyworld.example/contact",
		"https://dailyworld.example/blogs/hello",
		"https://dailyworld.example/categories/tech",
	} {
		assert.Contains(t, body, "<loc>"+loc+"</loc>")
	}
}

func TestSitemapEndpointWithUpstreamDown(t *testing.T) {
	down := errors.New("connection refused")
	rec := get(newTestApp(t, &blogfront.FakeGateway{CategoriesErr: down, BlogsErr: down}), "/sitemap.xml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, strings.Count(rec.Body.String(), "<loc>"))
}

func TestRobotsAndFeedEndpoints(t *testing.T) {
	app := newTestApp(t, sampleGateway())

	robots := get(app, "/robots.txt")
	assert.Equal(t, http.StatusOK, robots.Code)
	assert.Contains(t, robots.Body.String(), "Sitemap: https://dailyworld.example/sitemap.xml")
	assert.Contains(t, robots.Body.String(), "Disallow: /my-blogs/")

	feed := get(app, "/feed.xml")
	assert.Equal(t, http.StatusOK, feed.Code)
	assert.True(t, strings.HasPrefix(feed.Header().Get("Content-Type"), "application/rss+xml"))
	assert.Contains(t, feed.Body.String(), "<link>https://dailyworld.example/blogs/hello</link>")
}

func TestPrivatePagesRequireSession(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	for _, path := range []string{"/my-blogs", "/profile", "/create-blog", "/edit-blog/hello"} {
		rec := get(app, path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}
}

func TestLoginFlow(t *testing.T) {
	gw := sampleGateway()
	app := newTestApp(t, gw)

	token, cookies := csrfFrom(t, app, "/login?next=/profile")
	rec := postForm(app, "/login", url.Values{
		"email":    {" Ann@Example.com "},
		"password": {"secret"},
		"next":     {"/profile"},
		"_csrf":    {token},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
	assert.Equal(t, 1, gw.Calls("Login"))

	session := rec.Result().Cookies()
	profile := get(app, "/profile", session...)
	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), "Ann")
	assert.Equal(t, "noindex, nofollow", profile.Header().Get("X-Robots-Tag"))
	assert.Equal(t, "no-store", profile.Header().Get("Cache-Control"))

	edit := get(app, "/edit-blog/hello", session...)
	assert.Equal(t, http.StatusOK, edit.Code)
	assert.Contains(t, edit.Body.String(), `value="Hello World"`)
	assert.Equal(t, http.StatusNotFound, get(app, "/edit-blog/missing", session...).Code)
}

func TestLoginRequiresCSRFToken(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	rec := postForm(app, "/login", url.Values{"email": {"ann@example.com"}, "password": {"secret"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		loginErr error
		form     url.Values
		code     int
		message  string
	}{
		{
			name:    "invalid form",
			form:    url.Values{"email": {"nope"}, "password": {"x"}},
			code:    http.StatusUnprocessableEntity,
			message: "Enter a valid email address.",
		},
		{
			name:     "rejected",
			loginErr: &blogfront.FetchError{Kind: blogfront.KindUnavailable, Status: 401, Err: errors.New("Invalid credentials")},
			form:     url.Values{"email": {"ann@example.com"}, "password": {"wrong"}},
			code:     http.StatusUnprocessableEntity,
			message:  "Invalid credentials",
		},
		{
			name:     "rejected without message",
			loginErr: &blogfront.FetchError{Kind: blogfront.KindUnavailable, Status: 401},
			form:     url.Values{"email": {"ann@example.com"}, "password": {"wrong"}},
			code:     http.StatusUnprocessableEntity,
			message:  "Invalid email or password.",
		},
		{
			name:     "api down",
			loginErr: &blogfront.FetchError{Kind: blogfront.KindUnavailable, Err: errors.New("dial tcp: refused")},
			form:     url.Values{"email": {"ann@example.com"}, "password": {"secret"}},
			code:     http.StatusServiceUnavailable,
			message:  "We could not reach the server.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := sampleGateway()
			gw.LoginErr = tt.loginErr
			app := newTestApp(t, gw)

			token, cookies := csrfFrom(t, app, "/login")
			tt.form.Set("_csrf", token)
			rec := postForm(app, "/login", tt.form, cookies...)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.NotContains(t, rec.Body.String(), `name="password" value=`)
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	gw := sampleGateway()
	gw.LoginErr = &blogfront.FetchError{Kind: blogfront.KindUnavailable, Status: 401}
	app := newTestApp(t, gw)
	token, cookies := csrfFrom(t, app, "/login")

	form := url.Values{"email": {"ann@example.com"}, "password": {"wrong"}, "_csrf": {token}}
	var last int
	for i := 0; i < 6; i++ {
		last = postForm(app, "/login", form, cookies...).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
	assert.Equal(t, 5, gw.Calls("Login"))
}

func TestRegisterFlow(t *testing.T) {
	gw := sampleGateway()
	app := newTestApp(t, gw)

	token, cookies := csrfFrom(t, app, "/register")
	rec := postForm(app, "/register", url.Values{
		"name":            {"Bea"},
		"email":           {"bea@example.com"},
		"password":        {"longenough"},
		"confirmPassword": {"longenough"},
		"_csrf":           {token},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/my-blogs", rec.Header().Get("Location"))

	mine := get(app, "/my-blogs", rec.Result().Cookies()...)
	assert.Equal(t, http.StatusOK, mine.Code)
	assert.Contains(t, mine.Body.String(), "Signed in as Bea.")
}

func TestRegisterMismatchedPasswords(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	token, cookies := csrfFrom(t, app, "/register")
	rec := postForm(app, "/register", url.Values{
		"name":            {"Bea"},
		"email":           {"bea@example.com"},
		"password":        {"longenough"},
		"confirmPassword": {"different"},
		"_csrf":           {token},
	}, cookies...)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")
	assert.Contains(t, rec.Body.String(), `value="bea@example.com"`)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	token, cookies := csrfFrom(t, app, "/login")
	login := postForm(app, "/login", url.Values{
		"email": {"ann@example.com"}, "password": {"secret"}, "_csrf": {token},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, login.Code)
	session := login.Result().Cookies()

	rec := postForm(app, "/logout", url.Values{"_csrf": {token}}, append(cookies, session...)...)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "blogfront_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie should be expired")
}

// signIn logs in through the form and returns the CSRF token and the
// cookies of the signed-in visitor.
func signIn(t *testing.T, app *blogfront.App) (string, []*http.Cookie) {
	t.Helper()
	token, cookies := csrfFrom(t, app, "/login")
	login := postForm(app, "/login", url.Values{
		"email": {"ann@example.com"}, "password": {"secret"}, "_csrf": {token},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, login.Code, login.Body.String())
	return token, append(cookies, login.Result().Cookies()...)
}

func TestBlogEditorPostsBackToServer(t *testing.T) {
	app := newTestApp(t, sampleGateway())
	_, cookies := signIn(t, app)

	create := get(app, "/create-blog", cookies...).Body.String()
	assert.Contains(t, create, `<form id="blog-editor" method="post" action="/create-blog">`)
	assert.Contains(t, create, `name="_csrf"`)

	edit := get(app, "/edit-blog/hello", cookies...).Body.String()
	assert.Contains(t, edit, `action="/edit-blog/hello"`)
	assert.Contains(t, edit, "# Hello")
	assert.NotContains(t, edit, "editor.js")
}

func TestSaveBlogForwardsDraftWithToken(t *testing.T) {
	tests := []struct {
		name   string
		target string
		slug   string
	}{
		{"create", "/create-blog", ""},
		{"edit", "/edit-blog/hello", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := sampleGateway()
			gw.Account.Token = "tok-ann"
			app := newTestApp(t, gw)
			token, cookies := signIn(t, app)

			rec := postForm(app, tt.target, url.Values{
				"title":   {"  Travel notes "},
				"excerpt": {"Short"},
				"content": {"Day one.\n\n"},
				"_csrf":   {token},
			}, cookies...)
			require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
			assert.Equal(t, "/my-blogs", rec.Header().Get("Location"))

			require.Len(t, gw.Saved, 1)
			assert.Equal(t, blogfront.SavedDraft{
				Token: "tok-ann",
				Slug:  tt.slug,
				Draft: blogfront.BlogDraft{Title: "Travel notes", Excerpt: "Short", Content: "Day one."},
			}, gw.Saved[0])
		})
	}
}

func TestSaveBlogErrors(t *testing.T) {
	tests := []struct {
		name    string
		saveErr error
		form    url.Values
		code    int
		message string
	}{
		{
			name:    "invalid draft",
			form:    url.Values{"title": {""}, "content": {"Kept body"}},
			code:    http.StatusUnprocessableEntity,
			message: "This field is required.",
		},
		{
			name:    "rejected",
			saveErr: &blogfront.FetchError{Kind: blogfront.KindUnavailable, Status: 400, Err: errors.New("Title already taken")},
			form:    url.Values{"title": {"Hello World"}, "content": {"Kept body"}},
			code:    http.StatusUnprocessableEntity,
			message: "Title already taken",
		},
		{
			name:    "api down",
			saveErr: errors.New("connection refused"),
			form:    url.Values{"title": {"Hello World"}, "content": {"Kept body"}},
			code:    http.StatusServiceUnavailable,
			message: "We could not reach the server.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := sampleGateway()
			gw.SaveErr = tt.saveErr
			app := newTestApp(t, gw)
			token, cookies := signIn(t, app)

			tt.form.Set("_csrf", token)
			rec := postForm(app, "/create-blog", tt.form, cookies...)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Contains(t, rec.Body.String(), "Kept body")
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			if tt.saveErr == nil {
				assert.Zero(t, gw.Calls("SaveBlog"))
			}
		})
	}
}

func TestSaveBlogExpiredTokenSignsOut(t *testing.T) {
	gw := sampleGateway()
	gw.SaveErr = &blogfront.FetchError{Kind: blogfront.KindUnavailable, Status: 401}
	app := newTestApp(t, gw)
	token, cookies := signIn(t, app)

	rec := postForm(app, "/edit-blog/hello", url.Values{
		"title": {"Hello World"}, "content": {"Body"}, "_csrf": {token},
	}, cookies...)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/edit-blog/hello"), rec.Header().Get("Location"))
}

func TestSaveBlogGuards(t *testing.T) {
	gw := sampleGateway()
	app := newTestApp(t, gw)

	anon := postForm(app, "/create-blog", url.Values{"title": {"Hello"}, "content": {"Body"}})
	assert.Equal(t, http.StatusForbidden, anon.Code)

	token, cookies := csrfFrom(t, app, "/login")
	noSession := postForm(app, "/create-blog", url.Values{
		"title": {"Hello"}, "content": {"Body"}, "_csrf": {token},
	}, cookies...)
	assert.Equal(t, http.StatusSeeOther, noSession.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/create-blog"), noSession.Header().Get("Location"))

	_, signedIn := signIn(t, app)
	noToken := postForm(app, "/create-blog", url.Values{"title": {"Hello"}, "content": {"Body"}}, signedIn...)
	assert.Equal(t, http.StatusForbidden, noToken.Code)
	assert.Zero(t, gw.Calls("SaveBlog"))
}

func TestEmbeddedAssets(t *testing.T) {
	app := newTestApp(t, sampleGateway())

	css := get(app, "/public/styles.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Equal(t, "public, max-age=31536000, immutable", css.Header().Get("Cache-Control"))
	assert.Contains(t, css.Body.String(), ".blog-grid")

	icon := get(app, "/favicon.svg")
	assert.Equal(t, http.StatusOK, icon.Code)
	assert.Contains(t, icon.Body.String(), "<svg")
}

func TestOptionsCustomRoutesAndClock(t *testing.T) {
	clock := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := blogfront.SiteConfig{URL: "https://dailyworld.example", SessionSecret: "0123456789abcdef"}
	app := blogfront.New(cfg, views.Default(),
		blogfront.WithGateway(&blogfront.FakeGateway{}),
		blogfront.WithLogger(blogfront.NewLogger("error")),
		blogfront.WithClock(func() time.Time { return clock }),
		blogfront.WithCustomRoutes(func(a *blogfront.App) {
			a.Echo.GET("/healthz", func(c echo.Context) error {
				return blogfront.Render(c, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
					_, err := io.WriteString(w, "ok")
					return err
				}))
			})
		}),
	)
	require.NoError(t, app.Setup())
	defer app.Shutdown(context.Background())

	health := get(app, "/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())

	sitemap := get(app, "/sitemap.xml").Body.String()
	assert.Contains(t, sitemap, "<lastmod>2030-01-02T03:04:05Z</lastmod>")
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	app := blogfront.New(blogfront.SiteConfig{}, views.Default(), blogfront.WithGateway(&blogfront.FakeGateway{}))
	defer app.Shutdown(context.Background())
	assert.Error(t, app.Setup())
}
