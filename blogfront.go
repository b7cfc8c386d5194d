// Package blogfront serves the public site of the Daily World Blog: pages,
// category browsing, sign-in forms and the SEO layer (page metadata,
// sitemap, robots, RSS). All content comes from the content API through a
// Gateway; nothing is stored locally.
//
// Pages are rendered through ViewFuncs, so the look of the site lives in
// templ components supplied by the caller.
package blogfront

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// SessionUser is what the session remembers about a signed-in visitor.
type SessionUser struct {
	Name string
}

// ViewFuncs holds the templ components the handlers render. Layout wraps
// every page body and receives the page metadata for <head>.
type ViewFuncs struct {
	Layout         func(meta PageMetadata, body templ.Component) templ.Component
	Home           func(latest []BlogSummary) templ.Component
	About          func(cfg SiteConfig) templ.Component
	Contact        func(cfg SiteConfig) templ.Component
	BlogList       func(blogs []BlogSummary, page int, hasMore bool) templ.Component
	BlogDetail     func(blog BlogSummary) templ.Component
	CategoryList   func(categories []CategorySummary) templ.Component
	CategoryDetail func(category CategorySummary) templ.Component
	Login          func(form LoginForm, errs FormErrors, csrfToken string) templ.Component
	Register       func(form RegisterForm, errs FormErrors, csrfToken string) templ.Component
	BlogEditor     func(action string, draft BlogDraft, errs FormErrors, csrfToken string) templ.Component
	MyBlogs        func(user SessionUser) templ.Component
	Profile        func(user SessionUser, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App wires the gateway, the SEO components, handlers, middleware and
// views together.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Gateway  Gateway
	Views    ViewFuncs
	Metadata *Synthesizer
	Paths    *PathEnumerator
	Sitemap  *SitemapAssembler
	Guard    *Guard

	logger       Logger
	now          func() time.Time
	formLimiter  *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	setupOnce    sync.Once
	setupErr     error
}

// New creates a new App with the given configuration and views. Unless
// WithGateway is passed, the content API at cfg.APIURL is used.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		now:       time.Now,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		l := NewLogger("info")
		a.logger = l
		a.Echo.Logger = l
	} else if el, ok := a.logger.(echo.Logger); ok {
		a.Echo.Logger = el
	}
	if a.Gateway == nil {
		a.Gateway = NewHTTPGateway(cfg.APIURL, cfg.RequestTimeout, cfg.GatewayRPS)
	}

	a.Metadata = NewSynthesizer(a.Config, a.Gateway, a.logger)
	a.Paths = NewPathEnumerator(a.Gateway, cfg.MaxCollectionSize, cfg.SitemapPageSize, a.logger)
	a.Sitemap = NewSitemapAssembler(cfg.URL, a.Paths, a.now, a.logger)
	a.Guard = NewGuard(a.Gateway, a.logger)
	a.formLimiter = NewLoginLimiter(5, time.Minute)

	return a
}

// Setup validates the config and installs middleware and routes. It is
// called by Start; tests call it directly and drive a.Echo as a handler.
func (a *App) Setup() error {
	a.setupOnce.Do(func() {
		if err := a.Config.Validate(); err != nil {
			a.setupErr = err
			return
		}
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.setupErr
}

// Start sets the app up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.logger.Infof("serving %s on %s (content API %s)", a.Config.URL, a.Config.Addr, a.Config.APIURL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("blogfront: serve: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (a *App) Shutdown(ctx context.Context) error {
	a.formLimiter.Stop()
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	assetHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets))))
	e.GET("/public/styles.css", assetHandler)
	e.FileFS("/favicon.svg", "favicon.svg", assets)
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/about", a.handleAbout)
	e.GET("/contact", a.handleContact)
	e.GET("/blogs", a.handleBlogList)
	e.GET("/blogs/:slug", a.handleBlogDetail)
	e.GET("/categories", a.handleCategoryList)
	e.GET("/categories/:slug", a.handleCategoryDetail)

	// Sign-in forms
	e.GET("/login", a.handleLoginForm)
	e.POST("/login", a.handleLogin)
	e.GET("/register", a.handleRegisterForm)
	e.POST("/register", a.handleRegister)
	e.POST("/logout", handleLogout)

	// Authoring pages, signed-in visitors only
	e.GET("/create-blog", a.handleCreateBlog, requireSession)
	e.POST("/create-blog", a.handleSaveBlog, requireSession)
	e.GET("/edit-blog/:slug", a.handleEditBlog, requireSession)
	e.POST("/edit-blog/:slug", a.handleSaveBlog, requireSession)
	e.GET("/my-blogs", a.handleMyBlogs, requireSession)
	e.GET("/profile", a.handleProfile, requireSession)
}
