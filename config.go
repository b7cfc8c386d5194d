package blogfront

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SiteConfig holds all configuration for a blogfront site.
type SiteConfig struct {
	Name        string `validate:"required"`          // Site name (default "Daily World Blog")
	URL         string `validate:"required,http_url"` // Canonical base URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Publisher name for JSON-LD
	APIURL      string `validate:"required,http_url"` // Content API base URL (default "http://localhost:8080/api")
	Addr        string `validate:"required"`          // Listen address (default ":3000")

	SessionSecret string `validate:"required,min=16"` // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	RequestTimeout    time.Duration `validate:"gt=0"`  // Per-request gateway timeout (default 5s)
	GatewayRPS        float64       `validate:"gte=0"` // Outbound request rate; 0 disables limiting
	MaxCollectionSize int           `validate:"gt=0"`  // Upper bound on enumerated collections (default 1000)
	SitemapPageSize   int           `validate:"gt=0"`  // Blogs fetched per sitemap page (default 100)
	FeedSize          int           `validate:"gt=0"`  // Items in /feed.xml (default 20)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Daily World Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.APIURL == "" {
		c.APIURL = "http://localhost:8080/api"
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.MaxCollectionSize == 0 {
		c.MaxCollectionSize = 1000
	}
	if c.SitemapPageSize == 0 {
		c.SitemapPageSize = 100
	}
	if c.FeedSize == 0 {
		c.FeedSize = 20
	}
}

// Validate applies defaults and checks the config.
func (c *SiteConfig) Validate() error {
	c.setDefaults()
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("blogfront: invalid config: %w", err)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithGateway replaces the HTTP gateway built from the config.
func WithGateway(g Gateway) Option {
	return func(a *App) {
		a.Gateway = g
	}
}

// WithLogger sets the logger shared by the server and the SEO components.
func WithLogger(l Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithClock overrides time.Now, used for sitemap fallbacks.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// ConfigFromEnv builds a SiteConfig from environment variables. Unset
// variables keep their defaults; malformed numbers and durations are errors.
func ConfigFromEnv() (SiteConfig, error) {
	cfg := SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		APIURL:        os.Getenv("API_URL"),
		Addr:          os.Getenv("ADDR"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}
	var err error
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT"); err != nil {
		return cfg, err
	}
	if cfg.GatewayRPS, err = envFloat("GATEWAY_RPS"); err != nil {
		return cfg, err
	}
	if cfg.MaxCollectionSize, err = envInt("MAX_COLLECTION_SIZE"); err != nil {
		return cfg, err
	}
	if cfg.SitemapPageSize, err = envInt("SITEMAP_PAGE_SIZE"); err != nil {
		return cfg, err
	}
	if cfg.FeedSize, err = envInt("FEED_SIZE"); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func envDuration(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("blogfront: %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("blogfront: %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("blogfront: %s: %w", key, err)
	}
	return f, nil
}
