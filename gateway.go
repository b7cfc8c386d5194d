package blogfront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ContentGateway reads categories and blogs from the content API.
type ContentGateway interface {
	GetCategory(ctx context.Context, slug string) (CategorySummary, error)
	ListCategories(ctx context.Context) ([]CategorySummary, error)
	ListPublishedBlogs(ctx context.Context, limit, page int) ([]BlogSummary, error)
	GetBlog(ctx context.Context, slug string) (BlogSummary, error)
}

// AuthGateway forwards the login and register forms to the content API.
type AuthGateway interface {
	Login(ctx context.Context, form LoginForm) (Account, error)
	Register(ctx context.Context, form RegisterForm) (Account, error)
}

// AuthorGateway saves articles written in the editor on behalf of a
// signed-in author. An empty slug creates a new article.
type AuthorGateway interface {
	SaveBlog(ctx context.Context, token, slug string, draft BlogDraft) (BlogSummary, error)
}

// Gateway is everything the site needs from the content API.
type Gateway interface {
	ContentGateway
	AuthGateway
	AuthorGateway
}

// Account is the user returned by a successful login or registration.
// Token is the API bearer token issued with it.
type Account struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"-"`
}

// envelope is the response wrapper used by every content API endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// HTTPGateway is the Gateway backed by the content API over HTTP.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// NewHTTPGateway creates a gateway for the API rooted at baseURL. Every
// request is bounded by timeout; rps > 0 limits the outbound request rate.
func NewHTTPGateway(baseURL string, timeout time.Duration, rps float64) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
	}
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return g
}

// GetCategory fetches GET /blog-categories/{slug}.
func (g *HTTPGateway) GetCategory(ctx context.Context, slug string) (CategorySummary, error) {
	var cat CategorySummary
	err := g.do(ctx, http.MethodGet, "/blog-categories/"+url.PathEscape(slug), nil, nil, &cat)
	return cat, err
}

// ListCategories fetches GET /blog-categories.
func (g *HTTPGateway) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	var cats []CategorySummary
	err := g.do(ctx, http.MethodGet, "/blog-categories", nil, nil, &cats)
	return cats, err
}

// ListPublishedBlogs fetches GET /blogs/published?limit=N&page=P. Page is
// 1-based and omitted when zero.
func (g *HTTPGateway) ListPublishedBlogs(ctx context.Context, limit, page int) ([]BlogSummary, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var blogs []BlogSummary
	err := g.do(ctx, http.MethodGet, "/blogs/published", q, nil, &blogs)
	return blogs, err
}

// GetBlog fetches GET /blogs/{slug}.
func (g *HTTPGateway) GetBlog(ctx context.Context, slug string) (BlogSummary, error) {
	var blog BlogSummary
	err := g.do(ctx, http.MethodGet, "/blogs/"+url.PathEscape(slug), nil, nil, &blog)
	return blog, err
}

type authPayload struct {
	User  Account `json:"user"`
	Token string  `json:"token"`
}

func (p authPayload) account() Account {
	acct := p.User
	acct.Token = p.Token
	return acct
}

// Login posts the form to POST /auth/login.
func (g *HTTPGateway) Login(ctx context.Context, form LoginForm) (Account, error) {
	var out authPayload
	err := g.do(ctx, http.MethodPost, "/auth/login", nil, form, &out)
	return out.account(), err
}

// Register posts the form to POST /auth/register.
func (g *HTTPGateway) Register(ctx context.Context, form RegisterForm) (Account, error) {
	var out authPayload
	err := g.do(ctx, http.MethodPost, "/auth/register", nil, form, &out)
	return out.account(), err
}

// SaveBlog posts a new article to POST /blogs, or replaces an existing one
// with PUT /blogs/{slug}, authenticated with the author's bearer token.
func (g *HTTPGateway) SaveBlog(ctx context.Context, token, slug string, draft BlogDraft) (BlogSummary, error) {
	method, path := http.MethodPost, "/blogs"
	if slug != "" {
		method, path = http.MethodPut, "/blogs/"+url.PathEscape(slug)
	}
	var blog BlogSummary
	err := g.doAs(ctx, token, method, path, nil, draft, &blog)
	return blog, err
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return g.doAs(ctx, "", method, path, query, body, out)
}

// doAs performs one API call and decodes the envelope's data into out. A
// non-empty token is sent as a bearer credential.
func (g *HTTPGateway) doAs(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return &FetchError{Kind: KindUnavailable, Path: path, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return &FetchError{Kind: KindUnavailable, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &FetchError{Kind: KindUnavailable, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &FetchError{Kind: KindUnavailable, Path: path, Status: resp.StatusCode, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &FetchError{Kind: KindNotFound, Path: path, Status: resp.StatusCode, Err: messageErr(env.Message)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &FetchError{Kind: KindUnavailable, Path: path, Status: resp.StatusCode, Err: messageErr(env.Message)}
	case decodeErr != nil:
		return &FetchError{Kind: KindMalformed, Path: path, Status: resp.StatusCode, Err: decodeErr}
	case !env.Success:
		return &FetchError{Kind: KindUnavailable, Path: path, Status: resp.StatusCode, Err: messageErr(env.Message)}
	case len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")):
		return &FetchError{Kind: KindMalformed, Path: path, Status: resp.StatusCode, Err: errors.New("missing data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &FetchError{Kind: KindMalformed, Path: path, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func messageErr(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}
