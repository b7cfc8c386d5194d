package blogfront

import (
	"context"
	"strings"
	"sync"
)

// FakeGateway is an in-memory Gateway for tests. It is exported so the
// external handler tests can use it too.
type FakeGateway struct {
	Categories    []CategorySummary
	CategoriesErr error // returned by ListCategories and GetCategory
	Blogs         []BlogSummary
	BlogsErr      error // returned by ListPublishedBlogs and GetBlog
	// BlogsErrFromPage delays BlogsErr until this page; 0 means page 1.
	BlogsErrFromPage int

	Account     Account
	LoginErr    error
	RegisterErr error

	SaveErr error
	// Saved records every SaveBlog call in order.
	Saved []SavedDraft

	mu    sync.Mutex
	calls map[string]int
}

func (f *FakeGateway) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

// Calls returns how often the named method was called.
func (f *FakeGateway) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func notFound(path string) error {
	return &FetchError{Kind: KindNotFound, Path: path, Status: 404}
}

func (f *FakeGateway) GetCategory(_ context.Context, slug string) (CategorySummary, error) {
	f.record("GetCategory")
	if f.CategoriesErr != nil {
		return CategorySummary{}, f.CategoriesErr
	}
	for _, c := range f.Categories {
		if strings.EqualFold(c.Slug, slug) {
			return c, nil
		}
	}
	return CategorySummary{}, notFound("/blog-categories/" + slug)
}

func (f *FakeGateway) ListCategories(context.Context) ([]CategorySummary, error) {
	f.record("ListCategories")
	if f.CategoriesErr != nil {
		return nil, f.CategoriesErr
	}
	return f.Categories, nil
}

func (f *FakeGateway) ListPublishedBlogs(_ context.Context, limit, page int) ([]BlogSummary, error) {
	f.record("ListPublishedBlogs")
	if page < 1 {
		page = 1
	}
	if f.BlogsErr != nil && page >= max(f.BlogsErrFromPage, 1) {
		return nil, f.BlogsErr
	}
	start := (page - 1) * limit
	if start >= len(f.Blogs) {
		return []BlogSummary{}, nil
	}
	end := min(start+limit, len(f.Blogs))
	return f.Blogs[start:end], nil
}

func (f *FakeGateway) GetBlog(_ context.Context, slug string) (BlogSummary, error) {
	f.record("GetBlog")
	if f.BlogsErr != nil {
		return BlogSummary{}, f.BlogsErr
	}
	for _, b := range f.Blogs {
		if strings.EqualFold(b.Slug, slug) {
			return b, nil
		}
	}
	return BlogSummary{}, notFound("/blogs/" + slug)
}

func (f *FakeGateway) Login(_ context.Context, form LoginForm) (Account, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return Account{}, f.LoginErr
	}
	acct := f.Account
	if acct.Email == "" {
		acct.Email = form.Email
	}
	return acct, nil
}

func (f *FakeGateway) Register(_ context.Context, form RegisterForm) (Account, error) {
	f.record("Register")
	if f.RegisterErr != nil {
		return Account{}, f.RegisterErr
	}
	return Account{Name: form.Name, Email: form.Email}, nil
}

// SavedDraft is one recorded SaveBlog call.
type SavedDraft struct {
	Token string
	Slug  string
	Draft BlogDraft
}

func (f *FakeGateway) SaveBlog(_ context.Context, token, slug string, draft BlogDraft) (BlogSummary, error) {
	f.record("SaveBlog")
	f.mu.Lock()
	f.Saved = append(f.Saved, SavedDraft{Token: token, Slug: slug, Draft: draft})
	f.mu.Unlock()
	if f.SaveErr != nil {
		return BlogSummary{}, f.SaveErr
	}
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(draft.Title, " ", "-"))
	}
	return BlogSummary{Slug: slug, Title: draft.Title, Excerpt: draft.Excerpt, Content: draft.Content}, nil
}

var errUnavailable = &FetchError{Kind: KindUnavailable, Path: "/", Status: 503}
