package blogfront

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	msgBadCredentials = "Invalid email or password."
	msgUnavailable    = "We could not reach the server. Please try again in a moment."
	msgTooMany        = "Too many attempts. Try again later."
	msgNotSaved       = "The article could not be saved."
)

func (a *App) handleLoginForm(c echo.Context) error {
	if _, ok := CurrentUser(c); ok {
		return c.Redirect(http.StatusSeeOther, safeNext(c.QueryParam("next")))
	}
	form := LoginForm{Next: c.QueryParam("next")}
	form.normalize()
	return a.renderLogin(c, http.StatusOK, form, nil)
}

func (a *App) handleLogin(c echo.Context) error {
	form := LoginForm{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Next:     c.FormValue("next"),
	}
	form.normalize()

	if !a.formLimiter.Allow(c.RealIP()) {
		return a.renderLogin(c, http.StatusTooManyRequests, form, FormErrors{"form": msgTooMany})
	}
	if errs := ValidateForm(form); errs != nil {
		return a.renderLogin(c, http.StatusUnprocessableEntity, form, errs)
	}

	acct, err := a.Gateway.Login(c.Request().Context(), form)
	if err != nil {
		code, msg := a.authFailure(c, "login", err)
		if msg == "" {
			msg = msgBadCredentials
		}
		return a.renderLogin(c, code, form, FormErrors{"form": msg})
	}
	if err := setUserSession(c, acct); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, form.Next)
}

func (a *App) handleRegisterForm(c echo.Context) error {
	if _, ok := CurrentUser(c); ok {
		return c.Redirect(http.StatusSeeOther, "/my-blogs")
	}
	return a.renderRegister(c, http.StatusOK, RegisterForm{}, nil)
}

func (a *App) handleRegister(c echo.Context) error {
	form := RegisterForm{
		Name:            c.FormValue("name"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirmPassword"),
	}
	form.normalize()

	if !a.formLimiter.Allow(c.RealIP()) {
		return a.renderRegister(c, http.StatusTooManyRequests, form, FormErrors{"form": msgTooMany})
	}
	if errs := ValidateForm(form); errs != nil {
		return a.renderRegister(c, http.StatusUnprocessableEntity, form, errs)
	}

	acct, err := a.Gateway.Register(c.Request().Context(), form)
	if err != nil {
		code, msg := a.authFailure(c, "register", err)
		if msg == "" {
			msg = "Registration failed. Please check your details."
		}
		return a.renderRegister(c, code, form, FormErrors{"form": msg})
	}
	if acct.Name == "" {
		acct.Name = form.Name
	}
	if err := setUserSession(c, acct); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/my-blogs")
}

func handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// authFailure maps a gateway error from a form submission to the status
// to render and the message to show. Rejections by the API keep the API's
// message when it sent one; an empty message means "use the default".
func (a *App) authFailure(c echo.Context, action string, err error) (int, string) {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Status >= 400 && fe.Status < 500 {
		msg := ""
		if fe.Err != nil {
			msg = fe.Err.Error()
		}
		return http.StatusUnprocessableEntity, msg
	}
	c.Logger().Warnf("%s: content API unavailable: %v", action, err)
	return http.StatusServiceUnavailable, msgUnavailable
}

func (a *App) renderLogin(c echo.Context, code int, form LoginForm, errs FormErrors) error {
	form.Password = ""
	return a.renderPage(c, code, a.Metadata.Static("/login"), a.Views.Login(form, errs, CsrfToken(c)))
}

func (a *App) renderRegister(c echo.Context, code int, form RegisterForm, errs FormErrors) error {
	form.Password, form.ConfirmPassword = "", ""
	return a.renderPage(c, code, a.Metadata.Static("/register"), a.Views.Register(form, errs, CsrfToken(c)))
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/my-blogs"
	}
	return next
}

func (a *App) handleCreateBlog(c echo.Context) error {
	return a.renderEditor(c, http.StatusOK, "", BlogDraft{}, nil)
}

func (a *App) handleEditBlog(c echo.Context) error {
	slug := c.Param("slug")
	blog, res := a.Guard.Blog(c.Request().Context(), slug)
	if !res.Found() {
		return a.renderNotFound(c)
	}
	return a.renderEditor(c, http.StatusOK, slug, DraftFromBlog(blog), nil)
}

// handleSaveBlog forwards the editor form to the content API with the
// author's token. slug is empty on /create-blog.
func (a *App) handleSaveBlog(c echo.Context) error {
	slug := c.Param("slug")
	draft := BlogDraft{
		Title:   c.FormValue("title"),
		Excerpt: c.FormValue("excerpt"),
		Content: c.FormValue("content"),
	}
	draft.normalize()

	if errs := ValidateForm(draft); errs != nil {
		return a.renderEditor(c, http.StatusUnprocessableEntity, slug, draft, errs)
	}

	_, err := a.Gateway.SaveBlog(c.Request().Context(), sessionToken(c), slug, draft)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.Status == http.StatusUnauthorized {
			// The API token expired; sign in again and come back.
			if err := clearUserSession(c); err != nil {
				return err
			}
			return c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(editorPath(slug)))
		}
		code, msg := a.authFailure(c, "save blog", err)
		if msg == "" {
			msg = msgNotSaved
		}
		return a.renderEditor(c, code, slug, draft, FormErrors{"form": msg})
	}
	return c.Redirect(http.StatusSeeOther, "/my-blogs")
}

func editorPath(slug string) string {
	if slug == "" {
		return "/create-blog"
	}
	return "/edit-blog/" + PathEscape(slug)
}

func (a *App) renderEditor(c echo.Context, code int, slug string, draft BlogDraft, errs FormErrors) error {
	path := editorPath(slug)
	return a.renderPage(c, code, a.Metadata.Private(path), a.Views.BlogEditor(path, draft, errs, CsrfToken(c)))
}

func (a *App) handleMyBlogs(c echo.Context) error {
	user, _ := CurrentUser(c)
	return a.renderPage(c, http.StatusOK, a.Metadata.Private("/my-blogs"), a.Views.MyBlogs(user))
}

func (a *App) handleProfile(c echo.Context) error {
	user, _ := CurrentUser(c)
	return a.renderPage(c, http.StatusOK, a.Metadata.Private("/profile"), a.Views.Profile(user, CsrfToken(c)))
}
