package views

import (
	"bytes"
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dailyworld/blogfront"
)

func csrfField(b *bytes.Buffer, token string) {
	b.WriteString(`<input type="hidden" name="_csrf" value="` + esc(token) + `">`)
}

func formError(b *bytes.Buffer, errs blogfront.FormErrors) {
	if msg := errs["form"]; msg != "" {
		b.WriteString(`<p class="form-error" role="alert">` + esc(msg) + "</p>")
	}
}

// field writes a labelled input with its validation message, if any.
func field(b *bytes.Buffer, label, typ, name, value string, errs blogfront.FormErrors) {
	b.WriteString(`<label>` + esc(label) + `<input type="` + typ + `" name="` + name + `"`)
	if value != "" {
		b.WriteString(` value="` + esc(value) + `"`)
	}
	b.WriteString(" required>")
	if msg := errs[name]; msg != "" {
		b.WriteString(`<span class="field-error">` + esc(msg) + "</span>")
	}
	b.WriteString("</label>")
}

func Login(form blogfront.LoginForm, errs blogfront.FormErrors, csrfToken string) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<h1>Sign in</h1>`)
		formError(b, errs)
		b.WriteString(`<form method="post" action="/login">`)
		csrfField(b, csrfToken)
		b.WriteString(`<input type="hidden" name="next" value="` + esc(form.Next) + `">`)
		field(b, "Email", "email", "email", form.Email, errs)
		field(b, "Password", "password", "password", "", errs)
		b.WriteString(`<button type="submit">Sign in</button></form>`)
		b.WriteString(`<p>New here? <a href="/register">Create an account</a></p>`)
		return nil
	})
}

func Register(form blogfront.RegisterForm, errs blogfront.FormErrors, csrfToken string) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString(`<h1>Create an account</h1>`)
		formError(b, errs)
		b.WriteString(`<form method="post" action="/register">`)
		csrfField(b, csrfToken)
		field(b, "Name", "text", "name", form.Name, errs)
		field(b, "Email", "email", "email", form.Email, errs)
		field(b, "Password", "password", "password", "", errs)
		field(b, "Confirm password", "password", "confirmPassword", "", errs)
		b.WriteString(`<button type="submit">Register</button></form>`)
		b.WriteString(`<p>Already registered? <a href="/login">Sign in</a></p>`)
		return nil
	})
}

// BlogEditor is the authoring form. It posts back to action, which is
// /create-blog for a new article or the article's /edit-blog path.
func BlogEditor(action string, draft blogfront.BlogDraft, errs blogfront.FormErrors, csrfToken string) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		heading := "Edit article"
		if action == "/create-blog" {
			heading = "New article"
		}
		b.WriteString("<h1>" + heading + "</h1>")
		formError(b, errs)
		b.WriteString(`<form id="blog-editor" method="post" action="` + esc(action) + `">`)
		csrfField(b, csrfToken)
		field(b, "Title", "text", "title", draft.Title, errs)
		textArea(b, "Excerpt", "excerpt", draft.Excerpt, 3, errs)
		textArea(b, "Content", "content", draft.Content, 20, errs)
		b.WriteString(`<button type="submit">Save</button></form>`)
		return nil
	})
}

func textArea(b *bytes.Buffer, label, name, value string, rows int, errs blogfront.FormErrors) {
	b.WriteString(`<label>` + esc(label) + `<textarea name="` + name + `" rows="` + strconv.Itoa(rows) + `">` + esc(value) + `</textarea>`)
	if msg := errs[name]; msg != "" {
		b.WriteString(`<span class="field-error">` + esc(msg) + "</span>")
	}
	b.WriteString("</label>")
}

func MyBlogs(user blogfront.SessionUser) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString("<h1>My blogs</h1>")
		if user.Name != "" {
			b.WriteString("<p>Signed in as " + esc(user.Name) + ".</p>")
		}
		b.WriteString(`<div id="my-blogs" data-source="api"></div>`)
		b.WriteString(`<p><a href="/create-blog">Write a new article</a></p>`)
		return nil
	})
}

func Profile(user blogfront.SessionUser, csrfToken string) templ.Component {
	return component(func(_ context.Context, b *bytes.Buffer) error {
		b.WriteString("<h1>Profile</h1>")
		if user.Name != "" {
			b.WriteString("<p>" + esc(user.Name) + "</p>")
		}
		b.WriteString(`<form method="post" action="/logout">`)
		csrfField(b, csrfToken)
		b.WriteString(`<button type="submit">Sign out</button></form>`)
		return nil
	})
}
