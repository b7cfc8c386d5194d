package blogfront

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LoginForm is the body of POST /login. Next is the local path to return
// to after signing in.
type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
	Next     string `json:"-" form:"next" validate:"omitempty,max=512"`
}

// RegisterForm is the body of POST /register.
type RegisterForm struct {
	Name            string `json:"name" form:"name" validate:"required,min=2,max=80"`
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"-" form:"confirmPassword" validate:"required,eqfield=Password"`
}

// BlogDraft is the body of POST /create-blog and POST /edit-blog/{slug},
// forwarded to the content API as the article fields.
type BlogDraft struct {
	Title   string `json:"title" form:"title" validate:"required,min=3,max=200"`
	Excerpt string `json:"excerpt,omitempty" form:"excerpt" validate:"max=500"`
	Content string `json:"content" form:"content" validate:"required,max=100000"`
}

// DraftFromBlog prefills the editor with an existing article.
func DraftFromBlog(b BlogSummary) BlogDraft {
	return BlogDraft{Title: b.Title, Excerpt: b.Excerpt, Content: b.Content}
}

// FormErrors maps form field names to a message for the user.
type FormErrors map[string]string

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the HTML field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateForm checks a form struct and returns one message per invalid
// field, or nil when the form is valid.
func ValidateForm(form any) FormErrors {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FormErrors{"form": "The form could not be checked."}
	}
	out := make(FormErrors, len(verrs))
	for _, fe := range verrs {
		if _, ok := out[fe.Field()]; ok {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	default:
		return "This value is not valid."
	}
}

func (f *LoginForm) normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Next = safeNext(f.Next)
}

func (f *RegisterForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

func (d *BlogDraft) normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Excerpt = strings.TrimSpace(d.Excerpt)
	d.Content = strings.TrimRight(d.Content, " \t\r\n")
}
