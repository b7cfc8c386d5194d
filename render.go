package blogfront

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage wraps body in the layout with meta and writes it with code.
func (a *App) renderPage(c echo.Context, code int, meta PageMetadata, body templ.Component) error {
	if meta.Robots == PrivateRobots {
		c.Response().Header().Set("X-Robots-Tag", meta.Robots.String())
	}
	return RenderStatus(c, code, a.Views.Layout(meta, body))
}

// renderNotFound writes the 404 page.
func (a *App) renderNotFound(c echo.Context) error {
	return a.renderPage(c, http.StatusNotFound, a.Metadata.NotFound(), a.Views.NotFound())
}
