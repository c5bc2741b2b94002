package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"rakitin/internal/activity"
	"rakitin/internal/session"
	"rakitin/internal/view"
)

// renderPage renders page from the identity's role folder with the flashes
// queued for this response.
func renderPage(c *gin.Context, ident *session.Identity, page, title string, data any) {
	c.HTML(http.StatusOK, view.Name(ident.Role.Folder(), page), view.Page{
		Title:   title,
		Active:  page,
		User:    ident,
		Flashes: session.Flashes(c),
		Data:    data,
	})
}

// renderGuest renders the sign-in and sign-up pages.
func renderGuest(c *gin.Context, page, title string, data any) {
	c.HTML(http.StatusOK, view.Name(view.AuthFolder, page), view.Page{
		Title:   title,
		Flashes: session.Flashes(c),
		Data:    data,
	})
}

func redirectWithFlash(c *gin.Context, path, category, message string) {
	session.AddFlash(c, category, message)
	c.Redirect(http.StatusFound, path)
}

func publish(c *gin.Context, events activity.Publisher, ev activity.Event) {
	if events == nil {
		return
	}
	events.Publish(c.Request.Context(), ev)
}
