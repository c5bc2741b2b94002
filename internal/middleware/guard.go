package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/models"
	"rakitin/internal/session"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// RequireUser is the guard for HTML handlers. Without a session it redirects
// to the login page and returns false; the handler must return immediately.
func RequireUser(c *gin.Context) (*session.Identity, bool) {
	ident, ok := session.Current(c)
	if !ok {
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
		return nil, false
	}
	return ident, true
}

// RequireUserJSON is the guard for JSON handlers: 401 instead of a redirect.
func RequireUserJSON(c *gin.Context) (*session.Identity, bool) {
	ident, ok := session.Current(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.StatusUpdateResponse{
			Success: false,
			Message: "Sesi berakhir, silakan login kembali.",
		})
		return nil, false
	}
	return ident, true
}

// safeHome is the dashboard for signed-in users and the login page otherwise.
func safeHome(c *gin.Context) string {
	if _, ok := session.Current(c); ok {
		return DashboardPath
	}
	return LoginPath
}

// Recovery turns a panic into a redirect with a generic flash message.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		session.AddFlash(c, session.FlashError, "Terjadi kesalahan pada server. Silakan coba lagi.")
		c.Redirect(http.StatusFound, safeHome(c))
		c.Abort()
	})
}

// NotFound redirects unknown paths back to a safe page.
func NotFound(c *gin.Context) {
	session.AddFlash(c, session.FlashError, "Halaman tidak ditemukan.")
	c.Redirect(http.StatusFound, safeHome(c))
}
