package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/service"
)

// RequireSession redirects to the login page unless the guard permits
// and the request comes from the browser the session is bound to
func RequireSession(guard *service.Guard, browser *service.BrowserBinding, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if guard.Authorize() != service.Permit || !boundBrowser(c, browser, cookieName) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

func boundBrowser(c *gin.Context, browser *service.BrowserBinding, cookieName string) bool {
	value, err := c.Cookie(cookieName)
	return err == nil && browser.Matches(value)
}

// RejectCrossOrigin refuses state-changing requests that another site made the browser send
func RejectCrossOrigin() gin.HandlerFunc {
	protection := http.NewCrossOriginProtection()

	return func(c *gin.Context) {
		if err := protection.Check(c.Request); err != nil {
			slogctx.Warn(c.Request.Context(), "Rejected cross-origin request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"origin", c.GetHeader("Origin"),
				"error", err,
			)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

// RequestLogger attaches a request ID to the request context and logs every request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := slogctx.With(c.Request.Context(), "request_id", uuid.NewString())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		slogctx.Info(ctx, "Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
