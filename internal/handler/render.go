package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RakeshRawat91/StayNest/internal/middleware"
	"github.com/RakeshRawat91/StayNest/internal/session"
)

// viewData merges the current user and any pending flashes into the template
// payload. Every rendered page goes through here.
func viewData(c *gin.Context, store *session.Store, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if u, ok := middleware.UserFrom(c); ok {
		data["CurrentUser"] = u
	}
	flashes := session.TakeFlashes(c, store)
	data["Success"] = flashes[session.FlashSuccess]
	data["Errors"] = flashes[session.FlashError]
	return data
}

// Home renders the landing page.
func Home(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "home.html", viewData(c, store, nil))
	}
}

// Health reports liveness for deployment probes.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
