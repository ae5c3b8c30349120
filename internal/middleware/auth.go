package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RakeshRawat91/StayNest/internal/model"
	"github.com/RakeshRawat91/StayNest/internal/repository"
	"github.com/RakeshRawat91/StayNest/internal/session"
)

const userKey = "currentUser"

// CurrentUser resolves the session cookie to a user and stashes it in the gin
// context for handlers and templates. Absent, expired or anonymous sessions
// simply leave the key unset.
func CurrentUser(store *session.Store, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil {
			c.Next()
			return
		}

		userID, err := store.UserID(c.Request.Context(), token)
		if err != nil || userID == "" {
			c.Next()
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.Next()
			return
		}

		if u, err := users.GetByID(c.Request.Context(), oid); err == nil {
			c.Set(userKey, u)
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user resolved by CurrentUser, if any.
func UserFrom(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}

// RequireLogin is the authorization guard on mutation routes: without an
// authenticated session the request is redirected to /login and goes no
// further. This is the only access control in the system.
func RequireLogin(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c); !ok {
			session.PutFlash(c, store, session.FlashError, "You must be logged in")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
