package session

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the opaque session token.
const CookieName = "session_id"

// Token returns the request's session token, creating an anonymous session
// (and setting the cookie) when the request carries none or a stale one.
func Token(c *gin.Context, store *Store) (string, error) {
	if token, err := c.Cookie(CookieName); err == nil {
		if _, err := store.UserID(c.Request.Context(), token); err == nil {
			return token, nil
		} else if !errors.Is(err, ErrNoSession) {
			return "", err
		}
	}

	token, err := store.Create(c.Request.Context(), "")
	if err != nil {
		return "", err
	}
	SetCookie(c, store, token)
	return token, nil
}

func SetCookie(c *gin.Context, store *Store, token string) {
	c.SetCookie(CookieName, token, int(store.TTL().Seconds()), "/", "", false, true)
}

func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// PutFlash queues a flash on the request's session, creating one if needed.
// Flash failures are swallowed: a lost notice must not fail the request.
func PutFlash(c *gin.Context, store *Store, kind, message string) {
	token, err := Token(c, store)
	if err != nil {
		return
	}
	_ = store.AddFlash(c.Request.Context(), token, kind, message)
}

// TakeFlashes drains the request's pending flashes for rendering.
func TakeFlashes(c *gin.Context, store *Store) map[string][]string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	flashes, err := store.PopFlashes(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return flashes
}
