package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RakeshRawat91/StayNest/internal/model"
	"github.com/RakeshRawat91/StayNest/internal/service"
	"github.com/RakeshRawat91/StayNest/internal/session"
)

// RegisterForm is the registration form payload.
type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginForm is the login form payload.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *session.Store
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", viewData(c, h.Sessions, nil))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		session.PutFlash(c, h.Sessions, session.FlashError, "Username, email and password are required")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateIdentity) {
			session.PutFlash(c, h.Sessions, session.FlashError, "A user with that username or email already exists")
		} else {
			log.Printf("register: %v", err)
			session.PutFlash(c, h.Sessions, session.FlashError, "Could not complete registration")
		}
		c.Redirect(http.StatusFound, "/register")
		return
	}

	// A fresh registration flows straight into the listings page logged in.
	token, err := h.startSession(c, user)
	if err != nil {
		log.Printf("register: start session: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	_ = h.Sessions.AddFlash(c.Request.Context(), token, session.FlashSuccess, "Successfully registered!")
	c.Redirect(http.StatusFound, "/listings")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", viewData(c, h.Sessions, nil))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		session.PutFlash(c, h.Sessions, session.FlashError, "Username and password are required")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("login: %v", err)
		}
		session.PutFlash(c, h.Sessions, session.FlashError, "Invalid username or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := h.startSession(c, user)
	if err != nil {
		log.Printf("login: start session: %v", err)
		session.PutFlash(c, h.Sessions, session.FlashError, "Could not log you in")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	_ = h.Sessions.AddFlash(c.Request.Context(), token, session.FlashSuccess, "Welcome back!")
	c.Redirect(http.StatusFound, "/listings")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil {
		_ = h.Sessions.Destroy(c.Request.Context(), token)
	}
	session.ClearCookie(c)

	// Flash onto a fresh anonymous session so the notice survives the redirect.
	if token, err := h.Sessions.Create(c.Request.Context(), ""); err == nil {
		session.SetCookie(c, h.Sessions, token)
		_ = h.Sessions.AddFlash(c.Request.Context(), token, session.FlashSuccess, "Logged out successfully")
	}
	c.Redirect(http.StatusFound, "/")
}

// startSession rotates the session token: any session on the request is
// destroyed and a new one bound to the user replaces it.
func (h *AuthHandler) startSession(c *gin.Context, user *model.User) (string, error) {
	if old, err := c.Cookie(session.CookieName); err == nil {
		_ = h.Sessions.Destroy(c.Request.Context(), old)
	}

	token, err := h.Sessions.Create(c.Request.Context(), user.ID.Hex())
	if err != nil {
		return "", err
	}
	session.SetCookie(c, h.Sessions, token)
	return token, nil
}
