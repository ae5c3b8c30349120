package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RakeshRawat91/StayNest/internal/middleware"
	"github.com/RakeshRawat91/StayNest/internal/repository"
	"github.com/RakeshRawat91/StayNest/internal/service"
	"github.com/RakeshRawat91/StayNest/internal/session"
)

// ListingForm is the shared create/edit form payload. Title presence is
// enforced by the service so both paths report it the same way.
type ListingForm struct {
	Title       string  `form:"title"`
	Description string  `form:"description"`
	Image       string  `form:"image"`
	Price       float64 `form:"price"`
	Location    string  `form:"location"`
	Country     string  `form:"country"`
}

func (f ListingForm) input() service.ListingInput {
	return service.ListingInput{
		Title:       f.Title,
		Description: f.Description,
		Image:       f.Image,
		Price:       f.Price,
		Location:    f.Location,
		Country:     f.Country,
	}
}

// ListingHandler serves the whole listings surface: CRUD, rent toggles and
// listing messages.
type ListingHandler struct {
	Listings *service.ListingService
	Sessions *session.Store
}

func NewListingHandler(listings *service.ListingService, sessions *session.Store) *ListingHandler {
	return &ListingHandler{Listings: listings, Sessions: sessions}
}

// RegisterRoutes wires the public reads and the guarded mutations.
func (h *ListingHandler) RegisterRoutes(r *gin.Engine, requireLogin gin.HandlerFunc) {
	r.GET("/listings", h.Index)
	r.GET("/listings/:id", h.Show)

	guarded := r.Group("/", requireLogin)
	{
		guarded.GET("/listings/new", h.New)
		guarded.POST("/listings", h.Create)
		guarded.GET("/listings/:id/edit", h.Edit)
		guarded.PUT("/listings/:id", h.Update)
		guarded.DELETE("/listings/:id", h.Delete)
		guarded.POST("/listings/:id/message", h.Message)
		guarded.POST("/listings/:id/rent", h.Rent)
		guarded.POST("/listings/:id/unrent", h.Unrent)
	}
}

// GET /listings?country=...&min_price=...&max_price=...
func (h *ListingHandler) Index(c *gin.Context) {
	filter := repository.ListingFilter{Country: c.Query("country")}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &p
		}
	}

	listings, err := h.Listings.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("list listings: %v", err)
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	c.HTML(http.StatusOK, "listings.html", viewData(c, h.Sessions, gin.H{"Listings": listings}))
}

// GET /listings/:id
func (h *ListingHandler) Show(c *gin.Context) {
	listing, err := h.Listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "/listings")
		return
	}
	c.HTML(http.StatusOK, "listing_show.html", viewData(c, h.Sessions, gin.H{"Listing": listing}))
}

// GET /listings/new
func (h *ListingHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "listing_new.html", viewData(c, h.Sessions, nil))
}

// POST /listings
func (h *ListingHandler) Create(c *gin.Context) {
	var form ListingForm
	if err := c.ShouldBind(&form); err != nil {
		session.PutFlash(c, h.Sessions, session.FlashError, "Invalid form submission")
		c.Redirect(http.StatusFound, "/listings/new")
		return
	}

	if _, err := h.Listings.Create(c.Request.Context(), form.input()); err != nil {
		h.fail(c, err, "/listings/new")
		return
	}

	session.PutFlash(c, h.Sessions, session.FlashSuccess, "Listing created")
	c.Redirect(http.StatusFound, "/listings")
}

// GET /listings/:id/edit
func (h *ListingHandler) Edit(c *gin.Context) {
	listing, err := h.Listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "/listings")
		return
	}
	c.HTML(http.StatusOK, "listing_edit.html", viewData(c, h.Sessions, gin.H{"Listing": listing}))
}

// PUT /listings/:id
func (h *ListingHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var form ListingForm
	if err := c.ShouldBind(&form); err != nil {
		session.PutFlash(c, h.Sessions, session.FlashError, "Invalid form submission")
		c.Redirect(http.StatusFound, "/listings/"+id+"/edit")
		return
	}

	if _, err := h.Listings.Update(c.Request.Context(), id, form.input()); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			h.fail(c, err, "/listings/"+id+"/edit")
		} else {
			h.fail(c, err, "/listings")
		}
		return
	}

	session.PutFlash(c, h.Sessions, session.FlashSuccess, "Listing updated")
	c.Redirect(http.StatusFound, "/listings/"+id)
}

// DELETE /listings/:id
func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.Listings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "/listings")
		return
	}
	session.PutFlash(c, h.Sessions, session.FlashSuccess, "Listing deleted")
	c.Redirect(http.StatusFound, "/listings")
}

// POST /listings/:id/message
func (h *ListingHandler) Message(c *gin.Context) {
	id := c.Param("id")

	user, ok := middleware.UserFrom(c)
	if !ok {
		// The guard keeps this route authenticated; reaching here without a
		// user means the session died mid-request.
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if _, err := h.Listings.AppendMessage(c.Request.Context(), id, c.PostForm("message"), user); err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			h.fail(c, err, "/listings/"+id)
		} else {
			h.fail(c, err, "/listings")
		}
		return
	}

	c.Redirect(http.StatusFound, "/listings/"+id)
}

// POST /listings/:id/rent
func (h *ListingHandler) Rent(c *gin.Context) {
	h.setRented(c, true, "Listing marked as rented")
}

// POST /listings/:id/unrent
func (h *ListingHandler) Unrent(c *gin.Context) {
	h.setRented(c, false, "Listing available again")
}

func (h *ListingHandler) setRented(c *gin.Context, rented bool, notice string) {
	if _, err := h.Listings.SetRented(c.Request.Context(), c.Param("id"), rented); err != nil {
		h.fail(c, err, "/listings")
		return
	}
	session.PutFlash(c, h.Sessions, session.FlashSuccess, notice)
	c.Redirect(http.StatusFound, "/listings")
}

// fail converts a service error to a flash and a redirect back to target.
func (h *ListingHandler) fail(c *gin.Context, err error, target string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		session.PutFlash(c, h.Sessions, session.FlashError, "Listing not found")
	case errors.Is(err, service.ErrTitleRequired):
		session.PutFlash(c, h.Sessions, session.FlashError, "Title is required")
	case errors.Is(err, service.ErrEmptyMessage):
		session.PutFlash(c, h.Sessions, session.FlashError, "Message cannot be empty")
	default:
		log.Printf("listing handler: %v", err)
		session.PutFlash(c, h.Sessions, session.FlashError, "Something went wrong")
	}
	c.Redirect(http.StatusFound, target)
}
