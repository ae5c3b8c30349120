package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RakeshRawat91/StayNest/internal/model"
	"github.com/RakeshRawat91/StayNest/internal/repository"
)

var (
	ErrNotFound      = errors.New("listing not found")
	ErrTitleRequired = errors.New("title is required")
	ErrEmptyMessage  = errors.New("message text is required")
)

// ListingInput carries the mutable listing fields from a submitted form.
type ListingInput struct {
	Title       string
	Description string
	Image       string
	Price       float64
	Location    string
	Country     string
}

// ListingService contains the business rules for listings: required-title
// validation, placeholder-image normalization, rent toggles and the embedded
// message list.
type ListingService struct {
	listings repository.ListingRepository
}

func NewListingService(lr repository.ListingRepository) *ListingService {
	return &ListingService{listings: lr}
}

func (s *ListingService) List(ctx context.Context, f repository.ListingFilter) ([]model.Listing, error) {
	listings, err := s.listings.GetAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ListingService.List: %w", err)
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	return listings, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*model.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	l, err := s.listings.GetByID(ctx, oid)
	if err != nil {
		return nil, s.wrap("Get", err)
	}
	return l, nil
}

func (s *ListingService) Create(ctx context.Context, in ListingInput) (*model.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	l := &model.Listing{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       normalizeImage(in.Image),
		Price:       in.Price,
		Location:    in.Location,
		Country:     in.Country,
		Rented:      false,
	}

	if err := s.listings.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("ListingService.Create: %w", err)
	}
	return l, nil
}

// Update replaces exactly the submitted fields; the rented flag and message
// list are untouched.
func (s *ListingService) Update(ctx context.Context, id string, in ListingInput) (*model.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	fields := bson.M{
		"title":       strings.TrimSpace(in.Title),
		"description": in.Description,
		"image":       normalizeImage(in.Image),
		"price":       in.Price,
		"location":    in.Location,
		"country":     in.Country,
	}

	l, err := s.listings.UpdateFields(ctx, oid, fields)
	if err != nil {
		return nil, s.wrap("Update", err)
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.listings.Delete(ctx, oid); err != nil {
		return s.wrap("Delete", err)
	}
	return nil
}

// SetRented flips the single rented flag. There is no transition check: an
// already-rented listing may be rented again.
func (s *ListingService) SetRented(ctx context.Context, id string, rented bool) (*model.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	l, err := s.listings.SetRented(ctx, oid, rented)
	if err != nil {
		return nil, s.wrap("SetRented", err)
	}
	return l, nil
}

// AppendMessage attaches a message with a server-assigned timestamp. Empty
// text never reaches the store.
func (s *ListingService) AppendMessage(ctx context.Context, id, text string, sender *model.User) (*model.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	msg := model.Message{
		Text:       text,
		Sender:     sender.ID,
		SenderName: sender.Username,
		CreatedAt:  time.Now().UTC(),
	}

	l, err := s.listings.AppendMessage(ctx, oid, msg)
	if err != nil {
		return nil, s.wrap("AppendMessage", err)
	}
	return l, nil
}

func (s *ListingService) wrap(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("ListingService.%s: %w", op, err)
}

func normalizeImage(url string) string {
	if strings.TrimSpace(url) == "" {
		return model.DefaultImageURL
	}
	return url
}
