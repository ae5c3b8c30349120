package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RakeshRawat91/StayNest/internal/model"
	"github.com/RakeshRawat91/StayNest/internal/repository"
)

// memListingRepo is an in-memory stand-in for the mongo listing repository,
// reporting missing documents the same way the driver does.
type memListingRepo struct {
	mu       sync.Mutex
	listings map[primitive.ObjectID]*model.Listing
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: make(map[primitive.ObjectID]*model.Listing)}
}

func (r *memListingRepo) Create(ctx context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Messages == nil {
		l.Messages = []model.Message{}
	}
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *memListingRepo) GetAll(ctx context.Context, f repository.ListingFilter) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Listing
	for _, l := range r.listings {
		if f.Country != "" && l.Country != f.Country {
			continue
		}
		if f.MinPrice != nil && l.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && l.Price > *f.MaxPrice {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *l
	cp.Messages = append([]model.Message(nil), l.Messages...)
	return &cp, nil
}

func (r *memListingRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for k, v := range fields {
		switch k {
		case "title":
			l.Title = v.(string)
		case "description":
			l.Description = v.(string)
		case "image":
			l.Image = v.(string)
		case "price":
			l.Price = v.(float64)
		case "location":
			l.Location = v.(string)
		case "country":
			l.Country = v.(string)
		case "updated_at":
			l.UpdatedAt = v.(time.Time)
		}
	}
	cp := *l
	return &cp, nil
}

func (r *memListingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) SetRented(ctx context.Context, id primitive.ObjectID, rented bool) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	l.Rented = rented
	cp := *l
	return &cp, nil
}

func (r *memListingRepo) AppendMessage(ctx context.Context, id primitive.ObjectID, msg model.Message) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	l.Messages = append(l.Messages, msg)
	cp := *l
	return &cp, nil
}

func testUser() *model.User {
	return &model.User{ID: primitive.NewObjectID(), Username: "alice"}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rented {
		t.Error("new listing should not be rented")
	}
	if got.Image != model.DefaultImageURL {
		t.Errorf("image = %q, want the default placeholder", got.Image)
	}
	if len(got.Messages) != 0 {
		t.Errorf("new listing has %d messages, want 0", len(got.Messages))
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	repo := newMemListingRepo()
	svc := NewListingService(repo)

	if _, err := svc.Create(context.Background(), ListingInput{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("Create = %v, want ErrTitleRequired", err)
	}
	if len(repo.listings) != 0 {
		t.Error("invalid listing was persisted")
	}
}

func TestAppendMessage(t *testing.T) {
	svc := NewListingService(newMemListingRepo())
	sender := testUser()

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.AppendMessage(context.Background(), created.ID.Hex(), "is it available?", sender)
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(got.Messages))
	}

	msg := got.Messages[0]
	if msg.Text != "is it available?" {
		t.Errorf("text = %q", msg.Text)
	}
	if msg.Sender != sender.ID || msg.SenderName != "alice" {
		t.Errorf("sender = %v/%q, want %v/alice", msg.Sender, msg.SenderName, sender.ID)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("message timestamp was not assigned")
	}
}

func TestAppendEmptyMessageLeavesListingUnchanged(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AppendMessage(context.Background(), created.ID.Hex(), "   ", testUser()); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("AppendMessage = %v, want ErrEmptyMessage", err)
	}

	got, err := svc.Get(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Messages) != 0 {
		t.Errorf("got %d messages, want 0", len(got.Messages))
	}
}

func TestSetRentedToggle(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AppendMessage(context.Background(), created.ID.Hex(), "hello", testUser()); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	if _, err := svc.SetRented(context.Background(), created.ID.Hex(), true); err != nil {
		t.Fatalf("SetRented(true): %v", err)
	}
	got, err := svc.SetRented(context.Background(), created.ID.Hex(), false)
	if err != nil {
		t.Fatalf("SetRented(false): %v", err)
	}

	if got.Rented {
		t.Error("rented = true, want false")
	}
	if len(got.Messages) != 1 {
		t.Errorf("rent toggle altered messages: got %d, want 1", len(got.Messages))
	}
}

func TestUpdateReplacesOnlySubmittedFields(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin", Country: "India", Price: 1200})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AppendMessage(context.Background(), created.ID.Hex(), "hello", testUser()); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if _, err := svc.SetRented(context.Background(), created.ID.Hex(), true); err != nil {
		t.Fatalf("SetRented: %v", err)
	}

	got, err := svc.Update(context.Background(), created.ID.Hex(), ListingInput{Title: "Lake Cabin", Country: "Norway", Price: 2000})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got.Title != "Lake Cabin" || got.Country != "Norway" || got.Price != 2000 {
		t.Errorf("fields not updated: %+v", got)
	}
	if got.Image != model.DefaultImageURL {
		t.Errorf("empty image on update should normalize to placeholder, got %q", got.Image)
	}
	if !got.Rented {
		t.Error("update must not reset the rented flag")
	}
	if len(got.Messages) != 1 {
		t.Errorf("update altered messages: got %d, want 1", len(got.Messages))
	}
}

func TestUpdateRequiresTitle(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(context.Background(), created.ID.Hex(), ListingInput{}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Update = %v, want ErrTitleRequired", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	created, err := svc.Create(context.Background(), ListingInput{Title: "Cabin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), created.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc := NewListingService(newMemListingRepo())

	if _, err := svc.Get(context.Background(), "not-a-hex-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "not-a-hex-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete = %v, want ErrNotFound", err)
	}
}
