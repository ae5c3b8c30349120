package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RakeshRawat91/StayNest/internal/model"
)

// ListingFilter narrows the listing index. Zero values mean "no filter".
type ListingFilter struct {
	Country  string
	MinPrice *float64
	MaxPrice *float64
}

func (f ListingFilter) query() bson.M {
	q := bson.M{}
	if f.Country != "" {
		q["country"] = f.Country
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return q
}

// ListingRepository abstracts storage of listing documents. Missing documents
// are reported as mongo.ErrNoDocuments regardless of the operation.
type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	GetAll(ctx context.Context, f ListingFilter) ([]model.Listing, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.Listing, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetRented(ctx context.Context, id primitive.ObjectID, rented bool) (*model.Listing, error)
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg model.Message) (*model.Listing, error)
}

type MongoListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *MongoListingRepository {
	return &MongoListingRepository{col: db.Collection("listings")}
}

func (r *MongoListingRepository) Create(ctx context.Context, l *model.Listing) error {
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Messages == nil {
		l.Messages = []model.Message{}
	}

	res, err := r.col.InsertOne(ctx, l)
	if err != nil {
		return err
	}
	l.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoListingRepository) GetAll(ctx context.Context, f ListingFilter) ([]model.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}

	var listings []model.Listing
	if err := cur.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *MongoListingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	var l model.Listing
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateFields overwrites exactly the given fields in a single $set. Messages
// and the rented flag are never part of a field update.
func (r *MongoListingRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.Listing, error) {
	fields["updated_at"] = time.Now().UTC()
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": fields})
}

func (r *MongoListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoListingRepository) SetRented(ctx context.Context, id primitive.ObjectID, rented bool) (*model.Listing, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"rented": rented}})
}

// AppendMessage pushes onto the embedded message array. The push is a single
// atomic document write, so concurrent appends both land.
func (r *MongoListingRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, msg model.Message) (*model.Listing, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$push": bson.M{"messages": msg}})
}

func (r *MongoListingRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*model.Listing, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var l model.Listing
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}
