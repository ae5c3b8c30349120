package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultImageURL is used whenever a listing is created or updated without an
// image of its own.
const DefaultImageURL = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxzZWFyY2h8MTJ8fGdvYXxlbnwwfHwwfHx8MA%3D%3D&auto=format&fit=crop&w=800&q=60"

type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Price       float64            `bson:"price" json:"price"`
	Location    string             `bson:"location" json:"location"`
	Country     string             `bson:"country" json:"country"`
	Rented      bool               `bson:"rented" json:"rented"`
	Messages    []Message          `bson:"messages" json:"messages"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Message is a chat note embedded in its listing document. It has no lifecycle
// of its own: it is written once and deleted together with the listing.
type Message struct {
	Text       string             `bson:"text" json:"text"`
	Sender     primitive.ObjectID `bson:"sender" json:"sender"`
	SenderName string             `bson:"sender_name" json:"senderName"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
