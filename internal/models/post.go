package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents an artwork post stored in MongoDB. Relational rows
// (comments, upvotes) reference it by ObjectID hex string.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Content       string             `json:"content" bson:"content"`
	ImageURL      string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	UpvotesCount  int                `json:"upvotes_count" bson:"upvotes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
