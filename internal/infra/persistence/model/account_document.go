package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AccountCollection is the MongoDB collection holding account documents.
const AccountCollection = "users"

// AccountDocument mirrors a document in the 'users' collection: {_id, email, password, createdAt}.
type AccountDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
}
