package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerAccount holds a fungible balance in one currency. The accepted
// currency is fixed at creation; transfers between accounts of different
// currencies are rejected.
type LedgerAccount struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Address   string             `bson:"address" json:"address"`
	Owner     string             `bson:"owner" json:"owner"`
	Currency  string             `bson:"currency" json:"currency"`
	Balance   uint64             `bson:"balance" json:"balance"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
