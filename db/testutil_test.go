package db

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// note is a small record used by the gateway tests.
type note struct {
	Meta  `bson:",inline"`
	Title string   `json:"title" bson:"title"`
	Body  string   `json:"body" bson:"body"`
	Refs  []string `json:"refs" bson:"refs"`
}

type notePatch struct {
	Title *string `json:"title,omitempty" bson:"title,omitempty"`
	Body  *string `json:"body,omitempty" bson:"body,omitempty"`
}

func strPtr(s string) *string { return &s }

func fixedID(hex string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return oid
}
