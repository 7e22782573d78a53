// Package tags implements the tag collection: a flat list of labels (e.g. "sport",
// "entertainment", "history") that blogs reference through their tagIds.
package tags

import "github.com/user/may15-go/db"

// CollectionName is the document collection holding tags.
const CollectionName = "tags"

// Tag is a stored tag record.
type Tag struct {
	db.Meta `bson:",inline"`
	// example: "sport"
	Title string `json:"title" bson:"title"`
}
