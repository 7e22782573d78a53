// Package blogs implements the blog collection. A blog names its author through
// journalistId (a user) and its labels through tagIds (tags). Both are plain stored ids:
// nothing checks that they exist and deleting a user or tag leaves them dangling.
package blogs

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/may15-go/db"
)

// CollectionName is the document collection holding blogs.
const CollectionName = "blogs"

// Blog is a stored blog record.
type Blog struct {
	db.Meta `bson:",inline"`
	// example: "Champions league final"
	Title string `json:"title" bson:"title"`
	// example: "What happened in Istanbul"
	Description string `json:"description" bson:"description"`
	// example: "https://example.com/cover.jpg"
	Src string `json:"src" bson:"src"`
	// JournalistID references a user; null when the blog has no author.
	JournalistID *primitive.ObjectID `json:"journalistId" bson:"journalistId" swaggertype:"string"`
	TagIDs       []primitive.ObjectID `json:"tagIds" bson:"tagIds" swaggertype:"array,string"`
	// Likes and Comments are opaque lists owned by the client.
	Likes    []any `json:"likes" bson:"likes"`
	Comments []any `json:"comments" bson:"comments"`
}
