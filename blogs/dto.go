package blogs

import "go.mongodb.org/mongo-driver/bson/primitive"

// CreateBlogRequest is the body of POST /api/blogs.
type CreateBlogRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Src         string `json:"src"`
	// example: "6644b1f2c3d4e5f607182930"
	JournalistID string   `json:"journalistId" validate:"omitempty,mongodb"`
	TagIDs       []string `json:"tagIds" validate:"omitempty,dive,mongodb"`
	Likes        []any    `json:"likes"`
	Comments     []any    `json:"comments"`
}

// UpdateBlogRequest is the body of PATCH /api/blogs/{id}. A missing field is left
// untouched; an explicit empty list replaces the stored one.
type UpdateBlogRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Src          *string  `json:"src,omitempty"`
	JournalistID *string  `json:"journalistId,omitempty" validate:"omitempty,mongodb"`
	TagIDs       []string `json:"tagIds,omitempty" validate:"omitempty,dive,mongodb"`
	Likes        []any    `json:"likes,omitempty"`
	Comments     []any    `json:"comments,omitempty"`
}

// blogPatch is the store form of UpdateBlogRequest, with ids converted.
type blogPatch struct {
	Title        *string               `json:"title,omitempty" bson:"title,omitempty"`
	Description  *string               `json:"description,omitempty" bson:"description,omitempty"`
	Src          *string               `json:"src,omitempty" bson:"src,omitempty"`
	JournalistID *primitive.ObjectID   `json:"journalistId,omitempty" bson:"journalistId,omitempty"`
	TagIDs       *[]primitive.ObjectID `json:"tagIds,omitempty" bson:"tagIds,omitempty"`
	Likes        *[]any                `json:"likes,omitempty" bson:"likes,omitempty"`
	Comments     *[]any                `json:"comments,omitempty" bson:"comments,omitempty"`
}
