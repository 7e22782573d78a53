package tags

// CreateTagRequest is the body of POST /api/tags.
type CreateTagRequest struct {
	// example: "sport"
	Title string `json:"title"`
}

// UpdateTagRequest is the body of PATCH /api/tags/{id}.
// A nil field is left untouched; it doubles as the store patch.
type UpdateTagRequest struct {
	Title *string `json:"title,omitempty" bson:"title,omitempty"`
}
