package tags

import (
	"context"

	"github.com/user/may15-go/db"
	"github.com/user/may15-go/resource"
)

// TagService performs the single store call behind each tag endpoint.
type TagService struct {
	tags *db.Collection[Tag, *Tag]
}

var _ resource.Service[Tag, CreateTagRequest, UpdateTagRequest] = (*TagService)(nil)

// NewTagService creates a TagService on the given gateway.
func NewTagService(gw db.Gateway) *TagService {
	return &TagService{tags: db.NewCollection[Tag](gw, CollectionName)}
}

// List returns the tags matching filter (only "title" is ever set by the handlers).
func (s *TagService) List(ctx context.Context, filter db.Filter) ([]Tag, error) {
	return s.tags.FindMany(ctx, filter)
}

// Get returns the tag or nil.
func (s *TagService) Get(ctx context.Context, id string) (*Tag, error) {
	return s.tags.FindByID(ctx, id)
}

// Create stores a new tag.
func (s *TagService) Create(ctx context.Context, req *CreateTagRequest) (*Tag, error) {
	return s.tags.Insert(ctx, &Tag{Title: req.Title})
}

// Update merges req into the tag and returns the tag as it was before.
func (s *TagService) Update(ctx context.Context, id string, req *UpdateTagRequest) (*Tag, error) {
	return s.tags.UpdateByID(ctx, id, req)
}

// Delete removes the tag. Blogs referencing it keep the dangling id.
func (s *TagService) Delete(ctx context.Context, id string) (*Tag, error) {
	return s.tags.DeleteByID(ctx, id)
}
