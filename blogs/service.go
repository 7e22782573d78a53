package blogs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/db"
	"github.com/user/may15-go/resource"
)

// BlogService performs the single store call behind each blog endpoint.
type BlogService struct {
	blogs *db.Collection[Blog, *Blog]
}

var _ resource.Service[Blog, CreateBlogRequest, UpdateBlogRequest] = (*BlogService)(nil)

// NewBlogService creates a BlogService on the given gateway.
func NewBlogService(gw db.Gateway) *BlogService {
	return &BlogService{blogs: db.NewCollection[Blog](gw, CollectionName)}
}

// List returns every blog.
func (s *BlogService) List(ctx context.Context, filter db.Filter) ([]Blog, error) {
	return s.blogs.FindMany(ctx, filter)
}

// Get returns the blog or nil.
func (s *BlogService) Get(ctx context.Context, id string) (*Blog, error) {
	return s.blogs.FindByID(ctx, id)
}

// Create stores a new blog. Missing lists are stored empty, never null.
func (s *BlogService) Create(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	blog := &Blog{
		Title:       req.Title,
		Description: req.Description,
		Src:         req.Src,
		TagIDs:      []primitive.ObjectID{},
		Likes:       orEmpty(req.Likes),
		Comments:    orEmpty(req.Comments),
	}

	if req.JournalistID != "" {
		oid, err := parseRef("journalistId", req.JournalistID)
		if err != nil {
			return nil, err
		}
		blog.JournalistID = &oid
	}
	if req.TagIDs != nil {
		ids, err := parseRefs("tagIds", req.TagIDs)
		if err != nil {
			return nil, err
		}
		blog.TagIDs = ids
	}

	return s.blogs.Insert(ctx, blog)
}

// Update merges req into the blog and returns the blog as it was before.
func (s *BlogService) Update(ctx context.Context, id string, req *UpdateBlogRequest) (*Blog, error) {
	patch := blogPatch{
		Title:       req.Title,
		Description: req.Description,
		Src:         req.Src,
	}

	if req.JournalistID != nil {
		oid, err := parseRef("journalistId", *req.JournalistID)
		if err != nil {
			return nil, err
		}
		patch.JournalistID = &oid
	}
	if req.TagIDs != nil {
		ids, err := parseRefs("tagIds", req.TagIDs)
		if err != nil {
			return nil, err
		}
		patch.TagIDs = &ids
	}
	if req.Likes != nil {
		patch.Likes = &req.Likes
	}
	if req.Comments != nil {
		patch.Comments = &req.Comments
	}

	return s.blogs.UpdateByID(ctx, id, patch)
}

// Delete removes the blog.
func (s *BlogService) Delete(ctx context.Context, id string) (*Blog, error) {
	return s.blogs.DeleteByID(ctx, id)
}

func parseRef(field, hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperror.NewValidationError(field+" must be a 24 character hex object id", err)
	}
	return oid, nil
}

func parseRefs(field string, hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		oid, err := parseRef(field, h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, oid)
	}
	return ids, nil
}

func orEmpty(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}
