package handlers

import (
	"strings"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
)

type createBlogRequest struct {
	MediaFields
	Title   string   `json:"title" form:"title" validate:"required,max=200"`
	Content string   `json:"content" form:"content" validate:"required"`
	Tags    []string `json:"tags" form:"tags" validate:"max=20,dive,max=50"`
}

// BlogHandler serves /api/blogs.
type BlogHandler = CatalogHandler[models.Blog, *models.Blog, createBlogRequest, *createBlogRequest]

// NewBlogHandler creates the blog routes. Uploaded files above maxBytes are rejected.
func NewBlogHandler(svc *services.CatalogService[models.Blog, *models.Blog], maxBytes int64) *BlogHandler {
	return NewCatalogHandler[models.Blog, *models.Blog, createBlogRequest](svc, "blog", maxBytes, buildBlog)
}

func buildBlog(req *createBlogRequest, actor models.Actor) (*models.Blog, error) {
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return &models.Blog{
		AuthorID: actor.UserID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Tags:     tags,
	}, nil
}
