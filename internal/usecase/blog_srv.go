package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"study-booking/internal/data/entity"
	"study-booking/internal/data/repository"
	"study-booking/internal/dto/request"
	"study-booking/internal/dto/response"
	"study-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type BlogService interface {
	ListPosts(ctx context.Context) ([]response.PostResponse, error)
	CreatePost(ctx context.Context, req *request.CreatePostRequest) (*response.PostResponse, error)
	DeletePost(ctx context.Context, postID string) error
}

type blogService struct {
	repo   repository.PostRepository
	policy *bluemonday.Policy
	now    func() time.Time
	log    *zap.Logger
}

func NewBlogService(repo repository.PostRepository, log *zap.Logger) BlogService {
	return &blogService{
		repo:   repo,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
		log:    log.With(zap.String("service", "blog")),
	}
}

func (s *blogService) ListPosts(ctx context.Context) ([]response.PostResponse, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]response.PostResponse, len(posts))
	for i, p := range posts {
		out[i] = response.PostToResponse(p)
	}
	return out, nil
}

func (s *blogService) CreatePost(ctx context.Context, req *request.CreatePostRequest) (*response.PostResponse, error) {
	// Markup is stripped before validating so a post of only tags counts as blank.
	clean := request.CreatePostRequest{
		Title:   s.sanitize(req.Title),
		Content: s.sanitize(req.Content),
	}
	if errs := utils.ValidateStruct(clean); len(errs) > 0 {
		s.log.Warn("Create post validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	post := &entity.Post{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now().UTC(),
		},
		Title:   clean.Title,
		Content: clean.Content,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.Int("content_length", len(post.Content)),
	)

	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *blogService) DeletePost(ctx context.Context, postID string) error {
	id, err := uuid.Parse(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format %s: %w", postID, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// sanitize drops all markup and returns plain text. The policy escapes the
// text it keeps, so entities are decoded again before storing.
func (s *blogService) sanitize(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
