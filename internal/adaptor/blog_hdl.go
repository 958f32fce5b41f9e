package adaptor

import (
	"encoding/json"
	"net/http"

	"study-booking/internal/dto/request"
	"study-booking/internal/usecase"
	"study-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BlogHandler struct {
	service usecase.BlogService
	log     *zap.Logger
}

func NewBlogHandler(service usecase.BlogService, log *zap.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		log:     log.With(zap.String("handler", "blog")),
	}
}

// ListPosts handles GET /blogs
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list posts")
		return
	}

	utils.ResponseData(w, http.StatusOK, posts)
}

// CreatePost handles POST /blogs
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	post, err := h.service.CreatePost(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create post")
		return
	}

	utils.ResponseData(w, http.StatusCreated, post)
}

// DeletePost handles DELETE /blogs/{id} (admin)
func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	if postID == "" {
		utils.ResponseBadRequest(w, "Post ID is required", nil)
		return
	}

	if err := h.service.DeletePost(r.Context(), postID); err != nil {
		handleServiceError(h.log, w, err, "delete post")
		return
	}

	utils.ResponseSuccess(w, "Post deleted", nil)
}
